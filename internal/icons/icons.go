package icons

import "fmt"

// Default is used for any code outside the known set.
const Default = "clear-day"

// DefaultCode is assumed when a sample carries no condition at all.
const DefaultCode = "01d"

// assetDir is where the icon set is served from.
const assetDir = "assets/icons"

// byCode maps OpenWeather icon codes to icon identifiers. Day and night
// variants only differ where the artwork does.
var byCode = map[string]string{
	"01d": "clear-day", "01n": "clear-night",
	"02d": "partly-cloudy-day", "02n": "partly-cloudy-night",
	"03d": "cloudy", "03n": "cloudy",
	"04d": "overcast", "04n": "overcast",
	"09d": "shower-rain", "09n": "shower-rain",
	"10d": "rain", "10n": "rain",
	"11d": "thunder", "11n": "thunder",
	"13d": "snow", "13n": "snow",
	"50d": "mist", "50n": "mist",
}

// Resolve returns the icon identifier for a condition code. It never returns
// an empty string.
func Resolve(code string) string {
	if id, ok := byCode[code]; ok {
		return id
	}
	return Default
}

// Path builds the asset path for an icon identifier.
func Path(id string) string {
	if id == "" {
		id = Default
	}
	return fmt.Sprintf("%s/%s.svg", assetDir, id)
}
