package providers

import (
	"github.com/i474232898/stratus/internal/weather"
)

// oneCallPayload mirrors the One Call response shared by API 3.0 and 2.5.
// Every optional number is a pointer so absence survives decoding.
type oneCallPayload struct {
	Timezone       string          `json:"timezone"`
	TimezoneOffset int             `json:"timezone_offset"`
	Current        oneCallSample   `json:"current"`
	Hourly         []oneCallSample `json:"hourly"`
	Daily          []oneCallDaily  `json:"daily"`
}

type oneCallWeather struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type oneCallRain struct {
	OneH *float64 `json:"1h"`
}

type oneCallSample struct {
	Dt        int64            `json:"dt"`
	Temp      *float64         `json:"temp"`
	FeelsLike *float64         `json:"feels_like"`
	Humidity  *float64         `json:"humidity"`
	WindSpeed *float64         `json:"wind_speed"`
	UVI       *float64         `json:"uvi"`
	Pop       *float64         `json:"pop"`
	Rain      *oneCallRain     `json:"rain"`
	Weather   []oneCallWeather `json:"weather"`
}

type oneCallDaily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Day *float64 `json:"day"`
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"temp"`
	FeelsLike struct {
		Day *float64 `json:"day"`
	} `json:"feels_like"`
	Humidity  *float64         `json:"humidity"`
	WindSpeed *float64         `json:"wind_speed"`
	UVI       *float64         `json:"uvi"`
	Pop       *float64         `json:"pop"`
	Weather   []oneCallWeather `json:"weather"`
}

func (p oneCallPayload) toSnapshot(unit weather.UnitSystem, source string) *weather.Snapshot {
	snap := &weather.Snapshot{
		Current:        p.Current.toSample(),
		Hourly:         make([]weather.ConditionSample, 0, len(p.Hourly)),
		Daily:          make([]weather.DailySample, 0, len(p.Daily)),
		TimezoneOffset: p.TimezoneOffset,
		Timezone:       p.Timezone,
		Unit:           unit,
		Source:         source,
	}
	for _, h := range p.Hourly {
		snap.Hourly = append(snap.Hourly, h.toSample())
	}
	for _, d := range p.Daily {
		snap.Daily = append(snap.Daily, d.toSample())
	}
	return snap
}

func (s oneCallSample) toSample() weather.ConditionSample {
	out := weather.ConditionSample{
		Time:      s.Dt,
		Temp:      s.Temp,
		FeelsLike: s.FeelsLike,
		Humidity:  s.Humidity,
		WindSpeed: s.WindSpeed,
		UVI:       s.UVI,
		Pop:       s.Pop,
		Condition: firstCondition(s.Weather),
	}
	if s.Rain != nil {
		out.Rain1h = s.Rain.OneH
	}
	return out
}

func (d oneCallDaily) toSample() weather.DailySample {
	return weather.DailySample{
		ConditionSample: weather.ConditionSample{
			Time:      d.Dt,
			Temp:      d.Temp.Day,
			FeelsLike: d.FeelsLike.Day,
			Humidity:  d.Humidity,
			WindSpeed: d.WindSpeed,
			UVI:       d.UVI,
			Pop:       d.Pop,
			Condition: firstCondition(d.Weather),
		},
		Min: d.Temp.Min,
		Max: d.Temp.Max,
	}
}

func firstCondition(items []oneCallWeather) *weather.Condition {
	if len(items) == 0 {
		return nil
	}
	return &weather.Condition{
		Code:        items[0].Icon,
		Main:        items[0].Main,
		Description: items[0].Description,
	}
}

// geoResult is one entry of the direct geocoding response.
type geoResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

func (g geoResult) toPlace() weather.Place {
	return weather.Place{
		Name:    g.Name,
		Lat:     g.Lat,
		Lon:     g.Lon,
		Country: g.Country,
		State:   g.State,
	}
}
