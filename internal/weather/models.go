package weather

import (
	"fmt"
	"strings"
	"time"
)

// UnitSystem selects the measurement convention used for temperature and speed.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// DefaultUnit is used when nothing valid has been persisted.
const DefaultUnit = Metric

// ParseUnitSystem accepts exactly "metric" or "imperial".
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(s) {
	case Metric, Imperial:
		return UnitSystem(s), nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// GeolocationName is the label given to places created from a device position.
const GeolocationName = "My location"

// Place represents a named geographic point selectable by the user.
// Identity is (Lat, Lon) at display precision; the rest is descriptive.
type Place struct {
	Name    string  `json:"name" validate:"required"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}

// Key returns a canonical identity key for the place (2 decimal places).
func (p Place) Key() string {
	return p.Coords()
}

// Coords renders the coordinates at display precision.
func (p Place) Coords() string {
	return fmt.Sprintf("%.2f, %.2f", p.Lat, p.Lon)
}

// Label renders "Name, State, Country", skipping empty parts.
func (p Place) Label() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.State, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// SamePlace reports whether two places share an identity.
func SamePlace(a, b *Place) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

// Condition is the first weather condition reported for a sample.
// Code is the provider icon code, e.g. "01d".
type Condition struct {
	Code        string `json:"code"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

// ConditionSample is a single current or hourly observation/forecast point.
// Optional numeric fields are nil when the provider omitted them.
type ConditionSample struct {
	Time      int64      `json:"dt"` // UTC epoch seconds
	Temp      *float64   `json:"temp,omitempty"`
	FeelsLike *float64   `json:"feelsLike,omitempty"`
	Humidity  *float64   `json:"humidity,omitempty"` // percent, 0..100
	WindSpeed *float64   `json:"windSpeed,omitempty"`
	UVI       *float64   `json:"uvi,omitempty"`
	Pop       *float64   `json:"pop,omitempty"` // fraction, 0..1
	Rain1h    *float64   `json:"rain1h,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}

// DailySample adds the day's temperature range to a ConditionSample.
type DailySample struct {
	ConditionSample
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Snapshot is one fetched forecast result. It is replaced wholesale on every
// successful fetch and never mutated afterwards.
type Snapshot struct {
	Current        ConditionSample   `json:"current"`
	Hourly         []ConditionSample `json:"hourly"`
	Daily          []DailySample     `json:"daily"`
	TimezoneOffset int               `json:"timezoneOffset"` // seconds east of UTC
	Timezone       string            `json:"timezone,omitempty"`

	Unit      UnitSystem `json:"unit"`
	Source    string     `json:"source"` // API tier that answered
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Float returns a pointer to v; handy for building samples.
func Float(v float64) *float64 {
	return &v
}
