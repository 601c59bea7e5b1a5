package weather

import (
	"context"
)

// ForecastClient abstracts the geocoding and forecast API (e.g. OpenWeatherMap).
type ForecastClient interface {
	GeocodeSearch(ctx context.Context, query string, limit int) ([]Place, error)
	FetchForecast(ctx context.Context, lat, lon float64, unit UnitSystem) (*Snapshot, error)
}

// Preferences is the key-value persistence contract AppState mirrors into.
// Get reports ok=false when the key has never been set.
type Preferences interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Locator produces the device position (e.g. a browser-reported fix).
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// Persisted preference keys.
const (
	KeyUnit  = "unit"
	KeyPlace = "place"
)
