package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/stratus/internal/weather"
)

// DefaultTimeout bounds how long a position fix may take.
const DefaultTimeout = 9 * time.Second

var (
	// ErrPermissionDenied is what a Locator returns when the user refused access.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrPositionUnavailable is what a Locator returns when no fix can be made.
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Acquire asks loc for the device position and turns it into a Place named
// weather.GeolocationName. Exceeding timeout is a failure, never a hang.
// Every error is a *weather.GeolocationFailure.
func Acquire(ctx context.Context, loc weather.Locator, timeout time.Duration) (weather.Place, error) {
	if loc == nil {
		return weather.Place{}, &weather.GeolocationFailure{Reason: weather.GeoUnavailable, Err: ErrPositionUnavailable}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type fix struct {
		lat, lon float64
		err      error
	}
	done := make(chan fix, 1)
	go func() {
		lat, lon, err := loc.Locate(ctx)
		done <- fix{lat, lon, err}
	}()

	select {
	case <-ctx.Done():
		return weather.Place{}, classify(ctx.Err())
	case f := <-done:
		if f.err != nil {
			return weather.Place{}, classify(f.err)
		}
		if f.lat < -90 || f.lat > 90 || f.lon < -180 || f.lon > 180 {
			return weather.Place{}, &weather.GeolocationFailure{
				Reason: weather.GeoUnavailable,
				Err:    fmt.Errorf("coordinates out of range: %f,%f", f.lat, f.lon),
			}
		}
		return weather.Place{Name: weather.GeolocationName, Lat: f.lat, Lon: f.lon}, nil
	}
}

func classify(err error) error {
	var gf *weather.GeolocationFailure
	switch {
	case errors.As(err, &gf):
		return gf
	case errors.Is(err, ErrPermissionDenied):
		return &weather.GeolocationFailure{Reason: weather.GeoDenied, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &weather.GeolocationFailure{Reason: weather.GeoTimeout, Err: err}
	default:
		return &weather.GeolocationFailure{Reason: weather.GeoUnavailable, Err: err}
	}
}

// Fixed is a Locator that reports a position (or error) already obtained
// elsewhere, e.g. by a browser.
type Fixed struct {
	Lat, Lon float64
	Err      error
}

func (f Fixed) Locate(context.Context) (float64, float64, error) {
	return f.Lat, f.Lon, f.Err
}

// Func adapts a function to weather.Locator.
type Func func(ctx context.Context) (float64, float64, error)

func (fn Func) Locate(ctx context.Context) (float64, float64, error) {
	return fn(ctx)
}
