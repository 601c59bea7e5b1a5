package weather

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by readers when no snapshot has been fetched yet.
var ErrNotLoaded = errors.New("weather data not loaded")

// ErrNoPlace is returned when an operation needs a selected place.
var ErrNoPlace = errors.New("no place selected")

// NetworkError is any non-success HTTP response. Status is 0 when the request
// never produced a response.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("network error: status %d", e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ForecastUnavailable means both forecast tiers failed.
type ForecastUnavailable struct {
	PrimaryStatus   int
	SecondaryStatus int

	PrimaryErr   error
	SecondaryErr error
}

func (e *ForecastUnavailable) Error() string {
	return fmt.Sprintf("forecast unavailable: %d/%d", e.PrimaryStatus, e.SecondaryStatus)
}

func (e *ForecastUnavailable) Unwrap() []error {
	var errs []error
	if e.PrimaryErr != nil {
		errs = append(errs, e.PrimaryErr)
	}
	if e.SecondaryErr != nil {
		errs = append(errs, e.SecondaryErr)
	}
	return errs
}

// Geolocation failure reasons.
const (
	GeoDenied      = "denied"
	GeoTimeout     = "timeout"
	GeoUnavailable = "unavailable"
)

// GeolocationFailure means the device position could not be acquired.
type GeolocationFailure struct {
	Reason string
	Err    error
}

func (e *GeolocationFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("geolocation failed (%s)", e.Reason)
}

func (e *GeolocationFailure) Unwrap() error {
	return e.Err
}

// StatusOf extracts the HTTP status carried by a NetworkError, or 0.
func StatusOf(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Status
	}
	return 0
}
