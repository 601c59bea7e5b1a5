package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/stratus/internal/geo"
	"github.com/i474232898/stratus/internal/weather"
)

// DefaultFetchTimeout bounds a whole forecast fetch, fallback tier included.
const DefaultFetchTimeout = 20 * time.Second

var validate = validator.New()

// ErrNoSuggestion is returned when a suggestion index is out of range.
var ErrNoSuggestion = errors.New("no suggestion")

// Suggester is anything that can hand out the i-th search suggestion.
type Suggester interface {
	Select(i int) (weather.Place, bool)
}

// Service is the event-handler layer: it mutates State and then issues the
// forecast fetch the mutation calls for. State itself never fetches.
type Service struct {
	state  *weather.State
	client weather.ForecastClient

	fetchTimeout time.Duration
	geoTimeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithGeolocationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.geoTimeout = d
		}
	}
}

// NewService creates a new Service.
func NewService(state *weather.State, client weather.ForecastClient, opts ...Option) *Service {
	s := &Service{
		state:        state,
		client:       client,
		fetchTimeout: DefaultFetchTimeout,
		geoTimeout:   geo.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) State() *weather.State {
	return s.state
}

// Restore loads persisted unit and place and, if a place was saved, fetches
// its forecast once. A failed fetch is returned but leaves the restored
// preferences in place.
func (s *Service) Restore(ctx context.Context) error {
	if err := s.state.Restore(); err != nil {
		return fmt.Errorf("restore preferences: %w", err)
	}
	p := s.state.Place()
	if p == nil {
		log.Println("INFO: app: no saved place; waiting for a selection")
		return nil
	}
	log.Printf("INFO: app: restored %s (%s) in %s", p.Label(), p.Key(), s.state.Unit())
	return s.fetch(ctx, *p)
}

// SelectPlace makes p the selected place and fetches its forecast.
func (s *Service) SelectPlace(ctx context.Context, p weather.Place) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid place: %w", err)
	}
	s.state.SetPlace(p)
	return s.fetch(ctx, p)
}

// SelectSuggestion selects the i-th entry of the suggestion list.
func (s *Service) SelectSuggestion(ctx context.Context, src Suggester, i int) (weather.Place, error) {
	p, ok := src.Select(i)
	if !ok {
		return weather.Place{}, fmt.Errorf("%w at index %d", ErrNoSuggestion, i)
	}
	return p, s.SelectPlace(ctx, p)
}

// SetUnit switches the unit system. When it actually changes and a place is
// selected, exactly one new fetch is made in the new unit.
func (s *Service) SetUnit(ctx context.Context, u weather.UnitSystem) error {
	if _, err := weather.ParseUnitSystem(string(u)); err != nil {
		return err
	}
	if s.state.Unit() == u {
		return nil
	}
	s.state.SetUnit(u)

	p := s.state.Place()
	if p == nil {
		return nil
	}
	return s.fetch(ctx, *p)
}

// UseGeolocation acquires the device position, selects it and fetches.
// Geolocation failures leave the state untouched.
func (s *Service) UseGeolocation(ctx context.Context, loc weather.Locator) (weather.Place, error) {
	p, err := geo.Acquire(ctx, loc, s.geoTimeout)
	if err != nil {
		log.Printf("INFO: app: geolocation: %v", err)
		return weather.Place{}, err
	}
	return p, s.SelectPlace(ctx, p)
}

// Refresh re-fetches the selected place in the current unit.
func (s *Service) Refresh(ctx context.Context) error {
	p := s.state.Place()
	if p == nil {
		return weather.ErrNoPlace
	}
	return s.fetch(ctx, *p)
}

// fetch issues a new generation and commits the result only if no newer
// fetch was issued meanwhile.
func (s *Service) fetch(ctx context.Context, p weather.Place) error {
	gen, unit := s.state.BeginFetch()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.client.FetchForecast(ctx, p.Lat, p.Lon, unit)
	if err != nil {
		if !s.state.CommitError(gen, err) {
			log.Printf("DEBUG: app: dropping stale failure for %s (gen %d)", p.Key(), gen)
			return nil
		}
		log.Printf("ERROR: app: forecast for %s failed: %v", p.Key(), err)
		return err
	}

	if !s.state.CommitData(gen, snap) {
		log.Printf("DEBUG: app: dropping stale forecast for %s (gen %d)", p.Key(), gen)
		return nil
	}
	log.Printf("INFO: app: forecast for %s in %s from onecall %s (%s)", p.Key(), unit, snap.Source, time.Since(start))
	return nil
}
