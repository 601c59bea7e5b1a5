package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/i474232898/stratus/internal/weather"
)

// DefaultBaseURL is the OpenWeatherMap API host.
const DefaultBaseURL = "https://api.openweathermap.org"

// One Call versions, tried in this order.
const (
	PrimaryVersion   = "3.0"
	SecondaryVersion = "2.5"
)

// OpenWeatherClient implements weather.ForecastClient for OpenWeatherMap.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	client  HTTPDoer

	geoCircuit       *gobreaker.CircuitBreaker
	primaryCircuit   *gobreaker.CircuitBreaker
	secondaryCircuit *gobreaker.CircuitBreaker

	now func() time.Time
}

// NewOpenWeatherClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewOpenWeatherClient(client HTTPDoer, baseURL, apiKey string) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenWeatherClient{
		name:             "openweathermap",
		apiKey:           apiKey,
		baseURL:          strings.TrimRight(baseURL, "/"),
		client:           client,
		geoCircuit:       newCircuit("openweather-geo"),
		primaryCircuit:   newCircuit("openweather-onecall-" + PrimaryVersion),
		secondaryCircuit: newCircuit("openweather-onecall-" + SecondaryVersion),
		now:              time.Now,
	}
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

// GeocodeSearch resolves free text to candidate places in server order.
func (c *OpenWeatherClient) GeocodeSearch(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", query)
		values.Set("limit", strconv.Itoa(limit))
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s/geo/1.0/direct?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.client, c.geoCircuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}

	places := make([]weather.Place, 0, len(payload))
	for _, g := range payload {
		places = append(places, g.toPlace())
	}
	return places, nil
}

// FetchForecast tries One Call 3.0 and, only if that does not succeed, falls
// back once to 2.5. Both failing yields *weather.ForecastUnavailable.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, lat, lon float64, unit weather.UnitSystem) (*weather.Snapshot, error) {
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}

	reqID := uuid.NewString()

	snap, primaryStatus, primaryErr := c.fetchTier(ctx, PrimaryVersion, c.primaryCircuit, lat, lon, unit)
	if primaryErr == nil {
		log.Printf("DEBUG: forecast %s: served by onecall %s", reqID, PrimaryVersion)
		return snap, nil
	}
	log.Printf("INFO: forecast %s: onecall %s failed (%d): %v; falling back to %s",
		reqID, PrimaryVersion, primaryStatus, primaryErr, SecondaryVersion)

	snap, secondaryStatus, secondaryErr := c.fetchTier(ctx, SecondaryVersion, c.secondaryCircuit, lat, lon, unit)
	if secondaryErr == nil {
		log.Printf("DEBUG: forecast %s: served by onecall %s", reqID, SecondaryVersion)
		return snap, nil
	}
	log.Printf("ERROR: forecast %s: onecall %s failed (%d): %v", reqID, SecondaryVersion, secondaryStatus, secondaryErr)

	return nil, &weather.ForecastUnavailable{
		PrimaryStatus:   primaryStatus,
		SecondaryStatus: secondaryStatus,
		PrimaryErr:      primaryErr,
		SecondaryErr:    secondaryErr,
	}
}

// fetchTier performs a single One Call request for the given version and
// returns the HTTP status it observed (0 if none).
func (c *OpenWeatherClient) fetchTier(
	ctx context.Context,
	version string,
	cb *gobreaker.CircuitBreaker,
	lat, lon float64,
	unit weather.UnitSystem,
) (*weather.Snapshot, int, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("units", string(unit))
		values.Set("exclude", "minutely,alerts")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s/data/%s/onecall?%s", c.baseURL, version, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.client, cb, buildRequest)
	if err != nil {
		return nil, weather.StatusOf(err), err
	}
	defer resp.Body.Close()

	var payload oneCallPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode onecall %s response: %w", version, err)
	}

	snap := payload.toSnapshot(unit, version)
	snap.FetchedAt = c.now().UTC()
	return snap, resp.StatusCode, nil
}
