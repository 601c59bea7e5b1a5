package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/stratus/internal/weather"
)

// HTTPDoer is the injected transport. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("openweather api key is not configured")
	errCircuitOpen   = errors.New("circuit breaker open")
)

// newCircuit builds the breaker guarding one endpoint. A tier that keeps
// failing is short-circuited to a non-success without touching the network.
func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes exactly one HTTP request behind the circuit breaker.
// There are no retries. Any non-2xx status or transport failure comes back as
// a *weather.NetworkError; on success the caller owns the response body.
func doRequest(
	ctx context.Context,
	client HTTPDoer,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}
	if ctx.Err() != nil {
		return nil, &weather.NetworkError{Err: ctx.Err()}
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	call := func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, &weather.NetworkError{Err: execErr}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, &weather.NetworkError{Status: resp.StatusCode}
		}
		return resp, nil
	}

	var result interface{}
	if cb != nil {
		result, err = cb.Execute(call)
	} else {
		result, err = call()
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.NetworkError{Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
