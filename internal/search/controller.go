package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/i474232898/stratus/internal/weather"
)

const (
	// MinQueryLength is the shortest trimmed query sent to the geocoder.
	MinQueryLength = 2

	DefaultDelay   = 250 * time.Millisecond
	DefaultLimit   = 6
	DefaultTimeout = 10 * time.Second
)

// Geocoder is the part of the forecast client the controller needs.
type Geocoder interface {
	GeocodeSearch(ctx context.Context, query string, limit int) ([]weather.Place, error)
}

// Option configures a Controller.
type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

func WithLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithOnChange registers a callback invoked with every new suggestion list.
func WithOnChange(fn func([]weather.Place)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller debounces query text into geocode searches and keeps the
// resulting suggestion list. Each input bumps a generation; responses from an
// older generation are dropped.
type Controller struct {
	geocoder Geocoder
	delay    time.Duration
	limit    int
	timeout  time.Duration
	onChange func([]weather.Place)

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	query       string
	timer       *time.Timer
	gen         uint64
	suggestions []weather.Place
	closed      bool
}

// New creates a Controller.
func New(geocoder Geocoder, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		geocoder: geocoder,
		delay:    DefaultDelay,
		limit:    DefaultLimit,
		timeout:  DefaultTimeout,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input records a keystroke. Queries shorter than MinQueryLength clear the
// list immediately; anything else restarts the debounce timer.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.query = text
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < MinQueryLength {
		changed := c.setLocked(nil)
		c.mu.Unlock()
		c.notify(changed)
		return
	}

	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen, q) })
	c.mu.Unlock()
}

func (c *Controller) fire(gen uint64, query string) {
	if !c.current(gen) {
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	places, err := c.geocoder.GeocodeSearch(ctx, query, c.limit)

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		log.Printf("DEBUG: search: dropping stale results for %q", query)
		return
	}
	if err != nil {
		log.Printf("ERROR: search: geocode %q failed: %v", query, err)
		places = nil
	}
	changed := c.setLocked(places)
	c.mu.Unlock()
	c.notify(changed)
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen && !c.closed
}

// setLocked replaces the list and returns a copy for notification.
func (c *Controller) setLocked(places []weather.Place) []weather.Place {
	if len(places) == 0 {
		c.suggestions = nil
		return []weather.Place{}
	}
	c.suggestions = append([]weather.Place(nil), places...)
	return append([]weather.Place(nil), places...)
}

func (c *Controller) notify(list []weather.Place) {
	if c.onChange != nil {
		c.onChange(list)
	}
}

// Query returns the raw text of the last input.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Suggestions returns a copy of the current list in server order.
func (c *Controller) Suggestions() []weather.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]weather.Place, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Select returns the i-th suggestion.
func (c *Controller) Select(i int) (weather.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.suggestions) {
		return weather.Place{}, false
	}
	return c.suggestions[i], true
}

// Clear empties the query and the list and drops any pending search.
func (c *Controller) Clear() {
	c.Input("")
}

// Close stops the timer and cancels any in-flight search.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.cancel()
}
