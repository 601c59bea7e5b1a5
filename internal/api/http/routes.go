package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/stratus/internal/app"
	"github.com/i474232898/stratus/internal/geo"
	"github.com/i474232898/stratus/internal/render"
	"github.com/i474232898/stratus/internal/search"
	"github.com/i474232898/stratus/internal/weather"
)

var validate = validator.New()

// Deps are the collaborators the routes need.
type Deps struct {
	Service  *app.Service
	Search   *search.Controller
	Geocoder search.Geocoder
	// SearchLimit caps direct geocode requests.
	SearchLimit int
}

// RegisterRoutes wires the event API into the Fiber app.
func RegisterRoutes(a *fiber.App, d Deps) {
	if d.SearchLimit <= 0 {
		d.SearchLimit = search.DefaultLimit
	}
	v1 := a.Group("/api/v1")

	v1.Get("/unit", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"unit": d.Service.State().Unit()})
	})

	v1.Put("/unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := d.Service.SetUnit(c.UserContext(), weather.UnitSystem(req.Unit)); err != nil {
			return toFiberError(err)
		}
		return c.JSON(statusOf(d.Service.State()))
	})

	v1.Get("/place", func(c *fiber.Ctx) error {
		p := d.Service.State().Place()
		if p == nil {
			return fiber.NewError(fiber.StatusNotFound, "no place selected")
		}
		return c.JSON(newPlaceView(*p))
	})

	v1.Put("/place", func(c *fiber.Ctx) error {
		var p weather.Place
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := d.Service.SelectPlace(c.UserContext(), p); err != nil {
			return toFiberError(err)
		}
		return c.JSON(statusOf(d.Service.State()))
	})

	v1.Post("/geolocation", func(c *fiber.Ctx) error {
		var req geolocationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := d.Service.UseGeolocation(c.UserContext(), req.locator())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(newPlaceView(p))
	})

	v1.Post("/search/input", func(c *fiber.Ctx) error {
		var req searchInputRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d.Search.Input(req.Query)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"query": req.Query})
	})

	v1.Get("/search/suggestions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"query":       d.Search.Query(),
			"suggestions": newPlaceViews(d.Search.Suggestions()),
		})
	})

	v1.Post("/search/select/:index", func(c *fiber.Ctx) error {
		i, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}
		p, err := d.Service.SelectSuggestion(c.UserContext(), d.Search, i)
		if err != nil {
			return toFiberError(err)
		}
		d.Search.Clear()
		return c.JSON(newPlaceView(p))
	})

	v1.Get("/geocode", func(c *fiber.Ctx) error {
		var q geocodeQuery
		if err := q.bind(c, d.SearchLimit); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if utf8.RuneCountInString(q.Query) < search.MinQueryLength {
			return c.JSON(fiber.Map{"suggestions": []placeView{}})
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), search.DefaultTimeout)
		defer cancel()
		places, err := d.Geocoder.GeocodeSearch(ctx, q.Query, q.Limit)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"suggestions": newPlaceViews(places)})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		if err := d.Service.Refresh(c.UserContext()); err != nil {
			return toFiberError(err)
		}
		return c.JSON(statusOf(d.Service.State()))
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(statusOf(d.Service.State()))
	})

	v1.Get("/views", func(c *fiber.Ctx) error {
		views, err := derive(d.Service.State())
		if err != nil {
			return err
		}
		return c.JSON(views)
	})

	v1.Get("/views/:name", func(c *fiber.Ctx) error {
		views, err := derive(d.Service.State())
		if err != nil {
			return err
		}
		switch c.Params("name") {
		case "current":
			return c.JSON(views.Current)
		case "hourly":
			return c.JSON(views.Hourly)
		case "daily":
			return c.JSON(views.Daily)
		default:
			return fiber.NewError(fiber.StatusNotFound, "unknown view")
		}
	})
}

// derive renders one pass from a consistent state read. With no snapshot the
// caller gets the failure-visible state: the last error, or "not loaded".
func derive(st *weather.State) (*render.Views, error) {
	v := st.View()
	last := st.Status().Err

	views, err := render.Derive(v)
	switch {
	case errors.Is(err, weather.ErrNotLoaded):
		if last != nil {
			return nil, toFiberError(last)
		}
		return nil, fiber.NewError(fiber.StatusConflict, err.Error())
	case err != nil:
		return nil, err
	}
	// A failed unit switch leaves a snapshot in the previous unit behind.
	if views.Unit != v.Unit && last != nil {
		return nil, toFiberError(last)
	}
	return views, nil
}

// toFiberError maps domain errors to HTTP statuses.
func toFiberError(err error) error {
	var (
		fu *weather.ForecastUnavailable
		ne *weather.NetworkError
		gf *weather.GeolocationFailure
		ve validator.ValidationErrors
	)
	switch {
	case errors.As(err, &gf):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &fu), errors.As(err, &ne):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrNoSuggestion):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrNoPlace):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=metric imperial"`
}

type searchInputRequest struct {
	Query string `json:"query"`
}

// geolocationRequest carries a position (or failure) reported by the browser.
type geolocationRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Error string   `json:"error"`
}

func (r geolocationRequest) locator() weather.Locator {
	switch {
	case r.Error == weather.GeoDenied:
		return geo.Fixed{Err: geo.ErrPermissionDenied}
	case r.Error == weather.GeoTimeout:
		return geo.Fixed{Err: context.DeadlineExceeded}
	case r.Error != "" || r.Lat == nil || r.Lon == nil:
		return geo.Fixed{Err: geo.ErrPositionUnavailable}
	default:
		return geo.Fixed{Lat: *r.Lat, Lon: *r.Lon}
	}
}

// maxGeocodeLimit is the most results the geocoding endpoint returns.
const maxGeocodeLimit = 10

// geocodeQuery holds query parameters for the direct geocode endpoint.
type geocodeQuery struct {
	Query string
	Limit int `validate:"gte=1,lte=10"`
}

// bind reads q and limit. A missing limit falls back to def, capped at
// maxGeocodeLimit; an explicit one must be in range.
func (q *geocodeQuery) bind(c *fiber.Ctx, def int) error {
	q.Query = strings.TrimSpace(c.Query("q"))
	q.Limit = c.QueryInt("limit", min(def, maxGeocodeLimit))
	return validate.Struct(q)
}

type placeView struct {
	weather.Place
	Label  string `json:"label"`
	Coords string `json:"coords"`
}

func newPlaceView(p weather.Place) placeView {
	return placeView{Place: p, Label: p.Label(), Coords: p.Coords()}
}

func newPlaceViews(places []weather.Place) []placeView {
	out := make([]placeView, 0, len(places))
	for _, p := range places {
		out = append(out, newPlaceView(p))
	}
	return out
}

type statusView struct {
	Unit       weather.UnitSystem `json:"unit"`
	Place      *placeView         `json:"place,omitempty"`
	Loaded     bool               `json:"loaded"`
	Loading    bool               `json:"loading"`
	Generation uint64             `json:"generation"`
	Error      string             `json:"error,omitempty"`
	Source     string             `json:"source,omitempty"`
	FetchedAt  *time.Time         `json:"fetchedAt,omitempty"`
}

func statusOf(st *weather.State) statusView {
	v := st.View()
	fs := st.Status()

	out := statusView{
		Unit:       v.Unit,
		Loaded:     v.Data != nil,
		Loading:    fs.Loading,
		Generation: fs.Generation,
	}
	if v.Place != nil {
		pv := newPlaceView(*v.Place)
		out.Place = &pv
	}
	if fs.Err != nil {
		out.Error = fs.Err.Error()
	}
	if v.Data != nil {
		out.Source = v.Data.Source
		t := v.Data.FetchedAt
		out.FetchedAt = &t
	}
	return out
}
