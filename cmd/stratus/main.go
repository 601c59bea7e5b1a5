package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/stratus/internal/api/http"
	"github.com/i474232898/stratus/internal/app"
	"github.com/i474232898/stratus/internal/config"
	"github.com/i474232898/stratus/internal/scheduler"
	"github.com/i474232898/stratus/internal/search"
	"github.com/i474232898/stratus/internal/store"
	"github.com/i474232898/stratus/internal/weather"
	"github.com/i474232898/stratus/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound OpenWeather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)

	// Persisted unit and last place.
	prefs, err := store.Open(context.Background(), cfg.PrefsDriver, cfg.PrefsDSN)
	if err != nil {
		log.Fatalf("failed to open preferences: %v", err)
	}
	defer prefs.Close()

	svc := app.NewService(weather.NewState(prefs), client,
		app.WithFetchTimeout(2*cfg.HTTPTimeout),
		app.WithGeolocationTimeout(cfg.GeolocationTimeout),
	)

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	if err := svc.Restore(restoreCtx); err != nil {
		// The failure stays visible through /api/v1/status.
		log.Printf("ERROR: initial load: %v", err)
	}
	cancelRestore()

	ctrl := search.New(client,
		search.WithDelay(cfg.SearchDebounce),
		search.WithLimit(cfg.SearchLimit),
		search.WithTimeout(cfg.HTTPTimeout),
	)
	defer ctrl.Close()

	// Periodic refresh of the selected place.
	sched := scheduler.New(cfg.RefreshInterval, svc)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	a := fiber.New(fiber.Config{
		AppName:               "stratus",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          3 * cfg.HTTPTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	a.Use(logger.New())
	a.Use(recover.New())

	a.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "stratus",
		})
	})

	httpapi.RegisterRoutes(a, httpapi.Deps{
		Service:     svc,
		Search:      ctrl,
		Geocoder:    client,
		SearchLimit: cfg.SearchLimit,
	})

	go func() {
		if err := a.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: stratus listening on :%s", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
