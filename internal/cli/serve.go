package cli

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-timelapse/internal/api/http"
	"github.com/i474232898/weather-timelapse/internal/config"
	"github.com/i474232898/weather-timelapse/internal/locate"
	"github.com/i474232898/weather-timelapse/internal/overlay"
	"github.com/i474232898/weather-timelapse/internal/scheduler"
	"github.com/i474232898/weather-timelapse/internal/store"
	"github.com/i474232898/weather-timelapse/internal/timelapse"
	"github.com/i474232898/weather-timelapse/internal/viewer"
	"github.com/i474232898/weather-timelapse/internal/weather"
	"github.com/i474232898/weather-timelapse/internal/weather/providers"
)

const serviceName = "weather-timelapse"

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Port string
}

// NewServeCommand runs the HTTP service.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the time-lapse and overlay HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	// Shared HTTP client for outbound provider and overlay calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHours)

	// Open-Meteo needs no key; the others are used when configured.
	provs := []weather.Provider{providers.NewOpenMeteoProvider(httpClient)}
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	service := weather.NewService(memStore, provs)

	sched := scheduler.New(cfg.Stations, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := newPageDeps(ctx, cfg, overlay.NewFetcher(httpClient), func() (*viewer.Globe, error) {
		return viewer.NewGlobe(), nil
	})
	deps.Service = service

	app := httpapi.NewApp(serviceName)
	httpapi.RegisterRoutes(app, deps)

	go func() {
		log.Printf("INFO: %s listening on :%s, page %s", serviceName, cfg.Port, cfg.PageURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	if deps.Driver != nil {
		deps.Driver.Wait()
	}
	return nil
}

// newPageDeps builds the page and, when the globe can be created, the
// components that drive it. On failure the page keeps the alert and the
// service stays up without a globe.
func newPageDeps(ctx context.Context, cfg *config.AppConfig, fetcher timelapse.Fetcher, create func() (*viewer.Globe, error)) httpapi.Deps {
	page := viewer.NewPage(100)
	deps := httpapi.Deps{Page: page, OverlayIconHref: cfg.OverlayIconHref}

	globe := viewer.Init(page, create)
	if globe == nil {
		log.Printf("ERROR: globe could not be created; time-lapse and locate are disabled")
		return deps
	}

	if cfg.GeocoderAPIKey == "" {
		log.Printf("INFO: GOOGLE_GEOCODING_API_KEY not set; address lookups will fail")
	}

	deps.Globe = globe
	deps.Driver = timelapse.NewDriver(ctx, timelapse.Config{
		PageURL: cfg.PageURL,
		Delay:   cfg.TimelapseDelay,
	}, fetcher, globe, page)
	deps.Locator = locate.NewLocator(locate.NewGoogleGeocoder(cfg.GeocoderAPIKey), globe, page)
	return deps
}
