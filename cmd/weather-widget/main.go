package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/suggest"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

const serviceName = "weather-widget"

func main() {
	serviceVersion := buildinfo.SourceVersion()
	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion)
	defer cleanup()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared client for outbound API calls. No timeout: the weather and
	// geocoding requests are bounded only by the request context.
	httpClient := providers.NewHTTPClient()

	var reverser geocode.Reverser = providers.NewNominatimProvider(httpClient, cfg.NominatimURL, cfg.NominatimUserAgent)
	if cfg.GoogleGeocoderAPIKey != "" {
		reverser = providers.NewGoogleGeocoderProvider(cfg.GoogleGeocoderAPIKey)
	}

	var defaultLocator geo.Locator
	if cfg.DefaultLocation != nil {
		defaultLocator = geo.Static{Coords: *cfg.DefaultLocation}
	}

	probe := scheduler.NewHelloProbe(httpClient, cfg.HelloServiceURL, cfg.HelloProbeInterval, cfg.HelloProxyTimeout, log)
	if err := probe.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer probe.Stop()

	app := httpapi.NewApp(httpapi.Dependencies{
		ServiceName:     serviceName,
		Version:         serviceVersion,
		Geocoder:        reverser,
		Weather:         providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL),
		Hello:           widget.NewHelloCaller(httpClient, cfg.HelloEndpointURL),
		GeoOptions:      cfg.GeoOptions(),
		DefaultLocator:  defaultLocator,
		HelloProxy:      httpapi.NewHelloProxy(httpClient, cfg.HelloServiceURL, cfg.HelloProxyTimeout),
		Suggester:       suggest.New(cfg.GeminiAPIKey, cfg.SuggestionBaseURL, cfg.SuggestionModel, httpClient),
		Probe:           probe,
		ForceScriptName: cfg.ForceScriptName,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("geocoder", reverser.Name()).Msg("starting http server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
