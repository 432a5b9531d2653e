package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-widget/internal/geo"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Upstream APIs.
	OpenMeteoURL         string `validate:"required,url"`
	NominatimURL         string `validate:"required,url"`
	NominatimUserAgent   string `validate:"required"`
	GoogleGeocoderAPIKey string

	// HelloServiceURL is the cluster-local service proxied by GET /hello/.
	HelloServiceURL   string        `validate:"required,url"`
	HelloProxyTimeout time.Duration `validate:"gt=0"`
	// HelloEndpointURL is what the widget's hello button calls.
	HelloEndpointURL   string        `validate:"required,url"`
	HelloProbeInterval time.Duration `validate:"gte=0"`

	// Geolocation request options.
	GeoTimeout time.Duration `validate:"gt=0"`
	GeoMaxAge  time.Duration `validate:"gte=0"`

	// DefaultLocation is used when a request carries no position. Nil means
	// the server has no way to locate the user.
	DefaultLocation *geo.Coordinates

	// ForceScriptName is the path prefix used when no X-Forwarded-Prefix
	// header is present.
	ForceScriptName string

	// Activity suggestions.
	GeminiAPIKey      string
	SuggestionBaseURL string `validate:"omitempty,url"`
	SuggestionModel   string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file found or error loading it")
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.OpenMeteoURL = getenvDefault("OPEN_METEO_URL", "https://api.open-meteo.com")
	cfg.NominatimURL = getenvDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	cfg.NominatimUserAgent = getenvDefault("NOMINATIM_USER_AGENT", "weather-widget/1.0")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.HelloServiceURL = getenvDefault("HELLO_SERVICE_URL", "http://hello-service.hello.svc.cluster.local")
	cfg.HelloEndpointURL = getenvDefault("HELLO_ENDPOINT_URL", fmt.Sprintf("http://localhost:%s/hello/", cfg.Port))

	var err error
	if cfg.HelloProxyTimeout, err = getenvDuration("HELLO_PROXY_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.HelloProbeInterval, err = getenvDuration("HELLO_PROBE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.GeoTimeout, err = getenvDuration("GEO_TIMEOUT", geo.DefaultOptions.Timeout); err != nil {
		return nil, err
	}
	if cfg.GeoMaxAge, err = getenvDuration("GEO_MAX_AGE", geo.DefaultOptions.MaximumAge); err != nil {
		return nil, err
	}

	if cfg.DefaultLocation, err = loadDefaultLocation(); err != nil {
		return nil, err
	}

	cfg.ForceScriptName = os.Getenv("FORCE_SCRIPT_NAME")

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SuggestionBaseURL = os.Getenv("SUGGESTION_BASE_URL")
	cfg.SuggestionModel = os.Getenv("SUGGESTION_MODEL")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GeoOptions returns the options position requests are made with.
func (c *AppConfig) GeoOptions() geo.Options {
	opts := geo.DefaultOptions
	opts.Timeout = c.GeoTimeout
	opts.MaximumAge = c.GeoMaxAge
	return opts
}

func loadDefaultLocation() (*geo.Coordinates, error) {
	lat := strings.TrimSpace(os.Getenv("DEFAULT_LATITUDE"))
	lon := strings.TrimSpace(os.Getenv("DEFAULT_LONGITUDE"))
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("DEFAULT_LATITUDE and DEFAULT_LONGITUDE must be set together")
	}

	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LATITUDE: %w", err)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LONGITUDE: %w", err)
	}

	coords := &geo.Coordinates{Latitude: latitude, Longitude: longitude}
	if err := validate.Struct(coords); err != nil {
		return nil, fmt.Errorf("invalid default location: %w", err)
	}
	return coords, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
