package config

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)

	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_LATITUDE", "")
	t.Setenv("DEFAULT_LONGITUDE", "")

	cfg, err := Load()
	is.NoErr(err)

	is.Equal(cfg.Port, "9090")
	is.Equal(cfg.OpenMeteoURL, "https://api.open-meteo.com")
	is.Equal(cfg.HelloServiceURL, "http://hello-service.hello.svc.cluster.local")
	is.Equal(cfg.HelloEndpointURL, "http://localhost:9090/hello/")
	is.Equal(cfg.HelloProxyTimeout, 3*time.Second)
	is.True(cfg.DefaultLocation == nil)

	opts := cfg.GeoOptions()
	is.Equal(opts.Timeout, 8*time.Second)
	is.Equal(opts.MaximumAge, 60*time.Second)
	is.True(!opts.EnableHighAccuracy)
}

func TestLoadDefaultLocation(t *testing.T) {
	is := is.New(t)

	t.Setenv("DEFAULT_LATITUDE", "62.39")
	t.Setenv("DEFAULT_LONGITUDE", "17.31")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.DefaultLocation.Latitude, 62.39)
	is.Equal(cfg.DefaultLocation.Longitude, 17.31)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"half a location":     {"DEFAULT_LATITUDE", "10"},
		"latitude off globe":  {"DEFAULT_LATITUDE", "91"},
		"bad duration":        {"GEO_TIMEOUT", "soon"},
		"zero geo timeout":    {"GEO_TIMEOUT", "0s"},
		"not a url":           {"OPEN_METEO_URL", "::nope"},
		"port is not numeric": {"PORT", "http"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			t.Setenv("DEFAULT_LATITUDE", "")
			t.Setenv("DEFAULT_LONGITUDE", "")
			if kv[0] == "DEFAULT_LATITUDE" && kv[1] == "91" {
				t.Setenv("DEFAULT_LONGITUDE", "0")
			}
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			is.True(err != nil)
		})
	}
}
