package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/weather"
)

const DefaultOpenMeteoURL = "https://api.open-meteo.com"

var validate = validator.New()

// OpenMeteoProvider implements weather.Source for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

// NewOpenMeteoProvider creates a provider talking to baseURL, which defaults
// to the public Open-Meteo API when empty.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: strings.TrimRight(baseURL, "/") + "/v1/forecast",
		httpCfg: HTTPClientConfig{Client: client},
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// currentWeatherPayload is the current_weather object of a forecast
// response. Pointers distinguish absent fields from zero values.
type currentWeatherPayload struct {
	Temperature   *float64 `json:"temperature" validate:"required"`
	WeatherCode   *float64 `json:"weathercode" validate:"required"`
	WindSpeed     *float64 `json:"windspeed" validate:"required"`
	WindDirection any      `json:"winddirection"`
	Time          string   `json:"time"`
}

func (p *OpenMeteoProvider) CurrentWeather(ctx context.Context, coords geo.Coordinates) (weather.Current, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("current_weather", "true")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, buildRequest)
	if err != nil {
		return weather.Current{}, fmt.Errorf("openmeteo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Current{}, fmt.Errorf("openmeteo: read response: %w", err)
	}

	return parseCurrentWeather(body)
}

// parseCurrentWeather decodes a forecast response. Malformed JSON is a parse
// error; well-formed JSON of the wrong shape is reported as
// weather.ErrMissingPayload.
func parseCurrentWeather(body []byte) (weather.Current, error) {
	if !json.Valid(body) {
		return weather.Current{}, fmt.Errorf("openmeteo: response is not valid json")
	}

	var payload struct {
		CurrentWeather *currentWeatherPayload `json:"current_weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Current{}, fmt.Errorf("%w: %v", weather.ErrMissingPayload, err)
	}
	if payload.CurrentWeather == nil {
		return weather.Current{}, weather.ErrMissingPayload
	}

	cw := payload.CurrentWeather
	if err := validate.Struct(cw); err != nil {
		return weather.Current{}, fmt.Errorf("%w: %v", weather.ErrMissingPayload, err)
	}

	windDirection := math.NaN()
	if deg, ok := cw.WindDirection.(float64); ok {
		windDirection = deg
	}

	return weather.Current{
		Temperature:   *cw.Temperature,
		WeatherCode:   weather.Code(int(*cw.WeatherCode)),
		WindSpeed:     *cw.WindSpeed,
		WindDirection: windDirection,
		Time:          cw.Time,
	}, nil
}
