package widget

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
	"github.com/i474232898/weather-widget/internal/weather"
)

type sourceMock struct {
	CurrentWeatherFunc func(ctx context.Context, coords geo.Coordinates) (weather.Current, error)
	calls              int
}

func (m *sourceMock) Name() string { return "mock" }

func (m *sourceMock) CurrentWeather(ctx context.Context, coords geo.Coordinates) (weather.Current, error) {
	m.calls++
	return m.CurrentWeatherFunc(ctx, coords)
}

type reverserMock struct {
	addr geocode.Address
	err  error
}

func (m reverserMock) Name() string { return "mock" }

func (m reverserMock) Reverse(context.Context, geo.Coordinates) (geocode.Address, error) {
	return m.addr, m.err
}

func returnsWeather(cw weather.Current) *sourceMock {
	return &sourceMock{
		CurrentWeatherFunc: func(context.Context, geo.Coordinates) (weather.Current, error) {
			return cw, nil
		},
	}
}

func failsWith(err error) *sourceMock {
	return &sourceMock{
		CurrentWeatherFunc: func(context.Context, geo.Coordinates) (weather.Current, error) {
			return weather.Current{}, err
		},
	}
}

var here = geo.Coordinates{Latitude: 62.3908, Longitude: 17.3069}

func TestLoadRendersCurrentWeather(t *testing.T) {
	is := is.New(t)

	w := &Widget{
		Locator:  geo.Static{Coords: here},
		Geocoder: reverserMock{addr: geocode.Address{City: "Sundsvall"}},
		Weather: returnsWeather(weather.Current{
			Temperature:   21.4,
			WeatherCode:   3,
			WindSpeed:     12.6,
			WindDirection: 90,
			Time:          "2024-05-01T14:45",
		}),
		Options: geo.DefaultOptions,
	}

	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), "21°C"))
	is.True(strings.Contains(v.Temperature.HTML(), weather.Code(3).Description()))
	is.Equal(v.WindSpeed.HTML(), "13 km/h")
	is.Equal(v.WindDirection.HTML(), "E (90°)")
	is.Equal(v.LastUpdated.HTML(), "2:45 PM")
	is.Equal(v.LocationLabel.HTML(), "Near Sundsvall")

	is.Equal(v.LatInput.Value(), "62.3908")
	is.Equal(v.LonInput.Value(), "17.3069")
	is.Equal(v.TemperatureInput.Value(), "21")
	is.Equal(v.WeatherTextInput.Value(), "☁️ Cloudy")
}

func TestLoadWithoutWindDirectionShowsPlaceholder(t *testing.T) {
	is := is.New(t)

	w := &Widget{
		Locator: geo.Static{Coords: here},
		Weather: returnsWeather(weather.Current{Temperature: -0.4, WeatherCode: 42, WindDirection: math.NaN()}),
	}

	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), "0°C"))
	is.True(strings.Contains(v.Temperature.HTML(), "Weather code 42"))
	is.Equal(v.WindDirection.HTML(), "--")
	is.Equal(v.LastUpdated.HTML(), "--")
}

func TestLoadWithMissingPayloadShowsError(t *testing.T) {
	is := is.New(t)

	w := &Widget{
		Locator:  geo.Static{Coords: here},
		Geocoder: reverserMock{addr: geocode.Address{City: "Sundsvall"}},
		Weather:  failsWith(weather.ErrMissingPayload),
	}

	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), MsgWeatherMissing))
	is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
	is.Equal(v.WindSpeed.HTML(), "--")
	is.Equal(v.TemperatureInput.Value(), "")
}

func TestLoadWithNetworkFailureShowsGenericError(t *testing.T) {
	is := is.New(t)

	w := &Widget{
		Locator: geo.Static{Coords: here},
		Weather: failsWith(errors.New("dial tcp: connection refused")),
	}

	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), MsgWeatherFailed))
	is.True(!strings.Contains(v.Temperature.HTML(), "connection refused"))
	is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
}

func TestLoadWithPermissionDenied(t *testing.T) {
	is := is.New(t)

	src := returnsWeather(weather.Current{})
	w := &Widget{
		Locator: geo.NewReportedFailure(geo.PermissionDenied, "User denied Geolocation"),
		Weather: src,
	}

	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), MsgLocationDenied))
	is.True(!strings.Contains(v.Temperature.HTML(), MsgLocationFailed))
	is.Equal(src.calls, 0)
}

func TestLoadWithOtherPositionErrors(t *testing.T) {
	for _, code := range []geo.ErrorCode{geo.PositionUnavailable, geo.Timeout} {
		t.Run(code.String(), func(t *testing.T) {
			is := is.New(t)

			w := &Widget{Locator: geo.NewReportedFailure(code, "")}
			v := NewPageView("test")
			w.Load(context.Background(), v)

			is.True(strings.Contains(v.Temperature.HTML(), MsgLocationFailed))
			is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
		})
	}
}

func TestLoadWithoutLocatorIsUnsupported(t *testing.T) {
	is := is.New(t)

	w := &Widget{}
	v := NewPageView("test")
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), MsgGeolocationUnsupported))
	is.Equal(v.WindSpeed.HTML(), "--")
	is.Equal(v.WindDirection.HTML(), "--")
	is.Equal(v.LastUpdated.HTML(), "--")
	is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
}

func TestLoadWithoutTemperatureSlotDoesNothing(t *testing.T) {
	is := is.New(t)

	src := returnsWeather(weather.Current{Temperature: 10})
	w := &Widget{Locator: geo.Static{Coords: here}, Weather: src}

	v := NewView("test", SlotLocationLabel, SlotWindSpeed)
	w.Load(context.Background(), v)

	is.Equal(src.calls, 0)
	is.Equal(v.LocationLabel.HTML(), "")
	is.Equal(v.WindSpeed.HTML(), "")
}

func TestLoadToleratesMissingSlots(t *testing.T) {
	is := is.New(t)

	w := &Widget{
		Locator: geo.Static{Coords: here},
		Weather: returnsWeather(weather.Current{Temperature: 5, WindDirection: 10}),
	}

	v := NewView("test", SlotTemperature)
	w.Load(context.Background(), v)

	is.True(strings.Contains(v.Temperature.HTML(), "5°C"))
}

func TestLocationLabelSettlesBeforeWeatherIsFetched(t *testing.T) {
	is := is.New(t)

	v := NewPageView("test")
	src := &sourceMock{
		CurrentWeatherFunc: func(context.Context, geo.Coordinates) (weather.Current, error) {
			is.Equal(v.LocationLabel.HTML(), "Near Sundsvall")
			return weather.Current{}, errors.New("boom")
		},
	}

	w := &Widget{
		Locator:  geo.Static{Coords: here},
		Geocoder: reverserMock{addr: geocode.Address{Village: "Sundsvall"}},
		Weather:  src,
	}
	w.Load(context.Background(), v)

	is.Equal(src.calls, 1)
	is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
}

func TestResolveLocationFallsBackToCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		reverser geocode.Reverser
	}{
		{"lookup error", reverserMock{err: errors.New("timeout")}},
		{"no city level field", reverserMock{addr: geocode.Address{}}},
		{"no geocoder", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)

			v := NewView("test", SlotLocationLabel)
			ResolveLocation(context.Background(), v, tc.reverser, geo.Coordinates{Latitude: 59.32932, Longitude: 18.06858})
			is.Equal(v.LocationLabel.HTML(), "Near 59.33°, 18.07°")
		})
	}
}

func TestShowErrorIsIdempotent(t *testing.T) {
	is := is.New(t)

	v := NewPageView("test")
	ShowError(v, "first problem")
	ShowError(v, "second problem")

	is.Equal(v.Temperature.HTML(), `<span class="error">⚠️ second problem</span>`)
	is.True(!strings.Contains(v.Temperature.HTML(), "first problem"))
	is.Equal(v.LocationLabel.HTML(), LocationUnavailable)
	is.Equal(v.WindSpeed.HTML(), "--")
}

func TestShowErrorEscapesMessage(t *testing.T) {
	is := is.New(t)

	v := NewView("test", SlotTemperature)
	ShowError(v, "<b>bad</b>")
	is.Equal(v.Temperature.HTML(), `<span class="error">⚠️ &lt;b&gt;bad&lt;/b&gt;</span>`)
}

func TestNilSlotsAreNoOps(t *testing.T) {
	is := is.New(t)

	var s *Slot
	s.SetHTML("x")
	s.SetText("x")
	s.SetValue("x")
	s.OnActivate(func(context.Context, *Event) {})

	is.Equal(s.HTML(), "")
	is.Equal(s.Value(), "")
	is.True(!s.Activate(context.Background()))

	v := NewView("test")
	ShowError(v, "nothing to write to")
	is.Equal(len(v.Snapshot()), 0)
}

func TestRenderWeatherLogsUnmappedCode(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	ctx := logging.NewContextWithLogger(context.Background(), zerolog.New(&buf))

	v := NewPageView("test")
	RenderWeather(ctx, v, weather.Current{Temperature: 12, WeatherCode: 42, WindDirection: 180})

	is.True(strings.Contains(buf.String(), `"weathercode":42`))
	is.Equal(v.WindDirection.HTML(), "S (180°)")

	buf.Reset()
	RenderWeather(ctx, v, weather.Current{Temperature: 12, WeatherCode: 3, WindDirection: 180})
	is.Equal(buf.Len(), 0)
}

func TestSnapshotIsKeyedBySlotID(t *testing.T) {
	is := is.New(t)

	v := NewView("test", SlotWindSpeed, SlotHelloResult)
	v.WindSpeed.SetText("12 km/h")

	snap := v.Snapshot()
	is.Equal(len(snap), 2)
	is.Equal(snap[SlotWindSpeed].HTML, "12 km/h")
	_, ok := snap[SlotHelloResult]
	is.True(ok)
}
