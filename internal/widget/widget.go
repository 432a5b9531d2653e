package widget

import (
	"context"
	"errors"
	"strconv"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
	"github.com/i474232898/weather-widget/internal/weather"
)

// Widget wires the capabilities the weather panel depends on.
type Widget struct {
	// Locator is nil when the client cannot provide a position.
	Locator  geo.Locator
	Geocoder geocode.Reverser
	Weather  weather.Source
	Hello    *HelloCaller
	Options  geo.Options
}

// Load runs the page-load flow once: acquire a position, label it, then
// fetch and render the current weather. Every failure ends in ShowError.
func (w *Widget) Load(ctx context.Context, v *View) {
	if v.Temperature == nil {
		return
	}

	if w.Locator == nil {
		ShowError(v, MsgGeolocationUnsupported)
		return
	}

	ShowLoading(v)

	pos, err := geo.CurrentPosition(ctx, w.Locator, w.Options)
	if err != nil {
		w.handlePositionError(ctx, v, err)
		return
	}

	w.handlePosition(ctx, v, pos)
}

func (w *Widget) handlePosition(ctx context.Context, v *View, pos geo.Position) {
	log := logging.GetFromContext(ctx)
	coords := pos.Coords

	v.LatInput.SetValue(strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	v.LonInput.SetValue(strconv.FormatFloat(coords.Longitude, 'f', -1, 64))

	ResolveLocation(ctx, v, w.Geocoder, coords)

	if w.Weather == nil {
		log.Error().Msg("no weather source configured")
		ShowError(v, MsgWeatherFailed)
		return
	}

	cw, err := w.Weather.CurrentWeather(ctx, coords)
	if err != nil {
		if errors.Is(err, weather.ErrMissingPayload) {
			log.Error().Err(err).Str("provider", w.Weather.Name()).Msg("weather response without current conditions")
			ShowError(v, MsgWeatherMissing)
			return
		}
		log.Error().Err(err).Str("provider", w.Weather.Name()).Msg("weather fetch error")
		ShowError(v, MsgWeatherFailed)
		return
	}

	RenderWeather(ctx, v, cw)
}

func (w *Widget) handlePositionError(ctx context.Context, v *View, err error) {
	logger := logging.GetFromContext(ctx)
	logger.Error().Err(err).Msg("geolocation error")

	if geo.IsPermissionDenied(err) {
		ShowError(v, MsgLocationDenied)
		return
	}
	ShowError(v, MsgLocationFailed)
}

// Bind registers the widget's activation handlers on the view.
func (w *Widget) Bind(v *View) {
	if w.Hello == nil || v.HelloTrigger == nil {
		return
	}

	result := v.HelloResult
	v.HelloTrigger.OnActivate(func(ctx context.Context, ev *Event) {
		ev.PreventDefault()
		w.Hello.Call(ctx, result)
	})
}
