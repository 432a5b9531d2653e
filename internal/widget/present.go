package widget

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/i474232898/weather-widget/internal/weather"
)

// User-visible messages.
const (
	MsgGeolocationUnsupported = "Geolocation is not supported by your browser"
	MsgLocationDenied         = "Location access denied. Enable location to personalize suggestions."
	MsgLocationFailed         = "Unable to determine location."
	MsgWeatherMissing         = "Weather data missing"
	MsgWeatherFailed          = "Unable to fetch weather data"

	LocationUnavailable = "Location unavailable"
)

const loadingMarkup = `<span class="loading">Fetching weather</span>`

// ShowLoading puts the loading placeholder into the temperature slot.
func ShowLoading(v *View) {
	v.Temperature.SetHTML(loadingMarkup)
}

// ShowError replaces the weather panel with a warning and resets the
// location and wind slots. Calling it again overwrites the previous message.
func ShowError(v *View, message string) {
	v.Temperature.SetHTML(fmt.Sprintf(`<span class="error">⚠️ %s</span>`, html.EscapeString(message)))
	v.LocationLabel.SetText(LocationUnavailable)
	v.WindSpeed.SetText(Placeholder)
	v.WindDirection.SetText(Placeholder)
	v.LastUpdated.SetText(Placeholder)
}

// RenderWeather paints current conditions into the view and mirrors the
// rounded temperature and the description into the hidden form inputs.
func RenderWeather(ctx context.Context, v *View, cw weather.Current) {
	if v.Temperature == nil {
		return
	}

	temperature := int(roundHalfUp(cw.Temperature))
	windSpeed := int(roundHalfUp(cw.WindSpeed))
	description := cw.WeatherCode.Description()
	if !cw.WeatherCode.Known() {
		logger := logging.GetFromContext(ctx)
		logger.Warn().Int("weathercode", int(cw.WeatherCode)).Msg("unmapped weather code")
	}

	v.Temperature.SetHTML(fmt.Sprintf(`
        <div class="weather-info fade-in">
            <div class="temp-large">%d°C</div>
            <div class="weather-desc">%s</div>
        </div>
    `, temperature, html.EscapeString(description)))

	v.WindSpeed.SetText(fmt.Sprintf("%d km/h", windSpeed))
	if cw.HasWindDirection() {
		v.WindDirection.SetText(FormatBearing(cw.WindDirection))
	} else {
		v.WindDirection.SetText(Placeholder)
	}
	v.LastUpdated.SetText(FormatUpdatedTime(ctx, cw.Time))

	v.TemperatureInput.SetValue(strconv.Itoa(temperature))
	v.WeatherTextInput.SetValue(description)
}
