package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/geocode"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/suggest"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

var validate = validator.New()

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	ServiceName string
	Version     string

	Geocoder   geocode.Reverser
	Weather    weather.Source
	Hello      *widget.HelloCaller
	GeoOptions geo.Options

	// DefaultLocator is used for requests that carry no position. When nil
	// such requests take the "geolocation unsupported" path.
	DefaultLocator geo.Locator

	HelloProxy *HelloProxy
	Suggester  *suggest.Client
	Probe      *scheduler.HelloProbe

	ForceScriptName string
}

// NewApp builds the fiber application with middleware and routes.
func NewApp(deps Dependencies, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               deps.ServiceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: logger,
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(RequestLogger(logger))
	app.Use(ForwardedPrefix(deps.ForceScriptName))

	RegisterRoutes(app, deps)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	h := &handlers{deps: deps}

	app.Get("/health", h.health)
	app.Get("/", h.page)
	app.Get("/hello/", h.hello)
	app.Post("/suggest", h.suggest)

	v1 := app.Group("/api/v1")
	v1.Get("/widget", h.widgetState)
	v1.Post("/widget/hello", h.widgetHello)
}

type handlers struct {
	deps Dependencies
}

func (h *handlers) widgetFor(locator geo.Locator) *widget.Widget {
	return &widget.Widget{
		Locator:  locator,
		Geocoder: h.deps.Geocoder,
		Weather:  h.deps.Weather,
		Hello:    h.deps.Hello,
		Options:  h.deps.GeoOptions,
	}
}

func (h *handlers) health(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "ok",
		"service": h.deps.ServiceName,
		"version": h.deps.Version,
	}
	if status, ok := h.deps.Probe.Last(); ok {
		body["helloService"] = status
	}
	return c.JSON(body)
}

// widgetState runs a page load and returns the resulting slots.
func (h *handlers) widgetState(c *fiber.Ctx) error {
	locator, err := h.locatorFor(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view := widget.NewPageView(requestID(c))
	h.widgetFor(locator).Load(c.UserContext(), view)

	return c.JSON(fiber.Map{
		"id":    view.ID,
		"slots": view.Snapshot(),
	})
}

// widgetHello activates the hello control of a fresh view.
func (h *handlers) widgetHello(c *fiber.Ctx) error {
	view := widget.NewView(requestID(c), widget.SlotHelloTrigger, widget.SlotHelloResult)
	h.widgetFor(nil).Bind(view)

	prevented := view.HelloTrigger.Activate(c.UserContext())

	return c.JSON(fiber.Map{
		"id":               view.ID,
		"defaultPrevented": prevented,
		"slots":            view.Snapshot(),
	})
}

// hello proxies the cluster-local hello service.
func (h *handlers) hello(c *fiber.Ctx) error {
	if h.deps.HelloProxy == nil {
		return c.JSON(fiber.Map{"hello": helloUnreachable})
	}
	return c.JSON(fiber.Map{"hello": h.deps.HelloProxy.Fetch(c.UserContext())})
}

func (h *handlers) suggest(c *fiber.Ctx) error {
	req := suggest.Request{
		Name:        c.FormValue("name"),
		Interests:   c.FormValue("interests"),
		Drives:      c.FormValue("drives"),
		Latitude:    c.FormValue("lat"),
		Longitude:   c.FormValue("lon"),
		Temperature: c.FormValue("temperature"),
		WeatherText: c.FormValue("weather_text"),
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"response": h.deps.Suggester.Suggest(c.UserContext(), req),
	})
}

// locatorFor turns the position the browser reported into a locator.
// Query "geo_error" carries a failure code (1 permission denied,
// 2 unavailable, 3 timeout); "lat" and "lon" carry a position. With neither,
// the configured default locator is used, which may be nil.
func (h *handlers) locatorFor(c *fiber.Ctx) (geo.Locator, error) {
	if raw := c.Query("geo_error"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil || code < int(geo.PermissionDenied) || code > int(geo.Timeout) {
			return nil, errors.New("geo_error must be 1, 2 or 3")
		}
		return geo.NewReportedFailure(geo.ErrorCode(code), c.Query("geo_message")), nil
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return h.deps.DefaultLocator, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, errors.New("lat and lon query parameters must be given together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, errors.New("lon must be a number")
	}

	coords := geo.Coordinates{Latitude: lat, Longitude: lon}
	if err := validate.Struct(coords); err != nil {
		return nil, err
	}

	return geo.NewReportedPosition(coords), nil
}
