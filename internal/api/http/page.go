package httpapi

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/widget"
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

type pageData struct {
	BasePath string
	ViewID   string
	Slots    map[string]template.HTML
	Values   map[string]string
}

func newPageData(basePath string, view *widget.View) pageData {
	data := pageData{
		BasePath: basePath,
		ViewID:   view.ID,
		Slots:    make(map[string]template.HTML),
		Values:   make(map[string]string),
	}
	for id, state := range view.Snapshot() {
		// Slot content is produced by the widget, which escapes all text.
		data.Slots[id] = template.HTML(state.HTML)
		data.Values[id] = state.Value
	}
	return data
}

// page renders the full widget. Submitting the hello form reloads the page
// with action=call-hello, which activates the hello control after loading.
func (h *handlers) page(c *fiber.Ctx) error {
	locator, err := h.locatorFor(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	view := widget.NewPageView(requestID(c))
	w := h.widgetFor(locator)
	w.Bind(view)
	w.Load(ctx, view)

	if c.Query("action") == widget.SlotHelloTrigger {
		view.HelloTrigger.Activate(ctx)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(basePath(c), view)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
