package widget

import (
	"context"
	"html"
	"sync"
)

// Stable identifiers of the page elements the widget writes to.
const (
	SlotTemperature      = "temperature"
	SlotLocationLabel    = "location-label"
	SlotWindSpeed        = "wind-speed"
	SlotWindDirection    = "wind-direction"
	SlotLastUpdated      = "last-updated"
	SlotLatInput         = "lat"
	SlotLonInput         = "lon"
	SlotTemperatureInput = "temperature_input"
	SlotWeatherTextInput = "weather_text_input"
	SlotHelloTrigger     = "call-hello"
	SlotHelloResult      = "hello-result"
)

// AllSlots lists every slot identifier in page order.
var AllSlots = []string{
	SlotTemperature,
	SlotLocationLabel,
	SlotWindSpeed,
	SlotWindDirection,
	SlotLastUpdated,
	SlotLatInput,
	SlotLonInput,
	SlotTemperatureInput,
	SlotWeatherTextInput,
	SlotHelloTrigger,
	SlotHelloResult,
}

// Handler reacts to the activation of a slot.
type Handler func(ctx context.Context, ev *Event)

// Event is passed to handlers when a slot is activated.
type Event struct {
	Target *Slot

	mu               sync.Mutex
	defaultPrevented bool
}

// PreventDefault suppresses the element's default activation behavior.
func (e *Event) PreventDefault() {
	e.mu.Lock()
	e.defaultPrevented = true
	e.mu.Unlock()
}

func (e *Event) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defaultPrevented
}

// Slot is a render target owned by the page. The widget only writes to it.
// All methods are no-ops on a nil *Slot, which stands for an element that is
// not on the page.
type Slot struct {
	id string

	mu       sync.Mutex
	html     string
	value    string
	handlers []Handler
}

// NewSlot creates an empty slot with the given identifier.
func NewSlot(id string) *Slot {
	return &Slot{id: id}
}

// ID returns the identifier the slot was created with.
func (s *Slot) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// SetHTML replaces the content with markup.
func (s *Slot) SetHTML(markup string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.html = markup
	s.mu.Unlock()
}

// SetText replaces the content with escaped text.
func (s *Slot) SetText(text string) {
	s.SetHTML(html.EscapeString(text))
}

// SetValue sets the value of an input element.
func (s *Slot) SetValue(v string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

func (s *Slot) HTML() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

func (s *Slot) Value() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// OnActivate registers h to run when the slot is activated.
func (s *Slot) OnActivate(h Handler) {
	if s == nil || h == nil {
		return
	}
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()
}

// Activate runs the registered handlers in order and reports whether any of
// them prevented the default behavior.
func (s *Slot) Activate(ctx context.Context) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.Unlock()

	ev := &Event{Target: s}
	for _, h := range handlers {
		h(ctx, ev)
	}
	return ev.DefaultPrevented()
}

// SlotState is the serializable content of a slot.
type SlotState struct {
	HTML  string `json:"html"`
	Value string `json:"value,omitempty"`
}

// View is the set of slots present on one page load. Absent slots are nil.
type View struct {
	ID string

	Temperature   *Slot
	LocationLabel *Slot
	WindSpeed     *Slot
	WindDirection *Slot
	LastUpdated   *Slot

	LatInput         *Slot
	LonInput         *Slot
	TemperatureInput *Slot
	WeatherTextInput *Slot

	HelloTrigger *Slot
	HelloResult  *Slot
}

// NewView builds a view with a slot for each of the given identifiers.
// Unknown identifiers are ignored.
func NewView(id string, slotIDs ...string) *View {
	v := &View{ID: id}
	for _, sid := range slotIDs {
		if p := v.field(sid); p != nil && *p == nil {
			*p = NewSlot(sid)
		}
	}
	return v
}

// NewPageView builds a view with every slot present.
func NewPageView(id string) *View {
	return NewView(id, AllSlots...)
}

// Slot returns the slot with the given identifier, or nil.
func (v *View) Slot(id string) *Slot {
	if p := v.field(id); p != nil {
		return *p
	}
	return nil
}

// Snapshot returns the state of every present slot keyed by identifier.
func (v *View) Snapshot() map[string]SlotState {
	out := make(map[string]SlotState)
	for _, id := range AllSlots {
		if s := v.Slot(id); s != nil {
			out[s.ID()] = SlotState{HTML: s.HTML(), Value: s.Value()}
		}
	}
	return out
}

func (v *View) field(id string) **Slot {
	switch id {
	case SlotTemperature:
		return &v.Temperature
	case SlotLocationLabel:
		return &v.LocationLabel
	case SlotWindSpeed:
		return &v.WindSpeed
	case SlotWindDirection:
		return &v.WindDirection
	case SlotLastUpdated:
		return &v.LastUpdated
	case SlotLatInput:
		return &v.LatInput
	case SlotLonInput:
		return &v.LonInput
	case SlotTemperatureInput:
		return &v.TemperatureInput
	case SlotWeatherTextInput:
		return &v.WeatherTextInput
	case SlotHelloTrigger:
		return &v.HelloTrigger
	case SlotHelloResult:
		return &v.HelloResult
	default:
		return nil
	}
}
