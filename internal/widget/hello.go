package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const (
	// NoMessage is shown when the hello service answered without a message.
	NoMessage = "No message returned."
	// HelloFailed is shown when the hello service could not be called.
	HelloFailed = "(failed to call service)"

	helloLoadingMarkup = `<span class="hello-loading">Calling service...</span>`
	helloSource        = "Source: hello-service (cluster local)"
)

// HelloCaller calls the same-origin hello endpoint and renders its answer.
// Calls are independent; concurrent calls on the same slot race and the last
// one to finish wins.
type HelloCaller struct {
	client *http.Client
	url    string
}

func NewHelloCaller(client *http.Client, url string) *HelloCaller {
	if client == nil {
		client = http.DefaultClient
	}
	return &HelloCaller{client: client, url: url}
}

// Call performs one request and writes the outcome into out.
func (h *HelloCaller) Call(ctx context.Context, out *Slot) {
	out.SetHTML(helloLoadingMarkup)

	message, err := h.fetch(ctx)
	if err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Error().Err(err).Str("url", h.url).Msg("error fetching hello")
		out.SetText(HelloFailed)
		return
	}

	out.SetHTML(fmt.Sprintf(`
                    <div class="hello-card fade-in">
                        <strong>Service response</strong>
                        <div>%s</div>
                        <div class="hello-meta">%s</div>
                    </div>
                `, html.EscapeString(message), helloSource))
}

func (h *HelloCaller) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read hello response: %w", err)
	}

	return helloMessage(body), nil
}

// helloMessage reads the "hello" field of a JSON body, falling back to the
// raw body for anything that is not JSON. Only an empty body yields
// NoMessage.
func helloMessage(body []byte) string {
	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		if obj, ok := data.(map[string]any); ok {
			if msg, ok := obj["hello"].(string); ok && msg != "" {
				return msg
			}
		}
		return NoMessage
	}

	if len(body) != 0 {
		return string(body)
	}
	return NoMessage
}
