package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
)

// Messages returned to the user in place of a suggestion.
const (
	MsgNotConfigured = "Suggestions are not configured."
	MsgUnreachable   = "I couldn't reach our ideas service just now. Try again in a moment."
	MsgRateLimited   = "We're experiencing a rush of requests right now. Please try again shortly."
	MsgRetryAfter    = "We're a bit busy. Give it about %s seconds and try again."
	MsgUnexpected    = "We received an unexpected response. Please try again soon."
	MsgFailed        = "Something went wrong fetching a suggestion. Please try again soon."
	MsgEmpty         = "No suggestion available."
)

// Request carries what the page knows about the user and their surroundings.
// The weather fields are the values the widget mirrored into the form.
type Request struct {
	Name        string
	Interests   string
	Drives      string
	Latitude    string `validate:"required,latitude"`
	Longitude   string `validate:"required,longitude"`
	Temperature string `validate:"required"`
	WeatherText string
}

// Client asks an OpenAI-compatible chat completion API for a short activity
// suggestion.
type Client struct {
	api   *openai.Client
	model string
}

// New returns nil when apiKey is empty; a nil *Client answers every request
// with MsgNotConfigured.
func New(apiKey, baseURL, model string, httpClient *http.Client) *Client {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = withResponseRecorder(httpClient)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Suggest always returns text fit for display. Failures are logged and
// mapped to one of the fixed messages.
func (c *Client) Suggest(ctx context.Context, req Request) string {
	if c == nil {
		return MsgNotConfigured
	}
	log := logging.GetFromContext(ctx)

	ctx, meta := withResponseMeta(ctx)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(req)},
		},
	})
	if err != nil {
		return failureMessage(ctx, err, meta)
	}

	if len(resp.Choices) == 0 {
		log.Error().Str("model", c.model).Msg("suggestion response without choices")
		return MsgEmpty
	}

	if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
		return text
	}
	return MsgEmpty
}

func failureMessage(ctx context.Context, err error, meta *responseMeta) string {
	log := logging.GetFromContext(ctx)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusMessage(ctx, apiErr.HTTPStatusCode, apiErr.Message, meta)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusMessage(ctx, reqErr.HTTPStatusCode, "", meta)
	}

	if status, _ := meta.get(); status >= 200 && status < 300 {
		log.Error().Err(err).Msg("unexpected response from suggestion service")
		return MsgUnexpected
	}

	log.Warn().Err(err).Msg("suggestion service unreachable")
	return MsgUnreachable
}

func statusMessage(ctx context.Context, status int, apiMessage string, meta *responseMeta) string {
	log := logging.GetFromContext(ctx)

	if status == http.StatusTooManyRequests {
		log.Info().Msg("suggestion service rate limited the request")
		if _, retryAfter := meta.get(); retryAfter != "" {
			return fmt.Sprintf(MsgRetryAfter, retryAfter)
		}
		return MsgRateLimited
	}

	log.Warn().Int("status", status).Msg("suggestion service returned error")
	if apiMessage != "" {
		return apiMessage
	}
	return MsgFailed
}

// Prompt builds the instruction sent to the model.
func Prompt(req Request) string {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Explorer"
	}
	interests := req.Interests
	if strings.TrimSpace(interests) == "" {
		interests = "no specific interest"
	}
	drives := req.Drives
	if strings.TrimSpace(drives) == "" {
		drives = "unspecified"
	}
	weatherText := req.WeatherText
	if strings.TrimSpace(weatherText) == "" {
		weatherText = "unknown"
	}

	return fmt.Sprintf(`
    User: %s
    Interests: %s
    Drives: %s
    Latitude: %s
    Longitude: %s
    Weather: %s°C, %s
    Calculate the rough city name from given latitude longitude.
    Important: Keep your answer very brief. For example, "Visit the local museum" or "Go for a walk in the park (park name)".
    You can also suggest activities outside user interest, take various factors into account like weather, time of day, events happening in city.
    Suggest activities this user can do right now.
    `, name, interests, drives, req.Latitude, req.Longitude, req.Temperature, weatherText)
}
