package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPClientConfig bundles the HTTP client used for provider calls.
type HTTPClientConfig struct {
	Client    *http.Client
	UserAgent string
}

var (
	// ErrUnexpectedStatus is returned for any non-2xx provider response.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	errNoHTTPClient = errors.New("http client not configured")
)

// NewHTTPClient returns a client whose transport is instrumented with
// OpenTelemetry. No client timeout is set; callers bound requests through
// their context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// doRequest executes exactly one attempt of the request. Non-2xx responses
// are closed and reported as ErrUnexpectedStatus.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return resp, nil
}
