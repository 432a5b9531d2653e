package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/sony/gobreaker"
)

const helloUnreachable = "(failed to contact hello service)"

// HelloProxy fetches the greeting of the cluster-local hello service.
type HelloProxy struct {
	client  *http.Client
	target  string
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker
}

func NewHelloProxy(client *http.Client, target string, timeout time.Duration) *HelloProxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &HelloProxy{
		client:  client,
		target:  target,
		timeout: timeout,
		circuit: newHelloCircuitBreaker(),
	}
}

// newHelloCircuitBreaker trips after five consecutive transport failures.
// Requests abandoned by the caller do not count against the service.
func newHelloCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hello-service",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Fetch returns the trimmed response body of the hello service, whatever its
// status, or a fixed message when the service cannot be reached or its
// circuit breaker is open.
func (p *HelloProxy) Fetch(ctx context.Context) string {
	log := logging.GetFromContext(ctx)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		log.Warn().Err(err).Str("state", p.circuit.State().String()).Msg("hello service unreachable")
		return helloUnreachable
	}

	body, ok := result.(string)
	if !ok {
		return helloUnreachable
	}
	return body
}

func (p *HelloProxy) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
