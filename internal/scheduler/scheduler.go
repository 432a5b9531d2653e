package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// ProbeStatus is the outcome of the most recent probe.
type ProbeStatus struct {
	Target     string    `json:"target"`
	Reachable  bool      `json:"reachable"`
	StatusCode int       `json:"statusCode,omitempty"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checkedAt"`
}

// HelloProbe periodically checks that the upstream hello service answers.
// It only observes; nothing it records is served to the widget.
type HelloProbe struct {
	scheduler *gocron.Scheduler
	client    *http.Client
	target    string
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger

	mu   sync.RWMutex
	last *ProbeStatus
}

// NewHelloProbe creates a probe of target. An interval <= 0 disables it.
func NewHelloProbe(client *http.Client, target string, interval, timeout time.Duration, logger zerolog.Logger) *HelloProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &HelloProbe{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		target:    target,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the probe, runs it immediately, and starts the scheduler.
func (p *HelloProbe) Start() error {
	if p.interval <= 0 || p.target == "" {
		p.logger.Info().Msg("scheduler: hello probe disabled")
		return nil
	}

	seconds := int(p.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := p.scheduler.Every(seconds).Seconds().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.Probe(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule hello probe: %w", err)
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (p *HelloProbe) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Probe performs one check and records its outcome.
func (p *HelloProbe) Probe(ctx context.Context) ProbeStatus {
	status := ProbeStatus{Target: p.target, CheckedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err == nil {
		var resp *http.Response
		resp, err = p.client.Do(req)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			status.StatusCode = resp.StatusCode
			status.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 300
		}
	}

	if err != nil {
		status.Error = err.Error()
		p.logger.Warn().Err(err).Str("target", p.target).Msg("scheduler: hello probe failed")
	} else if !status.Reachable {
		p.logger.Warn().Int("status", status.StatusCode).Str("target", p.target).Msg("scheduler: hello probe got unexpected status")
	}

	p.mu.Lock()
	p.last = &status
	p.mu.Unlock()

	return status
}

// Last returns the most recent probe outcome, if any probe has run.
func (p *HelloProbe) Last() (ProbeStatus, bool) {
	if p == nil {
		return ProbeStatus{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return ProbeStatus{}, false
	}
	return *p.last, true
}
