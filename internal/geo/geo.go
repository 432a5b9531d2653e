package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.2f°, %.2f°", c.Latitude, c.Longitude)
}

// Position is the result of a successful location request.
type Position struct {
	Coords    Coordinates
	Timestamp time.Time
}

// ErrorCode mirrors the failure reasons of a platform location API.
type ErrorCode int

const (
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown (%d)", int(c))
	}
}

// PositionError is returned by a Locator when no position could be obtained.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return "geolocation: " + e.Code.String()
	}
	return fmt.Sprintf("geolocation: %s: %s", e.Code, e.Message)
}

// IsPermissionDenied reports whether err is a PositionError caused by the
// user refusing access.
func IsPermissionDenied(err error) bool {
	var pe *PositionError
	return errors.As(err, &pe) && pe.Code == PermissionDenied
}

// Options controls a one-shot position request.
type Options struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DefaultOptions are the options the widget requests its position with.
var DefaultOptions = Options{
	EnableHighAccuracy: false,
	Timeout:            8 * time.Second,
	MaximumAge:         60 * time.Second,
}

// Locator produces the current position once per call.
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// CurrentPosition asks the locator for a position and bounds the request by
// opts.Timeout. A request that outlives the timeout fails with a Timeout
// PositionError.
func CurrentPosition(ctx context.Context, l Locator, opts Options) (Position, error) {
	if opts.Timeout <= 0 {
		return l.CurrentPosition(ctx, opts)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := l.CurrentPosition(ctx, opts)
		done <- result{pos, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return Position{}, &PositionError{Code: Timeout, Message: r.err.Error()}
		}
		return r.pos, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, &PositionError{Code: Timeout, Message: fmt.Sprintf("no position within %s", opts.Timeout)}
		}
		return Position{}, ctx.Err()
	}
}
