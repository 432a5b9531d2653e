package geo

import (
	"context"
	"time"
)

// Static always reports the same coordinates, e.g. a configured default.
type Static struct {
	Coords Coordinates
}

func (s Static) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{Coords: s.Coords, Timestamp: time.Now().UTC()}, nil
}

// Reported replays the outcome the browser reported with the request: either
// a position or a failure code.
type Reported struct {
	Coords     Coordinates
	ReportedAt time.Time
	Failure    ErrorCode
	Detail     string
}

// NewReportedPosition returns a Reported locator that succeeds.
func NewReportedPosition(coords Coordinates) *Reported {
	return &Reported{Coords: coords, ReportedAt: time.Now().UTC()}
}

// NewReportedFailure returns a Reported locator that fails with code.
func NewReportedFailure(code ErrorCode, detail string) *Reported {
	return &Reported{Failure: code, Detail: detail}
}

func (r *Reported) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	if r.Failure != 0 {
		return Position{}, &PositionError{Code: r.Failure, Message: r.Detail}
	}
	return Position{Coords: r.Coords, Timestamp: r.ReportedAt}, nil
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context, opts Options) (Position, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}
