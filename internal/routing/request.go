package routing

import (
	"log/slog"

	"pathfinder.onebusaway.org/internal/clock"
	"pathfinder.onebusaway.org/internal/metrics"
)

// Context carries per-search collaborators shared by every state of a
// search: the active path-acceptance filters, a structured event sink for
// optimizer diagnostics, and optional metrics.
type Context struct {
	PathParsers []PathParser
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

func (c *Context) logger() *slog.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return slog.Default().With(slog.String("component", "routing"))
}

// Request is the read-only bag of routing options active for one search.
type Request struct {
	// StartTime is the requested departure (or arrival, for an arrive-by
	// search) in seconds since the Unix epoch.
	StartTime int64
	Modes     TraverseModeSet
	// WheelchairAccessible restricts boarding and alighting to accessible
	// runs.
	WheelchairAccessible bool
	// Arriving flips the time direction of traversals: an arrive-by search
	// moves backward in time from the destination.
	Arriving bool
	// ClampInitialWait caps the initial wait subtracted by ActiveTime;
	// non-positive means no clamping.
	ClampInitialWait int64
	MaxWeight        float64
	MaxHops          int
	// ReverseOptimizing is set on requests cloned for a reverse-optimize
	// pass.
	ReverseOptimizing bool

	Ctx *Context
}

// NewRequest creates a request departing now according to the given clock,
// with walking and transit enabled.
func NewRequest(clk clock.Clock) *Request {
	return &Request{
		StartTime: clk.NowUnix(),
		Modes:     TraverseModeSet{Walk: true, Transit: true},
		Ctx:       &Context{},
	}
}

// ReversedClone returns a copy of the request with the time direction
// flipped, used when constructing a reversed initial state. The context is
// shared: the pass operates on the same filters and sinks as the search it
// belongs to.
func (r *Request) ReversedClone() *Request {
	clone := *r
	clone.Arriving = !r.Arriving
	clone.ReverseOptimizing = true
	return &clone
}
