package gmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maps-scraper/utils"
)

// ErrInvalidTarget is returned by Collect for a non-positive target count.
var ErrInvalidTarget = errors.New("gmaps: target count must be positive")

// ScrollState is the state of the incremental collection loop.
type ScrollState int

const (
	StateGrowing ScrollState = iota
	StateSatisfied
	StateExhausted
	// StateCapped ends a loop that hit its iteration ceiling or wall-clock
	// timeout before reaching either designed terminal state.
	StateCapped
)

func (s ScrollState) String() string {
	switch s {
	case StateGrowing:
		return "growing"
	case StateSatisfied:
		return "satisfied"
	case StateExhausted:
		return "exhausted"
	case StateCapped:
		return "capped"
	default:
		return fmt.Sprintf("ScrollState(%d)", int(s))
	}
}

// ScrollResult is what a finished collection loop produced.
type ScrollResult struct {
	Handles    []Handle
	State      ScrollState
	Iterations int
	// Available is the element count observed on the last iteration.
	Available int
	// Reason explains a StateCapped termination.
	Reason string
}

// Caps applied when CollectorOptions leave them unset.
const (
	DefaultMaxIterations = 200
	DefaultScrollTimeout = 10 * time.Minute
)

// CollectorOptions tune the collection loop.
type CollectorOptions struct {
	Selector      string
	ScrollDelta   int
	Settle        time.Duration
	MaxIterations int
	Timeout       time.Duration
}

// ScrollCollector grows an infinite-scroll list until it holds enough
// listings or stops growing.
type ScrollCollector struct {
	page   Page
	opts   CollectorOptions
	logger *utils.Logger
	now    func() time.Time
}

// NewScrollCollector creates a collector over page.
func NewScrollCollector(page Page, opts CollectorOptions, logger *utils.Logger) *ScrollCollector {
	if opts.ScrollDelta == 0 {
		opts.ScrollDelta = 20000
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultScrollTimeout
	}
	return &ScrollCollector{page: page, opts: opts, logger: logger, now: time.Now}
}

// scrollState is the loop state carried between iterations.
type scrollState struct {
	previous   int
	iterations int
	started    time.Time
}

// advance folds one observed count into the state and returns the resulting
// state of the machine.
func (s *scrollState) advance(count, target int) ScrollState {
	switch {
	case count >= target:
		return StateSatisfied
	case count == s.previous:
		return StateExhausted
	default:
		s.previous = count
		return StateGrowing
	}
}

// capReason reports why the loop must stop before its next iteration, or ""
// when it may continue.
func (c *ScrollCollector) capReason(s *scrollState) string {
	if s.iterations >= c.opts.MaxIterations {
		return fmt.Sprintf("iteration ceiling of %d reached", c.opts.MaxIterations)
	}
	if c.now().Sub(s.started) >= c.opts.Timeout {
		return fmt.Sprintf("timeout of %v reached", c.opts.Timeout)
	}
	return ""
}

// Collect returns min(target, available) listing handles in feed order.
func (c *ScrollCollector) Collect(ctx context.Context, target int) (*ScrollResult, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}

	st := &scrollState{started: c.now()}
	for {
		if reason := c.capReason(st); reason != "" {
			c.logger.Warn("[gmaps] Scroll loop stopped: %s (%d listings loaded)", reason, st.previous)
			return c.finish(ctx, st, StateCapped, st.previous, target, reason)
		}
		st.iterations++

		if err := c.page.ScrollBy(ctx, 0, c.opts.ScrollDelta); err != nil {
			return nil, fmt.Errorf("scroll iteration %d: %w", st.iterations, err)
		}
		if err := c.page.Wait(ctx, c.opts.Settle); err != nil {
			return nil, fmt.Errorf("scroll settle: %w", err)
		}
		count, err := c.page.Count(ctx, c.opts.Selector)
		if err != nil {
			return nil, fmt.Errorf("count listings: %w", err)
		}

		switch state := st.advance(count, target); state {
		case StateSatisfied, StateExhausted:
			return c.finish(ctx, st, state, count, target, "")
		default:
			c.logger.Info("[gmaps] 📜 Currently scraped ⟹ %d", count)
		}
	}
}

func (c *ScrollCollector) finish(ctx context.Context, st *scrollState, state ScrollState, count, target int, reason string) (*ScrollResult, error) {
	handles, err := c.page.Handles(ctx, c.opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("resolve listing handles: %w", err)
	}
	if len(handles) > target {
		handles = handles[:target]
	}
	return &ScrollResult{
		Handles:    handles,
		State:      state,
		Iterations: st.iterations,
		Available:  count,
		Reason:     reason,
	}, nil
}
