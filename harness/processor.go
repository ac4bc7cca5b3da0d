// Package harness runs per-pass handlers over rounds of declarations, the
// way an annotation processor is driven by a compiler: pass N invokes the
// N-th registered handler, and once handlers run out every further pass is
// a no-op that reports the round as claimed.
package harness

import (
	"errors"
	"slices"
)

var (
	// ErrNoMarkers is returned by Build when no marker was registered.
	ErrNoMarkers = errors.New("harness: at least one marker is required")

	// ErrNoHandlers is returned by Build when no handler was registered.
	ErrNoHandlers = errors.New("harness: at least one handler is required")
)

// Handler processes one pass. Its result is returned from Process and
// reports whether the round's markers were claimed.
type Handler func(Invocation) bool

// Invocation is the context a Handler receives.
type Invocation struct {
	Round Round
	Env   *Environment

	// Processor is the processor running the pass.
	Processor *Processor
}

// Builder assembles a Processor.
// Build validates the configuration; the builder itself never fails.
type Builder struct {
	handlers []Handler
	markers  []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NextRound appends the handler for the next pass.
func (b *Builder) NextRound(h Handler) *Builder {
	b.handlers = append(b.handlers, h)
	return b
}

// ForMarkers adds supported marker names. Duplicates are dropped.
func (b *Builder) ForMarkers(names ...string) *Builder {
	for _, n := range names {
		if !slices.Contains(b.markers, n) {
			b.markers = append(b.markers, n)
		}
	}
	return b
}

// Build returns the configured Processor.
func (b *Builder) Build() (*Processor, error) {
	if len(b.markers) == 0 {
		return nil, ErrNoMarkers
	}
	if len(b.handlers) == 0 {
		return nil, ErrNoHandlers
	}
	return &Processor{
		handlers: slices.Clone(b.handlers),
		markers:  slices.Clone(b.markers),
	}, nil
}

// Processor dispatches passes to handlers in registration order.
// Its only mutable state is the pass counter; it is not safe for concurrent
// use, matching the strictly sequential rounds of a compiler.
type Processor struct {
	handlers []Handler
	markers  []string
	pass     int
}

// SupportedMarkers returns the marker names the processor handles.
func (p *Processor) SupportedMarkers() []string {
	return slices.Clone(p.markers)
}

// Passes reports how many passes Process has run.
func (p *Processor) Passes() int { return p.pass }

// Step returns the handler for pass, or false when handlers are exhausted.
func (p *Processor) Step(pass int) (Handler, bool) {
	if pass < 0 || pass >= len(p.handlers) {
		return nil, false
	}
	return p.handlers[pass], true
}

// Process runs the next pass over r and reports whether the round was
// claimed. Once every handler has run, Process returns true without doing
// anything.
func (p *Processor) Process(r Round) bool {
	h, ok := p.Step(p.pass)
	p.pass++
	if !ok {
		return true
	}
	return h(Invocation{Round: r, Env: r.Env, Processor: p})
}
