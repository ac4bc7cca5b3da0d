package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PassResult records one pass run by a Driver.
type PassResult struct {
	Pass     int
	Markers  []string
	Elements int
	Final    bool
	Claimed  bool
	Duration time.Duration
}

// Transcript is the ordered record of a Driver run.
type Transcript struct {
	Passes []PassResult
}

// Claimed reports whether every recorded pass was claimed.
func (t *Transcript) Claimed() bool {
	for _, p := range t.Passes {
		if !p.Claimed {
			return false
		}
	}
	return true
}

// Driver feeds rounds to a Processor one at a time.
type Driver struct {
	Processor *Processor
	Env       *Environment

	// SkipFinal disables the trailing empty round.
	SkipFinal bool
}

// Run runs one pass per input, then a final pass with no elements unless
// SkipFinal is set. Passes are strictly sequential; ctx is checked before
// each one. On cancellation Run returns the passes completed so far along
// with the context error.
func (d *Driver) Run(ctx context.Context, inputs []RoundInput) (*Transcript, error) {
	if d.Processor == nil {
		return nil, fmt.Errorf("harness: driver has no processor")
	}
	logger := d.Env.Log()

	rounds := inputs
	if !d.SkipFinal {
		rounds = append(rounds[:len(rounds):len(rounds)], RoundInput{})
	}

	tr := &Transcript{}
	supported := d.Processor.SupportedMarkers()
	for i, in := range rounds {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "processing cancelled",
				slog.Int("pass", d.Processor.Passes()),
				slog.Any("error", err),
			)
			return tr, err
		}

		r := Round{
			Pass:     d.Processor.Passes(),
			Markers:  presentMarkers(supported, in.Elements),
			Elements: in.Elements,
			Final:    !d.SkipFinal && i == len(rounds)-1,
			Env:      d.Env,
		}

		start := time.Now()
		claimed := d.Processor.Process(r)
		tr.Passes = append(tr.Passes, PassResult{
			Pass:     r.Pass,
			Markers:  r.Markers,
			Elements: len(r.Elements),
			Final:    r.Final,
			Claimed:  claimed,
			Duration: time.Since(start),
		})
	}
	return tr, nil
}
