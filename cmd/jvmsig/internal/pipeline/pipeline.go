// Package pipeline runs loaded declarations through the processing harness
// and collects the described members.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/jvmsig/adapter"
	"github.com/broady/jvmsig/decl"
	"github.com/broady/jvmsig/harness"
	"github.com/broady/jvmsig/index"
	"github.com/broady/jvmsig/provider"
	"github.com/broady/jvmsig/sink"
)

// ErrUndescribed is returned in strict mode when some member failed to
// resolve.
var ErrUndescribed = errors.New("some members could not be described")

// Options configures Run.
type Options struct {
	// Markers selects the marked elements to describe. Empty means every
	// marker present in the declarations.
	Markers []string

	// Processor holds -A style processor options. Recognised keys:
	// strict (bool) and objectType (binary name for unbounded erasure).
	Processor map[string]string

	// Index, when set, is consulted for every described member.
	Index *index.Index

	Logger *slog.Logger
}

type processorOptions struct {
	Strict     bool   `schema:"strict"`
	ObjectType string `schema:"objectType"`
}

// Result is the outcome of Run.
type Result struct {
	Report     *sink.Report
	Matches    []index.Match
	Transcript *harness.Transcript
}

// Run describes every marked member of d in a single processing round.
func Run(ctx context.Context, d *provider.Declarations, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	env := harness.NewEnvironment(opts.Processor)
	env.Symbols = d.Symbols
	env.Logger = logger
	var po processorOptions
	if err := env.DecodeOptions(&po); err != nil {
		return nil, err
	}
	adapterOpts := []adapter.Option{adapter.WithLogger(logger)}
	if po.ObjectType != "" {
		adapterOpts = append(adapterOpts, adapter.WithObjectType(po.ObjectType))
	}
	env.Adapter = adapter.New(adapterOpts...)

	markers := opts.Markers
	if len(markers) == 0 {
		markers = d.Markers()
	}

	res := &Result{Report: &sink.Report{}}
	var correlator *index.Correlator
	if opts.Index != nil {
		correlator = index.NewCorrelator(env.Adapter, opts.Index, 0, logger)
	}

	describe := func(inv harness.Invocation) bool {
		for _, el := range inv.Round.Elements {
			if !markedWithAny(el, inv.Round.Markers) {
				continue
			}
			switch e := el.(type) {
			case *decl.ExecutableElement:
				res.add(inv.Env.Adapter, correlator, e)
			case *decl.VariableElement:
				res.addField(inv.Env.Adapter, correlator, e)
			}
		}
		return true
	}

	p, err := harness.NewBuilder().
		ForMarkers(markers...).
		NextRound(harness.LoggingHandler(logger, describe)).
		Build()
	if err != nil {
		return nil, err
	}

	driver := &harness.Driver{Processor: p, Env: env}
	tr, err := driver.Run(ctx, []harness.RoundInput{{Elements: d.Elements()}})
	if err != nil {
		return nil, err
	}
	res.Transcript = tr
	res.Report.Sort()

	if failed := res.Report.Failed(); len(failed) > 0 {
		for _, f := range failed {
			logger.Warn("member not described",
				slog.String("element", f.Element),
				slog.Any("error", f.Err),
			)
		}
		if po.Strict {
			return res, fmt.Errorf("%d of %d: %w", len(failed), len(res.Report.Entries), ErrUndescribed)
		}
	}
	return res, nil
}

func markedWithAny(el decl.Element, markers []string) bool {
	for _, m := range markers {
		if decl.Marked(el, m) {
			return true
		}
	}
	return false
}

func (r *Result) add(a *adapter.Adapter, c *index.Correlator, e *decl.ExecutableElement) {
	entry := sink.Entry{
		Kind:    string(index.KindFunction),
		Element: e.String(),
	}
	if e.Enclosing != nil {
		entry.Class = a.BinaryName(e.Enclosing)
	}
	if e.Kind == decl.ExecConstructor {
		entry.Kind = string(index.KindConstructor)
	}
	if c != nil {
		m, err := c.Correlate(e)
		entry.Signature, entry.Err = m.Signature, err
		if err == nil {
			r.Matches = append(r.Matches, m)
		}
	} else {
		entry.Signature, entry.Err = a.Signature(e)
	}
	r.Report.Add(entry)
}

func (r *Result) addField(a *adapter.Adapter, c *index.Correlator, v *decl.VariableElement) {
	entry := sink.Entry{
		Kind:    string(index.KindProperty),
		Element: v.Name,
	}
	if v.Enclosing != nil {
		entry.Class = a.BinaryName(v.Enclosing)
		entry.Element = v.Enclosing.QualifiedName() + "." + v.Name
	}
	if c != nil {
		m, err := c.CorrelateField(v)
		entry.Signature, entry.Err = m.Signature, err
		if err == nil {
			r.Matches = append(r.Matches, m)
		}
	} else {
		entry.Signature, entry.Err = a.FieldSignature(v)
	}
	r.Report.Add(entry)
}
