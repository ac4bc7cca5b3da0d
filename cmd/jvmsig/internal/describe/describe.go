// Package describe implements the describe and go commands.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/jvmsig/cmd/jvmsig/internal/pipeline"
	"github.com/broady/jvmsig/provider"
)

// ManifestCmd describes the marked members of YAML declaration manifests.
type ManifestCmd struct {
	Files []string `arg:"" help:"Declaration manifests." type:"existingfile"`

	Output pipeline.Flags `embed:""`
}

func (c *ManifestCmd) Run(ctx context.Context, logger *slog.Logger) error {
	d, err := LoadManifests(c.Files)
	if err != nil {
		return err
	}
	return describe(ctx, logger, d, &c.Output)
}

// LoadManifests loads and merges manifests.
func LoadManifests(files []string) (*provider.Declarations, error) {
	var all *provider.Declarations
	for _, f := range files {
		d, err := provider.LoadManifestFile(f)
		if err != nil {
			return nil, err
		}
		if all == nil {
			all = d
			continue
		}
		if err := all.Merge(d); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
	}
	if all == nil {
		return nil, fmt.Errorf("no manifests given")
	}
	return all, nil
}

// GoCmd describes Go functions marked with //jvm: directives.
type GoCmd struct {
	Patterns    []string `arg:"" optional:"" help:"Go package patterns (default: current directory)."`
	Dir         string   `help:"Working directory for the go command." type:"path"`
	JavaPackage string   `help:"Java package prefix for the generated classes." env:"JVMSIG_JAVA_PACKAGE"`

	Output pipeline.Flags `embed:""`
}

func (c *GoCmd) Run(ctx context.Context, logger *slog.Logger) error {
	patterns := c.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	p := &provider.SourceProvider{Logger: logger}
	d, err := p.Load(ctx, provider.SourceOptions{
		Patterns:    patterns,
		Dir:         c.Dir,
		JavaPackage: c.JavaPackage,
	})
	if err != nil {
		return err
	}
	return describe(ctx, logger, d, &c.Output)
}

func describe(ctx context.Context, logger *slog.Logger, d *provider.Declarations, flags *pipeline.Flags) error {
	opts := flags.Options()
	opts.Logger = logger
	res, err := pipeline.Run(ctx, d, opts)
	if res != nil {
		for _, f := range res.Report.Failed() {
			fmt.Fprintf(os.Stderr, "%s: %v\n", f.Element, f.Err)
		}
	}
	if err != nil {
		return err
	}
	return flags.Emit(ctx, os.Stdout, flags.Sink(), res.Report)
}
