// Package lookup implements the lookup command.
package lookup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/broady/jvmsig/cmd/jvmsig/internal/describe"
	"github.com/broady/jvmsig/cmd/jvmsig/internal/pipeline"
	"github.com/broady/jvmsig/index"
)

// Cmd correlates the marked members of manifests with a metadata file.
type Cmd struct {
	Metadata string   `help:"Metadata YAML file." required:"" type:"existingfile"`
	Files    []string `arg:"" help:"Declaration manifests." type:"existingfile"`
	Marker   []string `help:"Marker names to look up (default: every marker found)." short:"m" env:"JVMSIG_MARKER" sep:","`
	Missing  bool     `help:"Fail when a member has no metadata."`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	ix, err := index.LoadFile(c.Metadata)
	if err != nil {
		return err
	}
	d, err := describe.LoadManifests(c.Files)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(ctx, d, pipeline.Options{
		Markers: c.Marker,
		Index:   ix,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	missing := Write(os.Stdout, res.Matches)
	if c.Missing && missing > 0 {
		return fmt.Errorf("%d members have no metadata", missing)
	}
	return nil
}

// Write prints one row per match and returns how many had no metadata.
func Write(w io.Writer, matches []index.Match) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tSIGNATURE\tMETADATA")
	missing := 0
	for _, m := range matches {
		meta := "-"
		if m.Found {
			meta = summary(m.Member)
		} else {
			missing++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Class, m.Signature, meta)
	}
	tw.Flush()
	return missing
}

func summary(m index.Member) string {
	parts := []string{string(m.Kind)}
	if m.Visibility != "" {
		parts = append(parts, string(m.Visibility))
	}
	if m.Inline {
		parts = append(parts, "inline")
	}
	if m.Suspend {
		parts = append(parts, "suspend")
	}
	if m.ReturnNullable {
		parts = append(parts, "nullable-return")
	}
	for i := range m.Defaults {
		if m.HasDefault(i) {
			parts = append(parts, fmt.Sprintf("default#%d", i))
		}
	}
	return strings.Join(parts, " ")
}
