package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/broady/jvmsig/sink"
)

// Flags are the selection and output flags shared by the describing
// commands.
type Flags struct {
	Marker []string          `help:"Marker names to describe (default: every marker found)." short:"m" env:"JVMSIG_MARKER" sep:","`
	Option map[string]string `help:"Processor option as key=value (strict, objectType)." short:"A"`
	Format string            `help:"Output format: auto, lines, table or yaml." enum:"auto,lines,table,yaml" default:"auto"`
	Out    string            `help:"Write the report into this directory instead of stdout." type:"path"`
}

// Options returns the pipeline options selected by the flags.
func (f *Flags) Options() Options {
	return Options{Markers: f.Marker, Processor: f.Option}
}

// format resolves "auto": a table on a terminal, one line per member
// otherwise. Files always get lines.
func (f *Flags) format(w io.Writer, toFile bool) sink.Format {
	if f.Format != "auto" && f.Format != "" {
		return sink.Format(f.Format)
	}
	if !toFile {
		if file, ok := w.(*os.File); ok {
			fd := file.Fd()
			if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
				return sink.FormatTable
			}
		}
	}
	return sink.FormatLines
}

// Sink returns the destination selected by --out, or nil for stdout.
func (f *Flags) Sink() sink.Sink {
	if f.Out == "" {
		return nil
	}
	return sink.NewDirSink(f.Out)
}

// ReportName is the file name Emit uses for format.
func ReportName(format sink.Format) string {
	if format == sink.FormatYAML {
		return "descriptors.yaml"
	}
	return "descriptors.txt"
}

// Emit writes the report into dst, or to stdout when dst is nil.
func (f *Flags) Emit(ctx context.Context, stdout io.Writer, dst sink.Sink, report *sink.Report) error {
	if dst == nil {
		return report.Write(stdout, f.format(stdout, false))
	}

	format := f.format(stdout, true)
	var buf bytes.Buffer
	if err := report.Write(&buf, format); err != nil {
		return err
	}
	if err := dst.Put(ctx, ReportName(format), buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
