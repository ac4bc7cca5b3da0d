package sink

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Entry is one described member.
type Entry struct {
	// Class is the binary name of the enclosing class.
	Class string

	// Signature is the JVM member signature, or empty when Err is set.
	Signature string

	// Kind is "function", "constructor" or "property".
	Kind string

	// Element is the readable source form of the member.
	Element string

	// Err holds the resolution failure for members that could not be
	// described.
	Err error
}

// Report collects entries for output.
type Report struct {
	Entries []Entry
}

// Add appends an entry.
func (r *Report) Add(e Entry) { r.Entries = append(r.Entries, e) }

// Failed returns the entries carrying an error.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Sort orders entries by class, then signature, then element.
func (r *Report) Sort() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i], r.Entries[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Signature != b.Signature {
			return a.Signature < b.Signature
		}
		return a.Element < b.Element
	})
}

// Format selects a report encoding.
type Format string

const (
	// FormatLines writes "class signature" per line.
	FormatLines Format = "lines"

	// FormatTable writes aligned class, signature and element columns.
	FormatTable Format = "table"

	// FormatYAML writes a metadata skeleton the index package can load.
	FormatYAML Format = "yaml"
)

// Write encodes the described entries of r to w. Entries with errors are
// skipped; callers report them separately.
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatLines, "":
		bw := bufio.NewWriter(w)
		for _, e := range r.Entries {
			if e.Err == nil {
				fmt.Fprintf(bw, "%s %s\n", e.Class, e.Signature)
			}
		}
		return bw.Flush()

	case FormatTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CLASS\tSIGNATURE\tELEMENT")
		for _, e := range r.Entries {
			if e.Err == nil {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Class, e.Signature, e.Element)
			}
		}
		return tw.Flush()

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.skeleton()); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

type skeletonMember struct {
	Signature string `yaml:"signature"`
	Kind      string `yaml:"kind"`
}

type skeletonClass struct {
	Class   string           `yaml:"class"`
	Members []skeletonMember `yaml:"members"`
}

type skeletonDoc struct {
	Classes []skeletonClass `yaml:"classes"`
}

// skeleton groups entries by class in first-seen order.
func (r *Report) skeleton() skeletonDoc {
	var doc skeletonDoc
	pos := make(map[string]int)
	seen := make(map[[2]string]bool)
	for _, e := range r.Entries {
		if e.Err != nil || seen[[2]string{e.Class, e.Signature}] {
			continue
		}
		seen[[2]string{e.Class, e.Signature}] = true
		i, ok := pos[e.Class]
		if !ok {
			i = len(doc.Classes)
			pos[e.Class] = i
			doc.Classes = append(doc.Classes, skeletonClass{Class: e.Class})
		}
		doc.Classes[i].Members = append(doc.Classes[i].Members, skeletonMember{Signature: e.Signature, Kind: e.Kind})
	}
	return doc
}
