package harness

import (
	"github.com/broady/jvmsig/decl"
)

// Round is the input to one processing pass. It is a value; handlers must
// not modify the slices it carries.
type Round struct {
	// Pass is the zero-based index of this pass.
	Pass int

	// Markers lists the processor's supported markers that occur on at
	// least one element of this round, in the processor's order.
	Markers []string

	// Elements are the root elements of this round.
	Elements []decl.Element

	// Final is set on the last pass a Driver runs, which carries no new
	// elements.
	Final bool

	Env *Environment
}

// MarkedWith returns the elements of r that carry marker, in round order.
func (r Round) MarkedWith(marker string) []decl.Element {
	var out []decl.Element
	for _, e := range r.Elements {
		if decl.Marked(e, marker) {
			out = append(out, e)
		}
	}
	return out
}

// Executables returns the executable elements of r carrying any of the
// round's markers.
func (r Round) Executables() []*decl.ExecutableElement {
	var out []*decl.ExecutableElement
	for _, e := range r.Elements {
		ee, ok := e.(*decl.ExecutableElement)
		if !ok {
			continue
		}
		for _, m := range r.Markers {
			if decl.Marked(ee, m) {
				out = append(out, ee)
				break
			}
		}
	}
	return out
}

// RoundInput is what a Driver feeds into one pass.
type RoundInput struct {
	Elements []decl.Element
}

// presentMarkers returns the entries of supported that some element carries.
func presentMarkers(supported []string, elems []decl.Element) []string {
	var out []string
	for _, m := range supported {
		for _, e := range elems {
			if decl.Marked(e, m) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
