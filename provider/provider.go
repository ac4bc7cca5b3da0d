// Package provider builds host declarations (package decl) from inputs the
// descriptor tooling can read: a YAML declaration manifest, or Go packages
// mapped onto JVM classes the way language bindings lay them out.
package provider

import (
	"sort"

	"github.com/broady/jvmsig/decl"
)

// Declarations is the output of a provider: every type it defined, in a
// symbol table, plus the members it read.
type Declarations struct {
	Symbols *decl.SymbolTable

	// Types lists the type elements the input declared, in input order.
	Types []*decl.TypeElement

	Executables []*decl.ExecutableElement
	Fields      []*decl.VariableElement
}

func newDeclarations() *Declarations {
	return &Declarations{Symbols: decl.NewPlatformTable()}
}

// Elements returns every member and type as a decl.Element, types first.
// The result is suitable as the element list of a processing round.
func (d *Declarations) Elements() []decl.Element {
	out := make([]decl.Element, 0, len(d.Types)+len(d.Executables)+len(d.Fields))
	for _, t := range d.Types {
		out = append(out, t)
	}
	for _, e := range d.Executables {
		out = append(out, e)
	}
	for _, f := range d.Fields {
		out = append(out, f)
	}
	return out
}

// Markers returns the distinct marker names found on any element, sorted.
func (d *Declarations) Markers() []string {
	seen := make(map[string]bool)
	for _, e := range d.Elements() {
		for _, m := range e.MarkerNames() {
			seen[m] = true
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Merge appends the contents of other to d. Symbols from other are
// redefined in d's table; duplicates are reported.
func (d *Declarations) Merge(other *Declarations) error {
	for _, t := range other.Types {
		if err := d.Symbols.Define(t); err != nil {
			return err
		}
	}
	d.Types = append(d.Types, other.Types...)
	d.Executables = append(d.Executables, other.Executables...)
	d.Fields = append(d.Fields, other.Fields...)
	return nil
}
