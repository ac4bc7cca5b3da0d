package decl

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolTable indexes type elements by their source-level qualified name.
// It is the host symbol table a provider populates and the adapter consults
// when it needs to tell package segments from enclosing types.
type SymbolTable struct {
	types    map[string]*TypeElement
	packages map[string]bool
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		types:    make(map[string]*TypeElement),
		packages: make(map[string]bool),
	}
}

// Define registers te. Enclosing types must be defined first or together.
// Defining the same qualified name twice is an error.
func (s *SymbolTable) Define(te *TypeElement) error {
	name := te.QualifiedName()
	if _, exists := s.types[name]; exists {
		return fmt.Errorf("duplicate type %s", name)
	}
	s.types[name] = te
	pkg := te.PackageName()
	for pkg != "" {
		s.packages[pkg] = true
		i := strings.LastIndexByte(pkg, '.')
		if i < 0 {
			break
		}
		pkg = pkg[:i]
	}
	return nil
}

// MustDefine is like Define but panics on error. It is meant for tables
// built from literals.
func (s *SymbolTable) MustDefine(te *TypeElement) *TypeElement {
	if err := s.Define(te); err != nil {
		panic(err)
	}
	return te
}

// Lookup returns the type element with the given qualified name.
func (s *SymbolTable) Lookup(qualified string) (*TypeElement, bool) {
	te, ok := s.types[qualified]
	return te, ok
}

// IsType reports whether qualified names a defined type.
func (s *SymbolTable) IsType(qualified string) bool {
	_, ok := s.types[qualified]
	return ok
}

// IsPackage reports whether name is a package of some defined type.
func (s *SymbolTable) IsPackage(name string) bool {
	return s.packages[name]
}

// Types returns all defined elements sorted by qualified name.
func (s *SymbolTable) Types() []*TypeElement {
	names := make([]string, 0, len(s.types))
	for n := range s.types {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*TypeElement, len(names))
	for i, n := range names {
		out[i] = s.types[n]
	}
	return out
}

// wellKnown lists platform types every table starts with. Nested entries use
// source notation.
var wellKnown = []struct {
	name string
	kind ClassKind
}{
	{"java.lang.Object", ClassKindClass},
	{"java.lang.String", ClassKindClass},
	{"java.lang.CharSequence", ClassKindInterface},
	{"java.lang.Comparable", ClassKindInterface},
	{"java.lang.Iterable", ClassKindInterface},
	{"java.lang.Enum", ClassKindClass},
	{"java.lang.Number", ClassKindClass},
	{"java.lang.Boolean", ClassKindClass},
	{"java.lang.Byte", ClassKindClass},
	{"java.lang.Character", ClassKindClass},
	{"java.lang.Short", ClassKindClass},
	{"java.lang.Integer", ClassKindClass},
	{"java.lang.Long", ClassKindClass},
	{"java.lang.Float", ClassKindClass},
	{"java.lang.Double", ClassKindClass},
	{"java.lang.Void", ClassKindClass},
	{"java.lang.Class", ClassKindClass},
	{"java.lang.Exception", ClassKindClass},
	{"java.lang.Runnable", ClassKindInterface},
	{"java.util.Collection", ClassKindInterface},
	{"java.util.List", ClassKindInterface},
	{"java.util.ArrayList", ClassKindClass},
	{"java.util.Set", ClassKindInterface},
	{"java.util.Map", ClassKindInterface},
	{"java.util.Map.Entry", ClassKindInterface},
	{"java.util.HashMap", ClassKindClass},
}

// NewPlatformTable returns a table preloaded with common java.lang and
// java.util types.
func NewPlatformTable() *SymbolTable {
	s := NewSymbolTable()
	for _, wk := range wellKnown {
		i := strings.LastIndexByte(wk.name, '.')
		parent, simple := wk.name[:i], wk.name[i+1:]
		te := &TypeElement{Name: simple, Kind: wk.kind, Modifiers: []Modifier{ModPublic}}
		if enc, ok := s.Lookup(parent); ok {
			te.Enclosing = enc
		} else {
			te.Package = parent
		}
		s.MustDefine(te)
	}
	return s
}
