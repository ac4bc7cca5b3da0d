package decl

import "strings"

// ClassKind distinguishes the flavours of type element.
type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
)

// Modifier is a Java declaration modifier.
type Modifier string

const (
	ModPublic    Modifier = "public"
	ModProtected Modifier = "protected"
	ModPrivate   Modifier = "private"
	ModStatic    Modifier = "static"
	ModFinal     Modifier = "final"
	ModAbstract  Modifier = "abstract"
)

// Element is implemented by every declaration in this package.
type Element interface {
	// SimpleName is the unqualified source name.
	SimpleName() string

	// MarkerNames lists the qualified names of marker annotations on the
	// element.
	MarkerNames() []string

	sealed()
}

// Marked reports whether e carries the marker annotation name.
func Marked(e Element, name string) bool {
	for _, m := range e.MarkerNames() {
		if m == name {
			return true
		}
	}
	return false
}

// TypeElement is a class, interface, enum or annotation declaration.
type TypeElement struct {
	// Package is the dotted package name, empty for the default package.
	Package string

	// Name is the simple name.
	Name string

	// Enclosing is the directly enclosing type for nested types.
	Enclosing *TypeElement

	Kind       ClassKind
	TypeParams []*TypeVariable
	Modifiers  []Modifier
	Markers    []string
}

func (e *TypeElement) SimpleName() string    { return e.Name }
func (e *TypeElement) MarkerNames() []string { return e.Markers }
func (e *TypeElement) sealed()               {}

// Outermost returns the top-level type enclosing e, or e itself.
func (e *TypeElement) Outermost() *TypeElement {
	for e.Enclosing != nil {
		e = e.Enclosing
	}
	return e
}

// NestingPath returns the simple names from the outermost type down to e.
func (e *TypeElement) NestingPath() []string {
	var path []string
	for t := e; t != nil; t = t.Enclosing {
		path = append(path, t.Name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PackageName returns the package of the outermost type.
func (e *TypeElement) PackageName() string {
	return e.Outermost().Package
}

// QualifiedName returns the source-level qualified name, with nesting
// joined by dots ("p.Outer.Inner").
func (e *TypeElement) QualifiedName() string {
	name := strings.Join(e.NestingPath(), ".")
	if pkg := e.PackageName(); pkg != "" {
		return pkg + "." + name
	}
	return name
}

// Nested returns a new type element named name enclosed by e.
func (e *TypeElement) Nested(name string, kind ClassKind) *TypeElement {
	return &TypeElement{Name: name, Enclosing: e, Kind: kind}
}

// Type returns a DeclaredType use of e with the given type arguments.
func (e *TypeElement) Type(args ...Type) *DeclaredType { return Declared(e, args...) }

// ExecutableKind distinguishes methods from constructors and static
// initialisers.
type ExecutableKind string

const (
	ExecMethod      ExecutableKind = "method"
	ExecConstructor ExecutableKind = "constructor"
	ExecStaticInit  ExecutableKind = "static-init"
)

// Parameter is one formal parameter.
type Parameter struct {
	Name string
	Type Type
}

// ExecutableElement is a method, constructor or static initialiser.
//
// When Varargs is set, the last parameter's Type is the declared element
// type of the variadic slot: "int... xs" has Type int.
type ExecutableElement struct {
	Name       string
	Kind       ExecutableKind
	Enclosing  *TypeElement
	TypeParams []*TypeVariable
	Params     []Parameter
	Return     Type
	Varargs    bool
	Modifiers  []Modifier
	Markers    []string
}

func (e *ExecutableElement) SimpleName() string    { return e.Name }
func (e *ExecutableElement) MarkerNames() []string { return e.Markers }
func (e *ExecutableElement) sealed()               {}

// String renders the element in Java-like source syntax, for diagnostics.
func (e *ExecutableElement) String() string {
	var sb strings.Builder
	if e.Enclosing != nil {
		sb.WriteString(e.Enclosing.QualifiedName())
		sb.WriteByte('.')
	}
	sb.WriteString(e.Name)
	sb.WriteByte('(')
	for i, p := range e.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Type == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(p.Type.String())
		}
		if e.Varargs && i == len(e.Params)-1 {
			sb.WriteString("...")
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// VariableElement is a field.
type VariableElement struct {
	Name      string
	Type      Type
	Enclosing *TypeElement
	Modifiers []Modifier
	Markers   []string
}

func (e *VariableElement) SimpleName() string    { return e.Name }
func (e *VariableElement) MarkerNames() []string { return e.Markers }
func (e *VariableElement) sealed()               {}

// HasModifier reports whether mods contains m.
func HasModifier(mods []Modifier, m Modifier) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}
