// Package decl models source-level declarations the way an annotation
// processing environment presents them: type elements with their nesting,
// executable and variable elements, and unerased type mirrors.
//
// Providers build values of this package from whatever host they read
// (a YAML manifest, Go packages); the adapter package turns them into
// erased JVM descriptors.
package decl

import "strings"

// TypeKind identifies the category of a Type mirror.
type TypeKind int

const (
	KindBoolean TypeKind = iota
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindVoid

	KindDeclared // Class or interface type, possibly parameterized
	KindArray
	KindTypeVariable
	KindWildcard
	KindError // Symbol the host could not resolve
)

var kindNames = [...]string{
	KindBoolean:      "boolean",
	KindByte:         "byte",
	KindChar:         "char",
	KindShort:        "short",
	KindInt:          "int",
	KindLong:         "long",
	KindFloat:        "float",
	KindDouble:       "double",
	KindVoid:         "void",
	KindDeclared:     "declared",
	KindArray:        "array",
	KindTypeVariable: "typevar",
	KindWildcard:     "wildcard",
	KindError:        "error",
}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a primitive kind or void.
func (k TypeKind) IsPrimitive() bool { return k >= KindBoolean && k <= KindVoid }

// PrimitiveKind returns the primitive kind spelled name in Java source
// ("int", "boolean", "void").
func PrimitiveKind(name string) (TypeKind, bool) {
	for k := KindBoolean; k <= KindVoid; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Type is an unerased type mirror.
type Type interface {
	Kind() TypeKind

	// String renders the type in Java source syntax.
	String() string

	sealed()
}

// PrimitiveType is a primitive type or void.
type PrimitiveType struct {
	K TypeKind
}

func (t *PrimitiveType) Kind() TypeKind { return t.K }
func (t *PrimitiveType) String() string { return t.K.String() }
func (t *PrimitiveType) sealed()        {}

// Primitive returns the PrimitiveType of kind k.
func Primitive(k TypeKind) *PrimitiveType { return &PrimitiveType{K: k} }

// Void returns the void pseudo-type.
func Void() *PrimitiveType { return &PrimitiveType{K: KindVoid} }

// DeclaredType is a use of a class or interface, with optional type
// arguments (List<String>).
type DeclaredType struct {
	Element  *TypeElement
	TypeArgs []Type
}

func (t *DeclaredType) Kind() TypeKind { return KindDeclared }
func (t *DeclaredType) sealed()        {}

func (t *DeclaredType) String() string {
	name := "<nil>"
	if t.Element != nil {
		name = t.Element.QualifiedName()
	}
	if len(t.TypeArgs) == 0 {
		return name
	}
	args := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.String()
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

// Declared returns a DeclaredType for te with the given type arguments.
func Declared(te *TypeElement, args ...Type) *DeclaredType {
	return &DeclaredType{Element: te, TypeArgs: args}
}

// ArrayType is an array with one dimension; multi-dimensional arrays nest.
type ArrayType struct {
	Component Type
}

func (t *ArrayType) Kind() TypeKind { return KindArray }
func (t *ArrayType) String() string { return t.Component.String() + "[]" }
func (t *ArrayType) sealed()        {}

// Array returns an array of component with dims dimensions.
func Array(component Type, dims int) Type {
	t := component
	for i := 0; i < dims; i++ {
		t = &ArrayType{Component: t}
	}
	return t
}

// TypeVariable is a use of a generic type parameter. Bounds lists the
// declared upper bounds in source order; nil means unbounded.
type TypeVariable struct {
	Name   string
	Bounds []Type
}

func (t *TypeVariable) Kind() TypeKind { return KindTypeVariable }
func (t *TypeVariable) String() string { return t.Name }
func (t *TypeVariable) sealed()        {}

// WildcardType is ?, ? extends T or ? super T. It only appears as a type
// argument.
type WildcardType struct {
	Extends Type
	Super   Type
}

func (t *WildcardType) Kind() TypeKind { return KindWildcard }
func (t *WildcardType) sealed()        {}

func (t *WildcardType) String() string {
	switch {
	case t.Extends != nil:
		return "? extends " + t.Extends.String()
	case t.Super != nil:
		return "? super " + t.Super.String()
	default:
		return "?"
	}
}

// ErrorType stands in for a symbol the host could not resolve.
type ErrorType struct {
	Name   string
	Reason string
}

func (t *ErrorType) Kind() TypeKind { return KindError }
func (t *ErrorType) String() string { return t.Name }
func (t *ErrorType) sealed()        {}

// Unresolved returns an ErrorType for name.
func Unresolved(name, reason string) *ErrorType {
	return &ErrorType{Name: name, Reason: reason}
}
