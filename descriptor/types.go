// Package descriptor encodes erased JVM types and method shapes into the
// descriptor strings the virtual machine uses for linking and overload
// resolution (JVMS §4.3).
//
// The package is a leaf: it knows nothing about source declarations, generics
// or symbol tables. Callers hand it fully resolved, erased types and get back
// exact descriptor strings suitable for use as lookup keys.
package descriptor

// Kind identifies the category of a Type.
type Kind int

const (
	// Primitive kinds, in JVMS table order.
	KindBoolean Kind = iota
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindVoid // Return position only

	KindReference // Class, interface, enum or annotation type
	KindArray     // One or more array dimensions over an element type
)

// String returns the Java spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindVoid:
		return "void"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether k is one of the primitive kinds, void included.
func (k Kind) IsPrimitive() bool {
	return k >= KindBoolean && k <= KindVoid
}

// Type is an erased JVM type. Values are immutable once constructed.
type Type interface {
	// Kind returns the type category for switching.
	Kind() Kind

	// String returns the field descriptor of the type.
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

// Primitive is one of the eight primitive types, or void.
type Primitive struct {
	kind Kind
}

// Kind returns the primitive kind.
func (p *Primitive) Kind() Kind     { return p.kind }
func (p *Primitive) String() string { return Encode(p) }
func (p *Primitive) sealed()        {}

// Reference is a class or interface type named by its binary name:
// dot-separated packages, $-separated nesting ("java.util.Map$Entry").
type Reference struct {
	BinaryName string
}

// Kind returns KindReference.
func (r *Reference) Kind() Kind     { return KindReference }
func (r *Reference) String() string { return Encode(r) }
func (r *Reference) sealed()        {}

// Array is an array type with Dims dimensions over Elem.
// Elem is never itself an *Array; ArrayOf flattens nested arrays.
type Array struct {
	Elem Type
	Dims int
}

// Kind returns KindArray.
func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return Encode(a) }
func (a *Array) sealed()        {}

// Convenience constructors.

func Boolean() *Primitive { return &Primitive{kind: KindBoolean} }
func Byte() *Primitive    { return &Primitive{kind: KindByte} }
func Char() *Primitive    { return &Primitive{kind: KindChar} }
func Short() *Primitive   { return &Primitive{kind: KindShort} }
func Int() *Primitive     { return &Primitive{kind: KindInt} }
func Long() *Primitive    { return &Primitive{kind: KindLong} }
func Float() *Primitive   { return &Primitive{kind: KindFloat} }
func Double() *Primitive  { return &Primitive{kind: KindDouble} }

// Void returns the void marker. It is only legal as a method return type.
func Void() *Primitive { return &Primitive{kind: KindVoid} }

// PrimitiveOf returns the primitive for k.
// It panics with a *ContractViolation if k is not a primitive kind.
func PrimitiveOf(k Kind) *Primitive {
	if !k.IsPrimitive() {
		panic(violation(nil, "kind %s is not primitive", k))
	}
	return &Primitive{kind: k}
}

// Ref returns a Reference for a binary name such as "java.lang.String"
// or "p.Outer$Inner".
func Ref(binaryName string) *Reference {
	return &Reference{BinaryName: binaryName}
}

// Object returns java.lang.Object, the erasure of an unbounded type variable.
func Object() *Reference { return Ref(ObjectName) }

// String returns java.lang.String.
func String() *Reference { return Ref(StringName) }

// Well-known binary names.
const (
	ObjectName = "java.lang.Object"
	StringName = "java.lang.String"
)

// ArrayOf returns an array of dims dimensions over elem. If elem is already
// an array, the dimensions are added to it.
// It panics with a *ContractViolation if dims < 1 or elem is void.
func ArrayOf(elem Type, dims int) *Array {
	if dims < 1 {
		panic(violation(elem, "array needs at least one dimension, got %d", dims))
	}
	if elem == nil {
		panic(violation(nil, "array element type is nil"))
	}
	if elem.Kind() == KindVoid {
		panic(violation(elem, "void cannot be an array element"))
	}
	if inner, ok := elem.(*Array); ok {
		return &Array{Elem: inner.Elem, Dims: inner.Dims + dims}
	}
	return &Array{Elem: elem, Dims: dims}
}

// Equal reports whether a and b denote the same erased type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Encode(a) == Encode(b)
}
