package descriptor

import "strings"

// primitiveCode returns the single-letter descriptor of a primitive kind.
func primitiveCode(k Kind) (byte, bool) {
	switch k {
	case KindBoolean:
		return 'Z', true
	case KindByte:
		return 'B', true
	case KindChar:
		return 'C', true
	case KindShort:
		return 'S', true
	case KindInt:
		return 'I', true
	case KindLong:
		return 'J', true
	case KindFloat:
		return 'F', true
	case KindDouble:
		return 'D', true
	case KindVoid:
		return 'V', true
	default:
		return 0, false
	}
}

// Encode returns the descriptor of t.
//
//	boolean Z, byte B, char C, short S, int I, long J, float F, double D, void V
//	Reference(p.q.C$In)  Lp/q/C$In;
//	Array(t, n)          "[" * n + Encode(t)
//
// Encode is total over values built with this package's constructors.
// A hand-built malformed value (nil, Dims < 1, nested *Array, empty binary
// name) makes it panic with a *ContractViolation.
func Encode(t Type) string {
	if err := check(t); err != nil {
		panic(err)
	}
	var sb strings.Builder
	sb.Grow(encodedLen(t))
	writeType(&sb, t)
	return sb.String()
}

// AppendEncode appends the descriptor of t to dst. It panics like Encode
// on malformed values.
func AppendEncode(dst []byte, t Type) []byte {
	if err := check(t); err != nil {
		panic(err)
	}
	return appendType(dst, t)
}

// writeType assumes t has passed check.
func writeType(sb *strings.Builder, t Type) {
	switch typ := t.(type) {
	case *Primitive:
		c, _ := primitiveCode(typ.kind)
		sb.WriteByte(c)
	case *Reference:
		writeReference(sb, typ.BinaryName)
	case *Array:
		for i := 0; i < typ.Dims; i++ {
			sb.WriteByte('[')
		}
		writeType(sb, typ.Elem)
	}
}

// appendType is writeType for byte slices.
func appendType(dst []byte, t Type) []byte {
	switch typ := t.(type) {
	case *Primitive:
		c, _ := primitiveCode(typ.kind)
		dst = append(dst, c)
	case *Reference:
		dst = append(dst, 'L')
		dst = append(dst, InternalName(typ.BinaryName)...)
		dst = append(dst, ';')
	case *Array:
		for i := 0; i < typ.Dims; i++ {
			dst = append(dst, '[')
		}
		dst = appendType(dst, typ.Elem)
	}
	return dst
}

// writeReference writes L<internal name>; where the internal name replaces
// package dots with slashes. The $ nesting separator is copied verbatim.
func writeReference(sb *strings.Builder, binaryName string) {
	sb.WriteByte('L')
	for i := 0; i < len(binaryName); i++ {
		c := binaryName[i]
		if c == '.' {
			c = '/'
		}
		sb.WriteByte(c)
	}
	sb.WriteByte(';')
}

// binaryNameReserved are the characters a binary class name may not
// contain. The parser and the encoder share this set.
const binaryNameReserved = "/;[<>"

func validBinaryName(name string) bool {
	return name != "" && !strings.ContainsAny(name, binaryNameReserved)
}

// InternalName returns the JVM internal form of a binary name
// ("java.util.Map$Entry" -> "java/util/Map$Entry").
func InternalName(binaryName string) string {
	return strings.ReplaceAll(binaryName, ".", "/")
}

// BinaryName is the inverse of InternalName.
func BinaryName(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

func encodedLen(t Type) int {
	switch typ := t.(type) {
	case *Reference:
		return len(typ.BinaryName) + 2
	case *Array:
		if typ.Dims > 0 && typ.Elem != nil {
			return typ.Dims + encodedLen(typ.Elem)
		}
	}
	return 1
}

// Validate reports whether t is a well-formed field type. Void is rejected;
// use ValidateReturn for return position.
func Validate(t Type) error {
	if err := check(t); err != nil {
		return err
	}
	if t.Kind() == KindVoid {
		return violation(t, "void is only legal as a return type")
	}
	return nil
}

// ValidateReturn is like Validate but accepts void.
func ValidateReturn(t Type) error {
	if err := check(t); err != nil {
		return err
	}
	return nil
}

// check validates structure without position rules.
func check(t Type) *ContractViolation {
	switch typ := t.(type) {
	case nil:
		return violation(nil, "nil type")
	case *Primitive:
		if typ == nil {
			return violation(nil, "nil primitive")
		}
		if _, ok := primitiveCode(typ.kind); !ok {
			return violation(t, "unknown primitive kind %d", int(typ.kind))
		}
	case *Reference:
		if typ == nil {
			return violation(nil, "nil reference")
		}
		if typ.BinaryName == "" {
			return violation(t, "reference has an empty binary name")
		}
		if !validBinaryName(typ.BinaryName) {
			return violation(t, "%q is not a binary name", typ.BinaryName)
		}
	case *Array:
		if typ == nil {
			return violation(nil, "nil array")
		}
		if typ.Dims < 1 {
			return violation(t, "array needs at least one dimension, got %d", typ.Dims)
		}
		if typ.Elem == nil {
			return violation(t, "array element type is nil")
		}
		if err := check(typ.Elem); err != nil {
			return err
		}
		switch typ.Elem.Kind() {
		case KindArray:
			return violation(t, "array element is itself an array; use ArrayOf")
		case KindVoid:
			return violation(t, "void cannot be an array element")
		}
	}
	return nil
}
