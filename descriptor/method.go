package descriptor

import (
	"strconv"
	"strings"
)

// Method is the erased shape of a callable: parameter types in declaration
// order and a return type. Varargs parameters are already arrays.
type Method struct {
	Params []Type
	Return Type
}

// NewMethod validates and returns a Method. Parameters must be field types
// (void is rejected); the return type may be void.
// The params slice is copied, so later changes by the caller have no effect.
func NewMethod(ret Type, params ...Type) (Method, error) {
	if err := ValidateReturn(ret); err != nil {
		return Method{}, err
	}
	ps := make([]Type, len(params))
	for i, p := range params {
		if err := Validate(p); err != nil {
			cv := err.(*ContractViolation)
			cv.Message = "parameter " + strconv.Itoa(i) + ": " + cv.Message
			return Method{}, cv
		}
		ps[i] = p
	}
	return Method{Params: ps, Return: ret}, nil
}

// MustMethod is like NewMethod but panics on error.
func MustMethod(ret Type, params ...Type) Method {
	m, err := NewMethod(ret, params...)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the method descriptor.
func (m Method) String() string { return Assemble(m) }

// Assemble returns the method descriptor "(" params ")" return.
// Parameter descriptors are self-delimiting, so no separators are written.
func Assemble(m Method) string {
	var sb strings.Builder
	writeMethod(&sb, m)
	return sb.String()
}

func writeMethod(sb *strings.Builder, m Method) {
	sb.WriteByte('(')
	for i, p := range m.Params {
		if err := check(p); err != nil {
			err.Message = "parameter " + strconv.Itoa(i) + ": " + err.Message
			panic(err)
		}
		if p.Kind() == KindVoid {
			panic(violation(p, "parameter %d: void is only legal as a return type", i))
		}
		writeType(sb, p)
	}
	sb.WriteByte(')')
	if err := check(m.Return); err != nil {
		err.Message = "return: " + err.Message
		panic(err)
	}
	writeType(sb, m.Return)
}

// MethodSignature returns name followed by the method descriptor, the form
// used as a member key ("emptyMethod()V", "<init>(I)V").
func MethodSignature(name string, m Method) string {
	var sb strings.Builder
	sb.WriteString(name)
	writeMethod(&sb, m)
	return sb.String()
}

// FieldSignature returns "name:descriptor" for a field.
func FieldSignature(name string, t Type) string {
	return name + ":" + Encode(t)
}

// ParamSlots returns the number of local variable slots the parameters
// occupy; long and double take two.
func (m Method) ParamSlots() int {
	n := 0
	for _, p := range m.Params {
		switch p.Kind() {
		case KindLong, KindDouble:
			n += 2
		default:
			n++
		}
	}
	return n
}
