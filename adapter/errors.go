package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved is wrapped by a ResolutionError when the host model
	// holds an error type or a missing type where a real type was expected.
	ErrUnresolved = errors.New("unresolved type")

	// ErrCyclicBound is wrapped when a chain of type variable bounds loops
	// back on itself without reaching a class type.
	ErrCyclicBound = errors.New("cyclic type variable bound")
)

// Slot indexes used by ResolutionError for positions that are not
// parameters.
const (
	ReturnIndex = -1
	FieldIndex  = -2
)

// ResolutionError reports a declaration whose parameter, return or field
// type could not be resolved to an erased JVM type.
type ResolutionError struct {
	// Element is a readable rendering of the declaration.
	Element string

	// Index is the zero-based parameter index, ReturnIndex or FieldIndex.
	Index int

	// TypeName is the host's spelling of the offending type.
	TypeName string

	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %s %s: %v", e.Element, e.slot(), e.TypeName, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) slot() string {
	switch e.Index {
	case ReturnIndex:
		return "return type"
	case FieldIndex:
		return "field type"
	default:
		return fmt.Sprintf("parameter %d", e.Index)
	}
}

// typeError is the position-free failure produced while erasing one type.
type typeError struct {
	name string
	err  error
}

func (e *typeError) at(element string, index int) *ResolutionError {
	return &ResolutionError{Element: element, Index: index, TypeName: e.name, Err: e.err}
}
