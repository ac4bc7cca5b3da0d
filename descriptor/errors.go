package descriptor

import "fmt"

// ContractViolation reports a malformed Type or Method handed to the
// encoder: void in parameter position, zero array dimensions, a nil type and
// so on. It is a programming error in the caller.
type ContractViolation struct {
	// Type is the offending type, if one is available.
	Type Type

	// Message describes the violated precondition.
	Message string
}

func (e *ContractViolation) Error() string {
	return "descriptor: contract violation: " + e.Message
}

func violation(t Type, format string, args ...any) *ContractViolation {
	return &ContractViolation{Type: t, Message: fmt.Sprintf(format, args...)}
}

// SyntaxError reports a malformed descriptor string.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("descriptor: invalid descriptor %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}
