// Package validation wraps go-playground/validator for the YAML documents
// read by the providers and the metadata index. Field paths in errors use
// the yaml tag names so that messages point at the document, not the Go
// struct.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Error lists the failed constraints of one document.
type Error struct {
	Fields []FieldError
}

// FieldError is one failed constraint.
type FieldError struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Path + ": " + f.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v against its `validate` tags. Constraint failures are
// returned as *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(valErrs))}
	for _, ve := range valErrs {
		out.Fields = append(out.Fields, FieldError{
			Path:    path(ve.Namespace()),
			Message: formatValidationError(ve),
		})
	}
	return out
}

// path drops the root struct name from a validator namespace.
func path(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		if ve.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s entries", ve.Param())
		}
		return fmt.Sprintf("must be at least %s characters", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", ve.Param())
	case "required_if":
		return "required for this kind"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
