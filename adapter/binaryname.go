package adapter

import (
	"fmt"
	"strings"

	"github.com/broady/jvmsig/decl"
)

// JoinBinaryName builds a binary name from a dotted package and the chain of
// simple names from the outermost type inwards: ("p", [Outer Inner]) gives
// "p.Outer$Inner". An empty package yields a default-package name.
func JoinBinaryName(pkg string, nesting []string) string {
	name := strings.Join(nesting, "$")
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// SourceToBinary converts a source-level qualified name, where nesting is
// written with dots, to a binary name. isType must report whether a dotted
// prefix names a type (as opposed to a package); the shortest such prefix is
// the outermost type and every later segment is a nested type.
//
//	SourceToBinary("me.test.DataClass.Inner", st.IsType) == "me.test.DataClass$Inner"
func SourceToBinary(qualified string, isType func(string) bool) (string, error) {
	if qualified == "" {
		return "", fmt.Errorf("empty name: %w", ErrUnresolved)
	}
	segments := strings.Split(qualified, ".")
	for i := range segments {
		if segments[i] == "" {
			return "", fmt.Errorf("malformed name %q: %w", qualified, ErrUnresolved)
		}
	}
	for i := 1; i <= len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		if isType(prefix) {
			pkg := strings.Join(segments[:i-1], ".")
			return JoinBinaryName(pkg, segments[i-1:]), nil
		}
	}
	return "", fmt.Errorf("no type found in %q: %w", qualified, ErrUnresolved)
}

// BinaryName returns the binary name of te. Results are memoised per
// element.
func (a *Adapter) BinaryName(te *decl.TypeElement) string {
	if name, ok := a.names.Get(te); ok {
		return name
	}
	name := JoinBinaryName(te.PackageName(), te.NestingPath())
	a.names.Add(te, name)
	return name
}
