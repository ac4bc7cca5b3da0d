package index

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/broady/jvmsig/adapter"
	"github.com/broady/jvmsig/descriptor"
	"github.com/broady/jvmsig/internal/validation"
)

// Index maps class binary names and member signatures to metadata.
// It is immutable after Load and safe for concurrent reads.
type Index struct {
	classes map[string]*entry
}

type entry struct {
	meta    ClassMetadata
	members map[string]Member
}

// New builds an Index from already-decoded metadata. It applies the same
// checks as Load.
func New(classes ...ClassMetadata) (*Index, error) {
	ix := &Index{classes: make(map[string]*entry, len(classes))}
	for i, c := range classes {
		if err := ix.add(c); err != nil {
			return nil, fmt.Errorf("classes[%d]: %w", i, err)
		}
	}
	return ix, nil
}

// Load reads a YAML metadata document. An empty document yields an empty
// Index.
func Load(r io.Reader) (*Index, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if err := validation.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	return New(doc.Classes...)
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ix, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

func (ix *Index) add(c ClassMetadata) error {
	if _, dup := ix.classes[c.Class]; dup {
		return fmt.Errorf("duplicate class %s", c.Class)
	}
	c.Members = slices.Clone(c.Members)
	e := &entry{meta: c, members: make(map[string]Member, len(c.Members))}
	for i, m := range c.Members {
		sig, err := checkMember(m)
		if err != nil {
			return fmt.Errorf("%s members[%d]: %w", c.Class, i, err)
		}
		m.Signature = sig
		c.Members[i] = m
		if _, dup := e.members[sig]; dup {
			return fmt.Errorf("%s: duplicate member %s", c.Class, sig)
		}
		e.members[sig] = m
	}
	ix.classes[c.Class] = e
	return nil
}

// checkMember parses the member's signature and checks the per-parameter
// flags against it. It returns the signature re-encoded from the parsed
// descriptor, the form the adapter produces.
func checkMember(m Member) (string, error) {
	if m.Kind == KindProperty {
		name, desc, ok := strings.Cut(m.Signature, ":")
		if !ok || name == "" {
			return "", fmt.Errorf("property signature %q: want name:descriptor", m.Signature)
		}
		typ, err := descriptor.ParseField(desc)
		if err != nil {
			return "", fmt.Errorf("property signature %q: %w", m.Signature, err)
		}
		if len(m.Nullable) > 0 || len(m.Defaults) > 0 {
			return "", fmt.Errorf("property %s: nullable and defaults apply to parameters only", name)
		}
		return descriptor.FieldSignature(name, typ), nil
	}

	name, method, err := descriptor.ParseMember(m.Signature)
	if err != nil {
		return "", err
	}
	if (m.Kind == KindConstructor) != (name == adapter.ConstructorName) {
		return "", fmt.Errorf("%s %q: constructors and only constructors are named %s", m.Kind, m.Signature, adapter.ConstructorName)
	}
	if n := len(m.Nullable); n > 0 && n != len(method.Params) {
		return "", fmt.Errorf("%s: nullable has %d entries for %d parameters", m.Signature, n, len(method.Params))
	}
	if n := len(m.Defaults); n > 0 && n != len(method.Params) {
		return "", fmt.Errorf("%s: defaults has %d entries for %d parameters", m.Signature, n, len(method.Params))
	}
	return descriptor.MethodSignature(name, method), nil
}

// Lookup returns the metadata of the member of class with signature.
func (ix *Index) Lookup(class, signature string) (Member, bool) {
	e, ok := ix.classes[class]
	if !ok {
		return Member{}, false
	}
	m, ok := e.members[signature]
	return m, ok
}

// Class returns the metadata of the named class.
func (ix *Index) Class(class string) (ClassMetadata, bool) {
	e, ok := ix.classes[class]
	if !ok {
		return ClassMetadata{}, false
	}
	return e.meta, true
}

// Classes returns the binary names of all indexed classes, sorted.
func (ix *Index) Classes() []string {
	names := make([]string, 0, len(ix.classes))
	for n := range ix.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed members across all classes.
func (ix *Index) Len() int {
	n := 0
	for _, e := range ix.classes {
		n += len(e.members)
	}
	return n
}
