package provider

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/broady/jvmsig/decl"
	"github.com/broady/jvmsig/internal/validation"
)

// A manifest declares Java-style classes in YAML:
//
//	package: com.example.test
//	imports: [java.util.List, kotlin.coroutines.Continuation]
//	classes:
//	  - name: DataClass
//	    typeParams: [{name: T, bounds: ["Comparable<T>"]}]
//	    fields:
//	      - {name: items, type: "T[]"}
//	    constructors:
//	      - params: [{name: n, type: int}]
//	    methods:
//	      - name: method1
//	        markers: [com.example.Marker]
//	        params: [{name: a, type: boolean}, {name: b, type: "int..."}]
//	    classes:
//	      - name: Inner
//
// Imports of types unknown to the platform table declare external top-level
// classes.
type manifest struct {
	Package string          `yaml:"package" validate:"excludesall=/;[<>$"`
	Imports []string        `yaml:"imports,omitempty" validate:"dive,required,excludesall=/;[<>$"`
	Classes []manifestClass `yaml:"classes" validate:"min=1,dive"`
}

type manifestClass struct {
	Name         string                `yaml:"name" validate:"required,excludesall=./;[<>$"`
	Kind         decl.ClassKind        `yaml:"kind,omitempty" validate:"omitempty,oneof=class interface enum annotation"`
	Modifiers    []decl.Modifier       `yaml:"modifiers,omitempty" validate:"dive,oneof=public protected private static final abstract"`
	Markers      []string              `yaml:"markers,omitempty" validate:"dive,required"`
	TypeParams   []manifestTypeParam   `yaml:"typeParams,omitempty" validate:"dive"`
	Fields       []manifestField       `yaml:"fields,omitempty" validate:"dive"`
	Constructors []manifestConstructor `yaml:"constructors,omitempty" validate:"dive"`
	Methods      []manifestMethod      `yaml:"methods,omitempty" validate:"dive"`
	StaticInit   *manifestInit         `yaml:"staticInit,omitempty"`
	Classes      []manifestClass       `yaml:"classes,omitempty" validate:"dive"`
}

type manifestTypeParam struct {
	Name   string   `yaml:"name" validate:"required,excludesall=./;[<>"`
	Bounds []string `yaml:"bounds,omitempty" validate:"dive,required"`
}

type manifestParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type" validate:"required"`
}

type manifestField struct {
	Name      string          `yaml:"name" validate:"required,excludesall=./;[<>"`
	Type      string          `yaml:"type" validate:"required"`
	Modifiers []decl.Modifier `yaml:"modifiers,omitempty" validate:"dive,oneof=public protected private static final abstract"`
	Markers   []string        `yaml:"markers,omitempty" validate:"dive,required"`
}

type manifestConstructor struct {
	TypeParams []manifestTypeParam `yaml:"typeParams,omitempty" validate:"dive"`
	Params     []manifestParam     `yaml:"params,omitempty" validate:"dive"`
	Modifiers  []decl.Modifier     `yaml:"modifiers,omitempty" validate:"dive,oneof=public protected private static final abstract"`
	Markers    []string            `yaml:"markers,omitempty" validate:"dive,required"`
}

type manifestMethod struct {
	Name       string              `yaml:"name" validate:"required,excludesall=./;[<>"`
	Returns    string              `yaml:"returns,omitempty"`
	TypeParams []manifestTypeParam `yaml:"typeParams,omitempty" validate:"dive"`
	Params     []manifestParam     `yaml:"params,omitempty" validate:"dive"`
	Modifiers  []decl.Modifier     `yaml:"modifiers,omitempty" validate:"dive,oneof=public protected private static final abstract"`
	Markers    []string            `yaml:"markers,omitempty" validate:"dive,required"`
}

type manifestInit struct {
	Markers []string `yaml:"markers,omitempty" validate:"dive,required"`
}

// LoadManifest reads a YAML declaration manifest.
//
// Type names resolve, in order, against type variables in scope, the
// enclosing classes and their nested classes, the manifest's package, its
// imports (including "pkg.*" imports), java.lang, and finally fully
// qualified names. A name that resolves nowhere becomes a decl.ErrorType,
// which the adapter reports when the member is described.
func LoadManifest(r io.Reader) (*Declarations, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty manifest")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := validation.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	b := &manifestBuilder{
		m:     &m,
		out:   newDeclarations(),
		tvars: make(map[*decl.TypeElement][]*decl.TypeVariable),
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.out, nil
}

// LoadManifestFile is LoadManifest on the named file.
func LoadManifestFile(path string) (*Declarations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := LoadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

type manifestBuilder struct {
	m       *manifest
	out     *Declarations
	classes []pendingClass
	tvars   map[*decl.TypeElement][]*decl.TypeVariable
}

type pendingClass struct {
	te   *decl.TypeElement
	mc   *manifestClass
	path string
}

func (b *manifestBuilder) build() error {
	for _, imp := range b.m.Imports {
		if err := b.defineImport(imp); err != nil {
			return err
		}
	}

	// Define every class before resolving any member, so forward and
	// nested references resolve.
	for i := range b.m.Classes {
		if err := b.define(nil, &b.m.Classes[i], fmt.Sprintf("classes[%d]", i)); err != nil {
			return err
		}
	}
	for _, pc := range b.classes {
		if err := b.members(pc); err != nil {
			return err
		}
	}
	return nil
}

func (b *manifestBuilder) defineImport(imp string) error {
	if strings.HasSuffix(imp, ".*") || b.out.Symbols.IsType(imp) {
		return nil
	}
	i := strings.LastIndexByte(imp, '.')
	te := &decl.TypeElement{Name: imp[i+1:], Kind: decl.ClassKindClass}
	if i > 0 {
		te.Package = imp[:i]
	}
	if err := b.out.Symbols.Define(te); err != nil {
		return fmt.Errorf("import %s: %w", imp, err)
	}
	return nil
}

func (b *manifestBuilder) define(enclosing *decl.TypeElement, mc *manifestClass, path string) error {
	kind := mc.Kind
	if kind == "" {
		kind = decl.ClassKindClass
	}
	var te *decl.TypeElement
	if enclosing == nil {
		te = &decl.TypeElement{Package: b.m.Package, Name: mc.Name, Kind: kind}
	} else {
		te = enclosing.Nested(mc.Name, kind)
	}
	te.Modifiers = mc.Modifiers
	te.Markers = mc.Markers
	for _, tp := range mc.TypeParams {
		te.TypeParams = append(te.TypeParams, &decl.TypeVariable{Name: tp.Name})
	}
	b.tvars[te] = te.TypeParams

	if err := b.out.Symbols.Define(te); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	b.out.Types = append(b.out.Types, te)
	b.classes = append(b.classes, pendingClass{te: te, mc: mc, path: path})

	for i := range mc.Classes {
		if err := b.define(te, &mc.Classes[i], fmt.Sprintf("%s.classes[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *manifestBuilder) members(pc pendingClass) error {
	cs := b.classScope(pc.te)
	if err := cs.bounds(pc.te.TypeParams, pc.mc.TypeParams, pc.path); err != nil {
		return err
	}

	for i, f := range pc.mc.Fields {
		path := fmt.Sprintf("%s.fields[%d]", pc.path, i)
		t, err := cs.parse(f.Type, false, path)
		if err != nil {
			return err
		}
		b.out.Fields = append(b.out.Fields, &decl.VariableElement{
			Name:      f.Name,
			Type:      t,
			Enclosing: pc.te,
			Modifiers: f.Modifiers,
			Markers:   f.Markers,
		})
	}

	for i, c := range pc.mc.Constructors {
		path := fmt.Sprintf("%s.constructors[%d]", pc.path, i)
		e := &decl.ExecutableElement{
			Name:      pc.te.Name,
			Kind:      decl.ExecConstructor,
			Enclosing: pc.te,
			Modifiers: c.Modifiers,
			Markers:   c.Markers,
		}
		if err := b.executable(cs, e, c.TypeParams, c.Params, path); err != nil {
			return err
		}
	}

	for i, mm := range pc.mc.Methods {
		path := fmt.Sprintf("%s.methods[%d]", pc.path, i)
		e := &decl.ExecutableElement{
			Name:      mm.Name,
			Kind:      decl.ExecMethod,
			Enclosing: pc.te,
			Modifiers: mm.Modifiers,
			Markers:   mm.Markers,
		}
		if err := b.executable(cs, e, mm.TypeParams, mm.Params, path); err != nil {
			return err
		}
		ms := cs.with(e.TypeParams)
		if mm.Returns == "" {
			e.Return = decl.Void()
		} else {
			t, err := ms.parse(mm.Returns, false, path+".returns")
			if err != nil {
				return err
			}
			e.Return = t
		}
	}

	if pc.mc.StaticInit != nil {
		b.out.Executables = append(b.out.Executables, &decl.ExecutableElement{
			Kind:      decl.ExecStaticInit,
			Enclosing: pc.te,
			Modifiers: []decl.Modifier{decl.ModStatic},
			Markers:   pc.mc.StaticInit.Markers,
		})
	}
	return nil
}

// executable fills in type parameters and parameters of e and records it.
func (b *manifestBuilder) executable(cs *scope, e *decl.ExecutableElement, tps []manifestTypeParam, params []manifestParam, path string) error {
	for _, tp := range tps {
		e.TypeParams = append(e.TypeParams, &decl.TypeVariable{Name: tp.Name})
	}
	ms := cs.with(e.TypeParams)
	if err := ms.bounds(e.TypeParams, tps, path); err != nil {
		return err
	}
	for i, p := range params {
		last := i == len(params)-1
		expr, err := parseTypeExpr(p.Type, last)
		if err != nil {
			return fmt.Errorf("%s.params[%d]: %w", path, i, err)
		}
		if expr.varargs {
			e.Varargs = true
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		e.Params = append(e.Params, decl.Parameter{Name: name, Type: ms.resolve(expr)})
	}
	b.out.Executables = append(b.out.Executables, e)
	return nil
}

// classScope returns the scope of members of te: its own type variables,
// then those of enclosing classes.
func (b *manifestBuilder) classScope(te *decl.TypeElement) *scope {
	s := &scope{b: b, class: te}
	for c := te; c != nil; c = c.Enclosing {
		s.vars = append(s.vars, b.tvars[c]...)
	}
	return s
}

type scope struct {
	b     *manifestBuilder
	class *decl.TypeElement
	vars  []*decl.TypeVariable
}

func (s *scope) with(vars []*decl.TypeVariable) *scope {
	return &scope{
		b:     s.b,
		class: s.class,
		vars:  append(append([]*decl.TypeVariable(nil), vars...), s.vars...),
	}
}

// bounds resolves the declared bounds of vars. Bounds may mention any
// variable in scope, including the one being bounded.
func (s *scope) bounds(vars []*decl.TypeVariable, decls []manifestTypeParam, path string) error {
	for i, tv := range vars {
		for j, bound := range decls[i].Bounds {
			t, err := s.parse(bound, false, fmt.Sprintf("%s.typeParams[%d].bounds[%d]", path, i, j))
			if err != nil {
				return err
			}
			tv.Bounds = append(tv.Bounds, t)
		}
	}
	return nil
}

func (s *scope) parse(src string, allowVarargs bool, path string) (decl.Type, error) {
	expr, err := parseTypeExpr(src, allowVarargs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s.resolve(expr), nil
}

// resolve converts expr to a type mirror. The varargs flag is not applied;
// callers record it on the executable.
func (s *scope) resolve(expr *typeExpr) decl.Type {
	return decl.Array(s.resolveBase(expr), expr.dims)
}

func (s *scope) resolveBase(expr *typeExpr) decl.Type {
	if len(expr.args) == 0 {
		if k, ok := decl.PrimitiveKind(expr.name); ok {
			return decl.Primitive(k)
		}
		for _, tv := range s.vars {
			if tv.Name == expr.name {
				return tv
			}
		}
	}

	te, ok := s.lookup(expr.name)
	if !ok {
		return decl.Unresolved(expr.name, "cannot find symbol")
	}
	args := make([]decl.Type, len(expr.args))
	for i, a := range expr.args {
		switch {
		case !a.wildcard:
			args[i] = s.resolve(a.typ)
		case a.extends != nil:
			args[i] = &decl.WildcardType{Extends: s.resolve(a.extends)}
		case a.super != nil:
			args[i] = &decl.WildcardType{Super: s.resolve(a.super)}
		default:
			args[i] = &decl.WildcardType{}
		}
	}
	return te.Type(args...)
}

// lookup resolves a possibly dotted source name to a type element.
func (s *scope) lookup(name string) (*decl.TypeElement, bool) {
	st := s.b.out.Symbols
	head, rest, dotted := strings.Cut(name, ".")
	if te, ok := s.lookupSimple(head); ok {
		if !dotted {
			return te, true
		}
		if nested, ok := st.Lookup(te.QualifiedName() + "." + rest); ok {
			return nested, true
		}
	}
	return st.Lookup(name)
}

func (s *scope) lookupSimple(name string) (*decl.TypeElement, bool) {
	st := s.b.out.Symbols
	for c := s.class; c != nil; c = c.Enclosing {
		if c.Name == name {
			return c, true
		}
		if te, ok := st.Lookup(c.QualifiedName() + "." + name); ok {
			return te, true
		}
	}
	if pkg := s.b.m.Package; pkg != "" {
		if te, ok := st.Lookup(pkg + "." + name); ok {
			return te, true
		}
	} else if te, ok := st.Lookup(name); ok {
		return te, true
	}
	for _, imp := range s.b.m.Imports {
		if prefix, ok := strings.CutSuffix(imp, ".*"); ok {
			if te, ok := st.Lookup(prefix + "." + name); ok {
				return te, true
			}
			continue
		}
		if imp == name || strings.HasSuffix(imp, "."+name) {
			if te, ok := st.Lookup(imp); ok {
				return te, true
			}
		}
	}
	return st.Lookup("java.lang." + name)
}
