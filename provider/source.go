package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"

	"github.com/broady/jvmsig/decl"
)

// DirectivePrefix introduces marker directives in Go source:
//
//	//jvm:export
//	func Area(w, h float64) float64
//
// The word after the prefix is the marker name given to the declaration.
const DirectivePrefix = "//jvm:"

// SourceProvider maps Go packages onto JVM classes. Each package becomes a
// final class named after the package; exported struct and interface types
// become nested classes of it.
//
//	package shapes            ->  class shapes.Shapes
//	type Point struct         ->  class shapes.Shapes$Point
//	func NewPoint(...) *Point ->  constructor of Point
//	func (p *Point) Norm()    ->  Point.norm()
//	func Area(...)            ->  static Shapes.area(...)
//
// Only functions and types carrying a directive are reported as members;
// every exported type is defined in the symbol table either way.
type SourceProvider struct {
	Logger *slog.Logger
}

// SourceOptions configures source-based loading.
type SourceOptions struct {
	// Patterns are go/packages patterns ("./shapes", an import path).
	Patterns []string

	// Dir is the working directory for the go command. Empty means the
	// current directory.
	Dir string

	// JavaPackage is prepended to each Go package name to form its Java
	// package. Empty puts the class in a package named after the Go package.
	JavaPackage string
}

// Load analyzes the packages matched by opts.
func (p *SourceProvider) Load(ctx context.Context, opts SourceOptions) (*Declarations, error) {
	if len(opts.Patterns) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %v", opts.Patterns)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}

	b := &sourceBuilder{
		out:      newDeclarations(),
		logger:   logger,
		classes:  make(map[*types.TypeName]*decl.TypeElement),
		pkgs:     make(map[*types.Package]*decl.TypeElement),
		tvars:    make(map[*types.TypeParam]*decl.TypeVariable),
		visiting: make(map[*types.Named]bool),
	}
	for _, pkg := range pkgs {
		if err := b.defineTypes(pkg, opts.JavaPackage); err != nil {
			return nil, err
		}
	}
	for _, pkg := range pkgs {
		if err := b.members(pkg); err != nil {
			return nil, err
		}
	}
	return b.out, nil
}

type sourceBuilder struct {
	out     *Declarations
	logger  *slog.Logger
	classes map[*types.TypeName]*decl.TypeElement
	pkgs    map[*types.Package]*decl.TypeElement
	tvars   map[*types.TypeParam]*decl.TypeVariable

	// visiting holds the named types whose underlying type is being
	// converted, to stop on types like "type Tree []Tree".
	visiting map[*types.Named]bool
}

// defineTypes defines the package class and a nested class per exported
// struct or interface type.
func (b *sourceBuilder) defineTypes(pkg *packages.Package, javaPrefix string) error {
	javaPkg := pkg.Name
	if javaPrefix != "" {
		javaPkg = javaPrefix + "." + pkg.Name
	}
	class := &decl.TypeElement{
		Package:   javaPkg,
		Name:      upperFirst(pkg.Name),
		Kind:      decl.ClassKindClass,
		Modifiers: []decl.Modifier{decl.ModPublic, decl.ModFinal},
	}
	if err := b.out.Symbols.Define(class); err != nil {
		return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
	}
	b.out.Types = append(b.out.Types, class)
	b.pkgs[pkg.Types] = class

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		var kind decl.ClassKind
		switch named.Underlying().(type) {
		case *types.Struct:
			kind = decl.ClassKindClass
		case *types.Interface:
			kind = decl.ClassKindInterface
		default:
			// Named basic, slice and map types map to their underlying type.
			continue
		}
		te := class.Nested(name, kind)
		te.Modifiers = []decl.Modifier{decl.ModPublic, decl.ModStatic}
		for i := 0; i < named.TypeParams().Len(); i++ {
			te.TypeParams = append(te.TypeParams, b.tvar(named.TypeParams().At(i)))
		}
		if err := b.out.Symbols.Define(te); err != nil {
			return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
		}
		b.out.Types = append(b.out.Types, te)
		b.classes[tn] = te
	}
	return nil
}

// directive is a marker directive matched to the declaration after it.
type directive struct {
	marker string
	pos    token.Position
}

// parseDirectives returns the markers attached to each declaration of f,
// keyed by the declaration's doc comment group.
func parseDirectives(fset *token.FileSet, f *ast.File) (map[*ast.CommentGroup][]directive, error) {
	found := make(map[*ast.CommentGroup][]directive)
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			text, ok := strings.CutPrefix(c.Text, DirectivePrefix)
			if !ok {
				continue
			}
			parts := strings.Fields(text)
			pos := fset.Position(c.Pos())
			if len(parts) == 0 {
				return nil, fmt.Errorf("%s: empty %s directive", pos, DirectivePrefix)
			}
			found[cg] = append(found[cg], directive{marker: parts[0], pos: pos})
		}
	}
	return found, nil
}

func (b *sourceBuilder) members(pkg *packages.Package) error {
	for _, f := range pkg.Syntax {
		found, err := parseDirectives(pkg.Fset, f)
		if err != nil {
			return err
		}

		for _, d := range f.Decls {
			switch d := d.(type) {
			case *ast.FuncDecl:
				dirs, ok := found[d.Doc]
				if !ok {
					continue
				}
				delete(found, d.Doc)
				fn, ok := pkg.TypesInfo.Defs[d.Name].(*types.Func)
				if !ok {
					return fmt.Errorf("%s: no type information for %s", dirs[0].pos, d.Name.Name)
				}
				if err := b.function(pkg, fn, markerNames(dirs), dirs[0].pos); err != nil {
					return err
				}

			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				dirs, ok := found[d.Doc]
				if !ok {
					continue
				}
				delete(found, d.Doc)
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					tn, _ := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
					te, ok := b.classes[tn]
					if !ok {
						return fmt.Errorf("%s: %s is not an exported struct or interface type", dirs[0].pos, ts.Name.Name)
					}
					te.Markers = append(te.Markers, markerNames(dirs)...)
				}
			}
		}

		for _, dirs := range found {
			d := dirs[0]
			return fmt.Errorf("%s: %s%s directive must be followed by a function or type declaration", d.pos, DirectivePrefix, d.marker)
		}
	}
	return nil
}

func markerNames(dirs []directive) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.marker
	}
	return names
}

func (b *sourceBuilder) function(pkg *packages.Package, fn *types.Func, markers []string, pos token.Position) error {
	sig := fn.Type().(*types.Signature)
	e := &decl.ExecutableElement{
		Name:      lowerFirst(fn.Name()),
		Kind:      decl.ExecMethod,
		Modifiers: []decl.Modifier{decl.ModPublic},
		Markers:   markers,
	}

	if recv := sig.Recv(); recv != nil {
		te, ok := b.receiverClass(recv.Type())
		if !ok {
			return fmt.Errorf("%s: method %s has a receiver that is not an exported struct or interface type", pos, fn.Name())
		}
		e.Enclosing = te
	} else if te, ok := b.constructed(pkg, fn, sig); ok {
		e.Name = te.Name
		e.Kind = decl.ExecConstructor
		e.Enclosing = te
	} else {
		e.Enclosing = b.pkgs[pkg.Types]
		e.Modifiers = append(e.Modifiers, decl.ModStatic)
	}

	for i := 0; i < sig.TypeParams().Len(); i++ {
		e.TypeParams = append(e.TypeParams, b.tvar(sig.TypeParams().At(i)))
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		v := params.At(i)
		t := v.Type()
		if sig.Variadic() && i == params.Len()-1 {
			e.Varargs = true
			t = t.(*types.Slice).Elem()
		}
		name := v.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}
		e.Params = append(e.Params, decl.Parameter{Name: name, Type: b.convert(t)})
	}

	if e.Kind == decl.ExecMethod {
		e.Return = b.result(sig.Results())
	}

	b.logger.Debug("mapped function",
		slog.String("func", fn.FullName()),
		slog.String("element", e.String()),
	)
	b.out.Executables = append(b.out.Executables, e)
	return nil
}

// constructed reports the class fn constructs: a function NewT whose only
// result, ignoring a trailing error, is T or *T for an exported type T of
// the same package.
func (b *sourceBuilder) constructed(pkg *packages.Package, fn *types.Func, sig *types.Signature) (*decl.TypeElement, bool) {
	name, ok := strings.CutPrefix(fn.Name(), "New")
	if !ok || sig.TypeParams().Len() > 0 {
		return nil, false
	}
	res := significantResults(sig.Results())
	if len(res) != 1 {
		return nil, false
	}
	t := res[0].Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() != pkg.Types || named.Obj().Name() != name {
		return nil, false
	}
	te, ok := b.classes[named.Obj()]
	return te, ok
}

func (b *sourceBuilder) receiverClass(t types.Type) (*decl.TypeElement, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	te, ok := b.classes[named.Origin().Obj()]
	return te, ok
}

// significantResults drops a trailing error result.
func significantResults(res *types.Tuple) []*types.Var {
	vars := make([]*types.Var, res.Len())
	for i := range vars {
		vars[i] = res.At(i)
	}
	if n := len(vars); n > 0 && isError(vars[n-1].Type()) {
		vars = vars[:n-1]
	}
	return vars
}

func (b *sourceBuilder) result(res *types.Tuple) decl.Type {
	vars := significantResults(res)
	switch len(vars) {
	case 0:
		return decl.Void()
	case 1:
		return b.convert(vars[0].Type())
	default:
		return decl.Unresolved(res.String(), "multiple results have no JVM equivalent")
	}
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// convert maps a Go type to a type mirror. Types with no JVM counterpart
// become decl.ErrorType.
func (b *sourceBuilder) convert(t types.Type) decl.Type {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		return b.basic(typ)

	case *types.Pointer:
		return b.convert(typ.Elem())

	case *types.Slice:
		return decl.Array(b.convert(typ.Elem()), 1)

	case *types.Array:
		return decl.Array(b.convert(typ.Elem()), 1)

	case *types.Map:
		return b.platform("java.util.Map", b.convert(typ.Key()), b.convert(typ.Elem()))

	case *types.Named:
		if te, ok := b.classes[typ.Origin().Obj()]; ok {
			var args []decl.Type
			for i := 0; i < typ.TypeArgs().Len(); i++ {
				args = append(args, b.convert(typ.TypeArgs().At(i)))
			}
			return te.Type(args...)
		}
		if isError(typ) {
			return b.platform("java.lang.Exception")
		}
		switch typ.Underlying().(type) {
		case *types.Basic, *types.Slice, *types.Array, *types.Map, *types.Pointer:
			if b.visiting[typ] {
				return decl.Unresolved(typ.String(), "recursive type")
			}
			b.visiting[typ] = true
			defer delete(b.visiting, typ)
			return b.convert(typ.Underlying())
		}
		return decl.Unresolved(typ.String(), "type is not bound to a JVM class")

	case *types.Interface:
		if typ.Empty() {
			return b.platform("java.lang.Object")
		}
		return decl.Unresolved(typ.String(), "anonymous interfaces have no JVM class")

	case *types.TypeParam:
		return b.tvar(typ)

	default:
		return decl.Unresolved(t.String(), "unsupported Go type")
	}
}

func (b *sourceBuilder) basic(t *types.Basic) decl.Type {
	switch t.Kind() {
	case types.Bool:
		return decl.Primitive(decl.KindBoolean)
	case types.Int8, types.Uint8:
		return decl.Primitive(decl.KindByte)
	case types.Uint16:
		return decl.Primitive(decl.KindChar)
	case types.Int16:
		return decl.Primitive(decl.KindShort)
	case types.Int32:
		return decl.Primitive(decl.KindInt)
	case types.Int, types.Int64:
		return decl.Primitive(decl.KindLong)
	case types.Float32:
		return decl.Primitive(decl.KindFloat)
	case types.Float64:
		return decl.Primitive(decl.KindDouble)
	case types.String:
		return b.platform("java.lang.String")
	default:
		return decl.Unresolved(t.Name(), "no JVM primitive for this Go type")
	}
}

func (b *sourceBuilder) platform(name string, args ...decl.Type) decl.Type {
	te, ok := b.out.Symbols.Lookup(name)
	if !ok {
		return decl.Unresolved(name, "missing from the platform table")
	}
	return te.Type(args...)
}

// tvar returns the type variable for tp, bounded by its constraint when the
// constraint is a bound interface type.
func (b *sourceBuilder) tvar(tp *types.TypeParam) *decl.TypeVariable {
	if tv, ok := b.tvars[tp]; ok {
		return tv
	}
	tv := &decl.TypeVariable{Name: tp.Obj().Name()}
	b.tvars[tp] = tv
	if bound := b.constraintBound(tp.Constraint()); bound != nil {
		tv.Bounds = []decl.Type{bound}
	}
	return tv
}

// constraintBound returns the JVM bound for a Go constraint. The built-in
// any and comparable, and constraints with type sets, have none.
func (b *sourceBuilder) constraintBound(c types.Type) decl.Type {
	switch typ := types.Unalias(c).(type) {
	case *types.Named:
		if te, ok := b.classes[typ.Origin().Obj()]; ok {
			var args []decl.Type
			for i := 0; i < typ.TypeArgs().Len(); i++ {
				args = append(args, b.convert(typ.TypeArgs().At(i)))
			}
			return te.Type(args...)
		}
	case *types.Interface:
		if typ.NumEmbeddeds() == 1 && typ.NumExplicitMethods() == 0 {
			return b.constraintBound(typ.EmbeddedType(0))
		}
	}
	return nil
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}
