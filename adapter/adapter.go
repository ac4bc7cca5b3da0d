// Package adapter maps host declarations (package decl) onto the erased
// inputs of the descriptor encoder.
//
// It owns everything environment-dependent: type erasure of generic
// parameters, conversion from source-level nested names to $-joined binary
// names, and normalisation of variadic parameters into arrays. The
// descriptor package stays pure.
package adapter

import (
	"errors"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/broady/jvmsig/decl"
	"github.com/broady/jvmsig/descriptor"
)

// JVM names for the special executable kinds.
const (
	ConstructorName = "<init>"
	StaticInitName  = "<clinit>"
)

const defaultCacheSize = 4096

// Adapter converts declarations to descriptors. It is safe for concurrent
// use; its only state is a bounded cache of binary names.
type Adapter struct {
	objectType string
	logger     *slog.Logger
	names      *lru.Cache[*decl.TypeElement, string]
}

// Option configures an Adapter.
type Option func(*config)

type config struct {
	objectType string
	cacheSize  int
	logger     *slog.Logger
}

// WithObjectType sets the binary name unbounded type variables erase to.
// The default is java.lang.Object.
func WithObjectType(binaryName string) Option {
	return func(c *config) { c.objectType = binaryName }
}

// WithCacheSize sets the number of binary names kept in the cache.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New returns an Adapter.
func New(opts ...Option) *Adapter {
	cfg := config{
		objectType: descriptor.ObjectName,
		cacheSize:  defaultCacheSize,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.cacheSize <= 0 {
		cfg.cacheSize = defaultCacheSize
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	names, err := lru.New[*decl.TypeElement, string](cfg.cacheSize)
	if err != nil {
		// Only returned for a non-positive size, which is excluded above.
		panic(err)
	}
	return &Adapter{
		objectType: cfg.objectType,
		logger:     cfg.logger,
		names:      names,
	}
}

// TypeOf erases t to a descriptor type.
//
// Declared types drop their type arguments. A type variable erases to the
// erasure of its leftmost bound, or to the object type when unbounded.
// Wildcards erase like their extends bound. Error types and nil fail with a
// *ResolutionError whose Index is ReturnIndex.
func (a *Adapter) TypeOf(t decl.Type) (descriptor.Type, error) {
	dt, terr := a.erase(t, nil)
	if terr != nil {
		return nil, terr.at(describe(t), ReturnIndex)
	}
	return dt, nil
}

func describe(t decl.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// erase is the recursive worker. seen tracks the type variables on the
// current bound chain.
func (a *Adapter) erase(t decl.Type, seen []*decl.TypeVariable) (descriptor.Type, *typeError) {
	switch typ := t.(type) {
	case nil:
		return nil, &typeError{name: "<nil>", err: ErrUnresolved}

	case *decl.PrimitiveType:
		if !typ.K.IsPrimitive() {
			return nil, &typeError{name: typ.String(), err: ErrUnresolved}
		}
		return descriptor.PrimitiveOf(primitiveKinds[typ.K]), nil

	case *decl.DeclaredType:
		if typ.Element == nil {
			return nil, &typeError{name: typ.String(), err: ErrUnresolved}
		}
		return descriptor.Ref(a.BinaryName(typ.Element)), nil

	case *decl.ArrayType:
		elem, err := a.erase(typ.Component, seen)
		if err != nil {
			return nil, err
		}
		if elem.Kind() == descriptor.KindVoid {
			return nil, &typeError{name: typ.String(), err: errors.New("void array component")}
		}
		return descriptor.ArrayOf(elem, 1), nil

	case *decl.TypeVariable:
		for _, s := range seen {
			if s == typ {
				return nil, &typeError{name: typ.Name, err: ErrCyclicBound}
			}
		}
		if len(typ.Bounds) == 0 {
			return descriptor.Ref(a.objectType), nil
		}
		return a.erase(typ.Bounds[0], append(seen, typ))

	case *decl.WildcardType:
		if typ.Extends == nil {
			return descriptor.Ref(a.objectType), nil
		}
		return a.erase(typ.Extends, seen)

	case *decl.ErrorType:
		return nil, &typeError{name: typ.Name, err: ErrUnresolved}

	default:
		return nil, &typeError{name: describe(t), err: ErrUnresolved}
	}
}

var primitiveKinds = map[decl.TypeKind]descriptor.Kind{
	decl.KindBoolean: descriptor.KindBoolean,
	decl.KindByte:    descriptor.KindByte,
	decl.KindChar:    descriptor.KindChar,
	decl.KindShort:   descriptor.KindShort,
	decl.KindInt:     descriptor.KindInt,
	decl.KindLong:    descriptor.KindLong,
	decl.KindFloat:   descriptor.KindFloat,
	decl.KindDouble:  descriptor.KindDouble,
	decl.KindVoid:    descriptor.KindVoid,
}

// Method builds the erased method shape of e. Parameters keep declaration
// order; a trailing varargs parameter becomes an array of one more
// dimension. Constructors and static initialisers return void.
func (a *Adapter) Method(e *decl.ExecutableElement) (descriptor.Method, error) {
	name := e.String()
	params := make([]descriptor.Type, len(e.Params))
	for i, p := range e.Params {
		dt, terr := a.erase(p.Type, nil)
		if terr != nil {
			a.logger.Debug("unresolved parameter type",
				slog.String("element", name),
				slog.Int("index", i),
				slog.String("type", terr.name),
			)
			return descriptor.Method{}, terr.at(name, i)
		}
		if e.Varargs && i == len(e.Params)-1 {
			if dt.Kind() == descriptor.KindVoid {
				return descriptor.Method{}, (&typeError{name: describe(p.Type), err: errors.New("void varargs element")}).at(name, i)
			}
			dt = descriptor.ArrayOf(dt, 1)
		}
		params[i] = dt
	}

	var ret descriptor.Type
	switch e.Kind {
	case decl.ExecConstructor, decl.ExecStaticInit:
		ret = descriptor.Void()
	default:
		dt, terr := a.erase(e.Return, nil)
		if terr != nil {
			a.logger.Debug("unresolved return type",
				slog.String("element", name),
				slog.String("type", terr.name),
			)
			return descriptor.Method{}, terr.at(name, ReturnIndex)
		}
		ret = dt
	}

	return descriptor.NewMethod(ret, params...)
}

// Descriptor returns the method descriptor of e, such as "(ZI)V".
func (a *Adapter) Descriptor(e *decl.ExecutableElement) (string, error) {
	m, err := a.Method(e)
	if err != nil {
		return "", err
	}
	return descriptor.Assemble(m), nil
}

// JVMName returns the name the JVM uses for e: <init> for constructors,
// <clinit> for static initialisers, the simple name otherwise.
func JVMName(e *decl.ExecutableElement) string {
	switch e.Kind {
	case decl.ExecConstructor:
		return ConstructorName
	case decl.ExecStaticInit:
		return StaticInitName
	default:
		return e.Name
	}
}

// Signature returns the member signature of e: JVM name followed by the
// method descriptor ("emptyMethod()V").
func (a *Adapter) Signature(e *decl.ExecutableElement) (string, error) {
	m, err := a.Method(e)
	if err != nil {
		return "", err
	}
	return descriptor.MethodSignature(JVMName(e), m), nil
}

// FieldSignature returns "name:descriptor" for a field.
func (a *Adapter) FieldSignature(v *decl.VariableElement) (string, error) {
	dt, terr := a.erase(v.Type, nil)
	if terr != nil {
		return "", terr.at(v.Name, FieldIndex)
	}
	if err := descriptor.Validate(dt); err != nil {
		return "", err
	}
	return descriptor.FieldSignature(v.Name, dt), nil
}

// ClassDescriptor returns the reference descriptor of te ("Lp/Outer$Inner;").
func (a *Adapter) ClassDescriptor(te *decl.TypeElement) string {
	return descriptor.Encode(descriptor.Ref(a.BinaryName(te)))
}
