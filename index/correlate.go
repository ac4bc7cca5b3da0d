package index

import (
	"errors"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/broady/jvmsig/adapter"
	"github.com/broady/jvmsig/decl"
)

// ErrNoEnclosing is returned when a declaration has no enclosing type and
// so no class to look up.
var ErrNoEnclosing = errors.New("index: declaration has no enclosing type")

// Match is the result of correlating one declaration.
type Match struct {
	// Class is the binary name of the enclosing type.
	Class string

	// Signature is the computed JVM member signature.
	Signature string

	Member Member

	// Found reports whether the index holds metadata for Signature.
	Found bool
}

// Correlator finds the metadata for declarations by computing their JVM
// member signatures. It is safe for concurrent use.
type Correlator struct {
	adapter *adapter.Adapter
	index   *Index
	logger  *slog.Logger
	sigs    *lru.Cache[*decl.ExecutableElement, string]
}

// NewCorrelator returns a Correlator over ix. Computed signatures are
// cached for up to cacheSize declarations.
func NewCorrelator(a *adapter.Adapter, ix *Index, cacheSize int, logger *slog.Logger) *Correlator {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	sigs, err := lru.New[*decl.ExecutableElement, string](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Correlator{adapter: a, index: ix, logger: logger, sigs: sigs}
}

// Correlate computes the signature of e and looks it up under e's
// enclosing class. A declaration without metadata is not an error; Found
// is false.
func (c *Correlator) Correlate(e *decl.ExecutableElement) (Match, error) {
	if e.Enclosing == nil {
		return Match{}, ErrNoEnclosing
	}
	sig, ok := c.sigs.Get(e)
	if !ok {
		var err error
		sig, err = c.adapter.Signature(e)
		if err != nil {
			return Match{}, err
		}
		c.sigs.Add(e, sig)
	}
	return c.lookup(c.adapter.BinaryName(e.Enclosing), sig), nil
}

// CorrelateField looks up the property metadata for field v.
func (c *Correlator) CorrelateField(v *decl.VariableElement) (Match, error) {
	if v.Enclosing == nil {
		return Match{}, ErrNoEnclosing
	}
	sig, err := c.adapter.FieldSignature(v)
	if err != nil {
		return Match{}, err
	}
	return c.lookup(c.adapter.BinaryName(v.Enclosing), sig), nil
}

func (c *Correlator) lookup(class, sig string) Match {
	m, found := c.index.Lookup(class, sig)
	if !found {
		c.logger.Debug("no metadata",
			slog.String("class", class),
			slog.String("signature", sig),
		)
	}
	return Match{Class: class, Signature: sig, Member: m, Found: found}
}
