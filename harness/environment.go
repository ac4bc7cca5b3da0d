package harness

import (
	"fmt"
	"log/slog"

	"github.com/gorilla/schema"

	"github.com/broady/jvmsig/adapter"
	"github.com/broady/jvmsig/decl"
)

var optionsDecoder = schema.NewDecoder()

func init() {
	optionsDecoder.IgnoreUnknownKeys(true)
}

// Environment is the processing environment shared by every pass: the
// descriptor adapter, the host symbol table, a logger and the processor
// options (the equivalent of -Akey=value flags).
type Environment struct {
	Adapter *adapter.Adapter
	Symbols *decl.SymbolTable
	Logger  *slog.Logger
	Options map[string]string
}

// NewEnvironment returns an Environment with a default adapter, a platform
// symbol table and the default logger.
func NewEnvironment(options map[string]string) *Environment {
	return &Environment{
		Adapter: adapter.New(),
		Symbols: decl.NewPlatformTable(),
		Logger:  slog.Default(),
		Options: options,
	}
}

// Log returns the environment logger, or slog.Default when unset.
func (e *Environment) Log() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// DecodeOptions decodes the processor options into dst, a pointer to a
// struct whose fields carry `schema:"name"` tags. Unknown options are
// ignored.
//
//	var opts struct {
//		Verbose bool   `schema:"verbose"`
//		Prefix  string `schema:"prefix"`
//	}
//	err := env.DecodeOptions(&opts)
func (e *Environment) DecodeOptions(dst any) error {
	values := make(map[string][]string, len(e.Options))
	for k, v := range e.Options {
		values[k] = []string{v}
	}
	if err := optionsDecoder.Decode(dst, values); err != nil {
		return fmt.Errorf("decode processor options: %w", err)
	}
	return nil
}
