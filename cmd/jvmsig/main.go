package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/broady/jvmsig/cmd/jvmsig/internal/describe"
	"github.com/broady/jvmsig/cmd/jvmsig/internal/lookup"
)

type CLI struct {
	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"warn" env:"JVMSIG_LOG_LEVEL"`
	LogFormat string `help:"Log format." enum:"text,json" default:"text" env:"JVMSIG_LOG_FORMAT"`

	Version  VersionCmd           `cmd:"" help:"Print version information."`
	Describe describe.ManifestCmd `cmd:"" help:"Print JVM signatures of the marked members of declaration manifests."`
	Go       describe.GoCmd       `cmd:"" name:"go" help:"Print JVM signatures of Go functions marked with //jvm: directives."`
	Lookup   lookup.Cmd           `cmd:"" help:"Correlate marked members with compiler metadata."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("jvmsig"),
		kong.Description("Compute JVM descriptors and member signatures for declarations."),
		kong.UsageOnError(),
	)

	logger := newLogger(os.Stderr, cli.LogLevel, cli.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(logger)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
