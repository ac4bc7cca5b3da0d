package harness

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/jvmsig/decl"
)

func TestDriver_Run(t *testing.T) {
	dummy := &decl.TypeElement{Package: "com.example", Name: "Dummy"}
	m := &decl.ExecutableElement{
		Name:      "method1",
		Kind:      decl.ExecMethod,
		Enclosing: dummy,
		Params: []decl.Parameter{
			{Name: "a", Type: decl.Primitive(decl.KindBoolean)},
			{Name: "b", Type: decl.Primitive(decl.KindInt)},
		},
		Return:  decl.Void(),
		Markers: []string{marker},
	}
	unmarked := &decl.ExecutableElement{Name: "skip", Enclosing: dummy, Return: decl.Void()}

	var sigs []string
	var sawFinal bool
	p, err := NewBuilder().
		ForMarkers(marker, "com.example.Unused").
		NextRound(func(inv Invocation) bool {
			if len(inv.Round.Markers) != 1 || inv.Round.Markers[0] != marker {
				t.Errorf("round markers = %v, want [%s]", inv.Round.Markers, marker)
			}
			for _, e := range inv.Round.Executables() {
				sig, err := inv.Env.Adapter.Signature(e)
				if err != nil {
					t.Errorf("Signature(%s): %v", e, err)
					continue
				}
				sigs = append(sigs, sig)
			}
			return true
		}).
		NextRound(func(inv Invocation) bool {
			sawFinal = inv.Round.Final
			return false
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	d := &Driver{Processor: p, Env: NewEnvironment(nil)}
	tr, err := d.Run(context.Background(), []RoundInput{{Elements: []decl.Element{m, unmarked}}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(sigs) != 1 || sigs[0] != "method1(ZI)V" {
		t.Errorf("signatures = %v, want [method1(ZI)V]", sigs)
	}
	if !sawFinal {
		t.Error("second pass was not marked final")
	}
	if len(tr.Passes) != 2 {
		t.Fatalf("len(Passes) = %d, want 2", len(tr.Passes))
	}
	if tr.Passes[0].Elements != 2 || !tr.Passes[0].Claimed {
		t.Errorf("pass 0 = %+v", tr.Passes[0])
	}
	if tr.Passes[1].Claimed || !tr.Passes[1].Final {
		t.Errorf("pass 1 = %+v", tr.Passes[1])
	}
	if tr.Claimed() {
		t.Error("Claimed() = true with an unclaimed pass")
	}
}

func TestDriver_ExhaustedHandlersClaim(t *testing.T) {
	p, err := NewBuilder().ForMarkers(marker).NextRound(func(Invocation) bool { return true }).Build()
	if err != nil {
		t.Fatal(err)
	}
	d := &Driver{Processor: p, SkipFinal: true}
	tr, err := d.Run(context.Background(), make([]RoundInput, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Passes) != 3 || !tr.Claimed() {
		t.Errorf("transcript = %+v, want 3 claimed passes", tr.Passes)
	}
	for i, pr := range tr.Passes {
		if pr.Pass != i || pr.Final {
			t.Errorf("pass %d = %+v", i, pr)
		}
	}
}

func TestDriver_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := NewBuilder().
		ForMarkers(marker).
		NextRound(func(Invocation) bool {
			cancel()
			return true
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	tr, err := (&Driver{Processor: p}).Run(ctx, make([]RoundInput, 2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(tr.Passes) != 1 {
		t.Errorf("completed passes = %d, want 1", len(tr.Passes))
	}
}

func TestDriver_NoProcessor(t *testing.T) {
	if _, err := (&Driver{}).Run(context.Background(), nil); err == nil {
		t.Error("Run() with no processor succeeded")
	}
}

func TestEnvironment_DecodeOptions(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"verbose": "true",
		"prefix":  "gen",
		"depth":   "3",
		"unknown": "ignored",
	})
	var opts struct {
		Verbose bool   `schema:"verbose"`
		Prefix  string `schema:"prefix"`
		Depth   int    `schema:"depth"`
	}
	if err := env.DecodeOptions(&opts); err != nil {
		t.Fatalf("DecodeOptions() error: %v", err)
	}
	if !opts.Verbose || opts.Prefix != "gen" || opts.Depth != 3 {
		t.Errorf("decoded = %+v", opts)
	}

	bad := NewEnvironment(map[string]string{"depth": "deep"})
	if err := bad.DecodeOptions(&opts); err == nil {
		t.Error("DecodeOptions() accepted a non-integer depth")
	}
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h := LoggingHandler(logger, func(Invocation) bool { return false })
	if h(Invocation{Round: Round{Pass: 4}}) {
		t.Error("LoggingHandler changed the handler result")
	}

	out := buf.String()
	for _, want := range []string{"round started", "round completed", `"pass":4`, `"claimed":false`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}
