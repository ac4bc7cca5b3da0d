package harness

import (
	"errors"
	"testing"

	"github.com/broady/jvmsig/decl"
)

const marker = "com.example.Marker"

func TestBuild_Errors(t *testing.T) {
	noop := func(Invocation) bool { return true }
	tests := []struct {
		name    string
		builder *Builder
		want    error
	}{
		{"empty", NewBuilder(), ErrNoMarkers},
		{"no markers", NewBuilder().NextRound(noop), ErrNoMarkers},
		{"no handlers", NewBuilder().ForMarkers(marker), ErrNoHandlers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.builder.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
			if p != nil {
				t.Errorf("Build() returned a processor alongside an error")
			}
		})
	}
}

func TestBuilder_ForMarkersDedup(t *testing.T) {
	p, err := NewBuilder().
		ForMarkers("a", "b").
		ForMarkers("b", "c").
		NextRound(func(Invocation) bool { return true }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	got := p.SupportedMarkers()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("SupportedMarkers() = %v, want [a b c]", got)
	}
}

func TestProcess_HandlerOrderAndFallback(t *testing.T) {
	var calls []int
	record := func(id int, result bool) Handler {
		return func(inv Invocation) bool {
			calls = append(calls, id)
			if inv.Processor == nil {
				t.Errorf("handler %d: nil processor", id)
			}
			return result
		}
	}

	p, err := NewBuilder().
		ForMarkers(marker).
		NextRound(record(0, false)).
		NextRound(record(1, true)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	want := []bool{false, true, true, true}
	for pass, w := range want {
		if got := p.Process(Round{Pass: pass}); got != w {
			t.Errorf("Process(pass %d) = %v, want %v", pass, got, w)
		}
	}
	if len(calls) != 2 || calls[0] != 0 || calls[1] != 1 {
		t.Errorf("handler calls = %v, want [0 1]", calls)
	}
	if p.Passes() != len(want) {
		t.Errorf("Passes() = %d, want %d", p.Passes(), len(want))
	}
}

func TestStep(t *testing.T) {
	p, err := NewBuilder().ForMarkers(marker).NextRound(func(Invocation) bool { return false }).Build()
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		pass int
		ok   bool
	}{{-1, false}, {0, true}, {1, false}} {
		if _, ok := p.Step(tt.pass); ok != tt.ok {
			t.Errorf("Step(%d) ok = %v, want %v", tt.pass, ok, tt.ok)
		}
	}
	if p.Passes() != 0 {
		t.Errorf("Step advanced the pass counter to %d", p.Passes())
	}
}

func TestBuilderReuse(t *testing.T) {
	b := NewBuilder().ForMarkers(marker).NextRound(func(Invocation) bool { return false })
	first, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	b.NextRound(func(Invocation) bool { return false })

	first.Process(Round{})
	if !first.Process(Round{}) {
		t.Error("handlers added after Build leaked into the built processor")
	}
}

func TestRound_MarkedWith(t *testing.T) {
	a := &decl.ExecutableElement{Name: "a", Markers: []string{marker}}
	b := &decl.ExecutableElement{Name: "b"}
	c := &decl.VariableElement{Name: "c", Markers: []string{"other", marker}}
	r := Round{Elements: []decl.Element{a, b, c}, Markers: []string{marker}}

	got := r.MarkedWith(marker)
	if len(got) != 2 || got[0] != decl.Element(a) || got[1] != decl.Element(c) {
		t.Errorf("MarkedWith() = %v, want [a c]", got)
	}
	if got := r.MarkedWith("missing"); len(got) != 0 {
		t.Errorf("MarkedWith(missing) = %v, want empty", got)
	}

	exec := r.Executables()
	if len(exec) != 1 || exec[0] != a {
		t.Errorf("Executables() = %v, want [a]", exec)
	}
}
