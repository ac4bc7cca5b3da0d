package adapter

import (
	"errors"
	"testing"

	"github.com/broady/jvmsig/decl"
)

func TestJoinBinaryName(t *testing.T) {
	tests := []struct {
		pkg     string
		nesting []string
		want    string
	}{
		{"a.b", []string{"C"}, "a.b.C"},
		{"a.b", []string{"C", "Inner"}, "a.b.C$Inner"},
		{"p", []string{"Outer", "Middle", "Inner"}, "p.Outer$Middle$Inner"},
		{"", []string{"Top", "Nested"}, "Top$Nested"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := JoinBinaryName(tt.pkg, tt.nesting); got != tt.want {
				t.Errorf("JoinBinaryName(%q, %v) = %q, want %q", tt.pkg, tt.nesting, got, tt.want)
			}
		})
	}
}

func TestSourceToBinary(t *testing.T) {
	st := decl.NewPlatformTable()
	outer := st.MustDefine(&decl.TypeElement{Package: "p", Name: "Outer"})
	inner := st.MustDefine(outer.Nested("Inner", decl.ClassKindClass))
	st.MustDefine(inner.Nested("Leaf", decl.ClassKindClass))
	st.MustDefine(&decl.TypeElement{Name: "Root"})

	tests := []struct {
		in   string
		want string
	}{
		{"java.lang.String", "java.lang.String"},
		{"java.util.Map.Entry", "java.util.Map$Entry"},
		{"p.Outer", "p.Outer"},
		{"p.Outer.Inner", "p.Outer$Inner"},
		{"p.Outer.Inner.Leaf", "p.Outer$Inner$Leaf"},
		{"Root", "Root"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SourceToBinary(tt.in, st.IsType)
			if err != nil {
				t.Fatalf("SourceToBinary(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("SourceToBinary(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "p.Missing", "p..Outer", "java.util"} {
		if _, err := SourceToBinary(bad, st.IsType); !errors.Is(err, ErrUnresolved) {
			t.Errorf("SourceToBinary(%q) error = %v, want ErrUnresolved", bad, err)
		}
	}
}

func TestBinaryName_MatchesSourceToBinary(t *testing.T) {
	st := decl.NewPlatformTable()
	a := New()
	for _, te := range st.Types() {
		viaTable, err := SourceToBinary(te.QualifiedName(), st.IsType)
		if err != nil {
			t.Fatalf("SourceToBinary(%s): %v", te.QualifiedName(), err)
		}
		if got := a.BinaryName(te); got != viaTable {
			t.Errorf("BinaryName(%s) = %q, SourceToBinary = %q", te.QualifiedName(), got, viaTable)
		}
	}
}
