package lookup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/broady/jvmsig/index"
)

func TestWrite(t *testing.T) {
	matches := []index.Match{
		{
			Class:     "p.C",
			Signature: "m(ZI)V",
			Found:     true,
			Member: index.Member{
				Kind:       index.KindFunction,
				Visibility: index.Internal,
				Inline:     true,
				Defaults:   []bool{false, true},
			},
		},
		{Class: "p.C", Signature: "other()V"},
	}

	var buf bytes.Buffer
	if missing := Write(&buf, matches); missing != 1 {
		t.Errorf("Write() missing = %d, want 1", missing)
	}
	out := buf.String()
	for _, want := range []string{"CLASS", "function internal inline default#1", "other()V"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
