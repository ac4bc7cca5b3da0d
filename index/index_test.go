package index

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/jvmsig/adapter"
	"github.com/broady/jvmsig/decl"
	"github.com/broady/jvmsig/descriptor"
	"github.com/broady/jvmsig/internal/validation"
)

func TestLoadFile(t *testing.T) {
	ix, err := LoadFile(filepath.Join("testdata", "dataclass.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	classes := ix.Classes()
	want := []string{"com.example.test.DataClass", "com.example.test.DataClass$StaticInnerData"}
	if len(classes) != len(want) || classes[0] != want[0] || classes[1] != want[1] {
		t.Errorf("Classes() = %v, want %v", classes, want)
	}
	if ix.Len() != 6 {
		t.Errorf("Len() = %d, want 6", ix.Len())
	}

	tests := []struct {
		class string
		sig   string
		check func(t *testing.T, m Member)
	}{
		{"com.example.test.DataClass", "method1(ZI)V", func(t *testing.T, m Member) {
			if m.HasDefault(0) || !m.HasDefault(1) || m.HasDefault(2) {
				t.Errorf("defaults = %v", m.Defaults)
			}
		}},
		{"com.example.test.DataClass", "method2(C)B", func(t *testing.T, m Member) {
			if !m.Inline || m.Visibility != Internal {
				t.Errorf("member = %+v", m)
			}
		}},
		{"com.example.test.DataClass", "<init>(ILjava/lang/String;)V", func(t *testing.T, m Member) {
			if m.Kind != KindConstructor || m.ParamNullable(0) || !m.ParamNullable(1) {
				t.Errorf("member = %+v", m)
			}
		}},
		{"com.example.test.DataClass", "name:Ljava/lang/String;", func(t *testing.T, m Member) {
			if m.Kind != KindProperty || !m.ReturnNullable {
				t.Errorf("member = %+v", m)
			}
		}},
		{"com.example.test.DataClass$StaticInnerData", "items([Lcom/example/test/DataClass;)[I", func(t *testing.T, m Member) {
			if m.Visibility != Private {
				t.Errorf("visibility = %q", m.Visibility)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			m, ok := ix.Lookup(tt.class, tt.sig)
			if !ok {
				t.Fatalf("Lookup(%s, %s) not found", tt.class, tt.sig)
			}
			tt.check(t, m)
		})
	}

	if _, ok := ix.Lookup("com.example.test.DataClass", "method1(IZ)V"); ok {
		t.Error("Lookup matched a signature with reordered parameters")
	}
	if _, ok := ix.Lookup("com.example.Missing", "method1(ZI)V"); ok {
		t.Error("Lookup matched an unknown class")
	}
	if meta, ok := ix.Class("com.example.test.DataClass"); !ok || meta.Source != "DataClass.kt" {
		t.Errorf("Class() = %+v, %v", meta, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"unknown field",
			"classes:\n  - class: p.C\n    memberz: []\n",
			"memberz",
		},
		{
			"missing class",
			"classes:\n  - members:\n      - signature: m()V\n        kind: function\n",
			"classes[0].class: required",
		},
		{
			"internal name for class",
			"classes:\n  - class: p/C\n",
			"classes[0].class",
		},
		{
			"bad kind",
			"classes:\n  - class: p.C\n    members:\n      - signature: m()V\n        kind: method\n",
			"must be one of",
		},
		{
			"bad descriptor",
			"classes:\n  - class: p.C\n    members:\n      - signature: m(Q)V\n        kind: function\n",
			"m(Q)V",
		},
		{
			"constructor name",
			"classes:\n  - class: p.C\n    members:\n      - signature: C()V\n        kind: constructor\n",
			"<init>",
		},
		{
			"nullable length",
			"classes:\n  - class: p.C\n    members:\n      - signature: m(II)V\n        kind: function\n        nullable: [true]\n",
			"1 entries for 2 parameters",
		},
		{
			"property form",
			"classes:\n  - class: p.C\n    members:\n      - signature: x()I\n        kind: property\n",
			"want name:descriptor",
		},
		{
			"duplicate member",
			"classes:\n  - class: p.C\n    members:\n      - {signature: m()V, kind: function}\n      - {signature: m()V, kind: function}\n",
			"duplicate member",
		},
		{
			"angle bracket in parameter type",
			"classes:\n  - class: p.C\n    members:\n      - signature: m(Lp/A<B;)V\n        kind: function\n",
			"m(Lp/A<B;)V",
		},
		{
			"angle bracket in property type",
			"classes:\n  - class: p.C\n    members:\n      - signature: x:[Lp/Gen>;\n        kind: property\n",
			"property signature",
		},
		{
			"reserved member name",
			"classes:\n  - class: p.C\n    members:\n      - signature: <foo>()V\n        kind: function\n",
			"reserved for <init>",
		},
		{
			"duplicate class",
			"classes:\n  - class: p.C\n  - class: p.C\n",
			"duplicate class",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ValidationErrorType(t *testing.T) {
	_, err := Load(strings.NewReader("classes:\n  - source: x.kt\n"))
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want *validation.Error", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	ix, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load(empty) error: %v", err)
	}
	if len(ix.Classes()) != 0 {
		t.Errorf("Classes() = %v, want none", ix.Classes())
	}
}

func TestCorrelator(t *testing.T) {
	ix, err := LoadFile(filepath.Join("testdata", "dataclass.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	st := decl.NewPlatformTable()
	data := st.MustDefine(&decl.TypeElement{Package: "com.example.test", Name: "DataClass"})
	static := st.MustDefine(data.Nested("StaticInnerData", decl.ClassKindClass))
	str, _ := st.Lookup("java.lang.String")

	c := NewCorrelator(adapter.New(), ix, 0, nil)

	method1 := &decl.ExecutableElement{
		Name: "method1", Kind: decl.ExecMethod, Enclosing: data,
		Params: []decl.Parameter{{Name: "b", Type: decl.Primitive(decl.KindBoolean)}, {Name: "i", Type: decl.Primitive(decl.KindInt)}},
		Return: decl.Void(),
	}
	ctor := &decl.ExecutableElement{
		Name: "DataClass", Kind: decl.ExecConstructor, Enclosing: data,
		Params: []decl.Parameter{{Name: "n", Type: decl.Primitive(decl.KindInt)}, {Name: "s", Type: str.Type()}},
	}
	items := &decl.ExecutableElement{
		Name: "items", Kind: decl.ExecMethod, Enclosing: static,
		Params: []decl.Parameter{{Name: "d", Type: data.Type()}},
		Return: decl.Array(decl.Primitive(decl.KindInt), 1), Varargs: true,
	}
	missing := &decl.ExecutableElement{Name: "other", Kind: decl.ExecMethod, Enclosing: data, Return: decl.Void()}

	tests := []struct {
		name  string
		elem  *decl.ExecutableElement
		sig   string
		found bool
	}{
		{"method", method1, "method1(ZI)V", true},
		{"constructor", ctor, "<init>(ILjava/lang/String;)V", true},
		{"varargs nested", items, "items([Lcom/example/test/DataClass;)[I", true},
		{"absent", missing, "other()V", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 2 {
				m, err := c.Correlate(tt.elem)
				if err != nil {
					t.Fatalf("Correlate() error: %v", err)
				}
				if m.Signature != tt.sig || m.Found != tt.found {
					t.Errorf("Correlate() = %+v, want signature %q found %v", m, tt.sig, tt.found)
				}
			}
		})
	}

	field, err := c.CorrelateField(&decl.VariableElement{Name: "name", Type: str.Type(), Enclosing: data})
	if err != nil || !field.Found || !field.Member.ReturnNullable {
		t.Errorf("CorrelateField() = %+v, %v", field, err)
	}

	if _, err := c.Correlate(&decl.ExecutableElement{Name: "free"}); !errors.Is(err, ErrNoEnclosing) {
		t.Errorf("Correlate(no enclosing) error = %v, want ErrNoEnclosing", err)
	}

	bad := &decl.ExecutableElement{Name: "bad", Enclosing: data, Return: decl.Unresolved("Gone", "")}
	var rerr *adapter.ResolutionError
	if _, err := c.Correlate(bad); !errors.As(err, &rerr) || rerr.Index != adapter.ReturnIndex {
		t.Errorf("Correlate(unresolved) error = %v, want ResolutionError at return", err)
	}
}

func TestNew_MatchesEncoder(t *testing.T) {
	sig := descriptor.MethodSignature("f", descriptor.MustMethod(descriptor.Void(), descriptor.ArrayOf(descriptor.Long(), 2)))
	ix, err := New(ClassMetadata{Class: "p.C", Members: []Member{{Signature: sig, Kind: KindFunction}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ix.Lookup("p.C", "f([[J)V"); !ok {
		t.Errorf("Lookup(f([[J)V) failed; index keyed by %q", sig)
	}
}

func TestNew_StoresEncodedSignatures(t *testing.T) {
	members := []Member{
		{Signature: "count:J", Kind: KindProperty},
		{Signature: "m([Ljava/lang/String;)[[I", Kind: KindFunction},
	}
	ix, err := New(ClassMetadata{Class: "p.C", Members: members})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range members {
		got, ok := ix.Lookup("p.C", m.Signature)
		if !ok {
			t.Fatalf("Lookup(%q) failed", m.Signature)
		}
		var want string
		if name, desc, isField := strings.Cut(m.Signature, ":"); isField {
			typ, err := descriptor.ParseField(desc)
			if err != nil {
				t.Fatal(err)
			}
			want = descriptor.FieldSignature(name, typ)
		} else {
			name, method, err := descriptor.ParseMember(m.Signature)
			if err != nil {
				t.Fatal(err)
			}
			want = descriptor.MethodSignature(name, method)
		}
		if got.Signature != want {
			t.Errorf("stored signature = %q, want %q", got.Signature, want)
		}
	}
}
