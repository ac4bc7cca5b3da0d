package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/broady/jvmsig/index"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"descriptors.txt", false},
		{"out/descriptors.yaml", false},
		{"a..b.txt", false},
		{"", true},
		{"/abs.txt", true},
		{"C:/x.txt", true},
		{"../up.txt", true},
		{"a/../b.txt", true},
		{"./a.txt", true},
		{"a//b.txt", true},
		{"a/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestDirSink(t *testing.T) {
	root := t.TempDir()
	s := NewDirSink(root)
	ctx := context.Background()

	if err := s.Put(ctx, "nested/descriptors.txt", []byte("one\n")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := s.Put(ctx, "nested/descriptors.txt", []byte("two\n")); err != nil {
		t.Fatalf("Put() overwrite error: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "nested", "descriptors.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two\n" {
		t.Errorf("content = %q, want %q", got, "two\n")
	}

	leftovers, _ := filepath.Glob(filepath.Join(root, "nested", ".jvmsig-*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}

	s.Overwrite = false
	if err := s.Put(ctx, "nested/descriptors.txt", []byte("three\n")); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Put() without overwrite error = %v, want already exists", err)
	}
	if err := s.Put(ctx, "fresh.txt", []byte("x")); err != nil {
		t.Errorf("Put() new file without overwrite error: %v", err)
	}

	if err := s.Put(ctx, "../escape.txt", nil); err == nil {
		t.Error("Put() accepted a path outside root")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Put(cancelled, "late.txt", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() cancelled error = %v", err)
	}
}

func TestDirSink_Mode(t *testing.T) {
	root := t.TempDir()
	s := &DirSink{Root: root, Mode: 0600, Overwrite: true}
	if err := s.Put(context.Background(), "descriptors.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(filepath.Join(root, "descriptors.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 600", perm)
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := filepath.ToSlash(filepath.Join("f", string(rune('a'+i))+".txt"))
			if err := s.Put(context.Background(), name, []byte{byte(i)}); err != nil {
				t.Errorf("Put(%s): %v", name, err)
			}
		}(i)
	}
	wg.Wait()
	if n := len(s.Names()); n != 20 {
		t.Errorf("stored %d files, want 20", n)
	}

	content := []byte("abc")
	if err := s.Put(context.Background(), "x.txt", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'z'
	if got := s.Get("x.txt"); string(got) != "abc" {
		t.Errorf("Get() = %q, want a copy unaffected by later writes", got)
	}
	if s.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
}

func sampleReport() *Report {
	r := &Report{}
	r.Add(Entry{Class: "p.B", Signature: "m()V", Kind: "function", Element: "p.B.m()"})
	r.Add(Entry{Class: "p.A", Signature: "<init>(I)V", Kind: "constructor", Element: "p.A.A(int)"})
	r.Add(Entry{Class: "p.A", Element: "p.A.bad(Missing)", Err: errors.New("unresolved")})
	r.Add(Entry{Class: "p.A", Signature: "f:J", Kind: "property", Element: "f"})
	r.Sort()
	return r
}

func TestReport_Write(t *testing.T) {
	r := sampleReport()
	if n := len(r.Failed()); n != 1 {
		t.Errorf("Failed() = %d entries, want 1", n)
	}

	var lines bytes.Buffer
	if err := r.Write(&lines, FormatLines); err != nil {
		t.Fatal(err)
	}
	want := "p.A <init>(I)V\np.A f:J\np.B m()V\n"
	if lines.String() != want {
		t.Errorf("lines = %q, want %q", lines.String(), want)
	}

	var table bytes.Buffer
	if err := r.Write(&table, FormatTable); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(table.String(), "CLASS") || !strings.Contains(table.String(), "p.A.A(int)") {
		t.Errorf("table =\n%s", table.String())
	}

	if err := r.Write(&bytes.Buffer{}, Format("xml")); err == nil {
		t.Error("Write() accepted an unknown format")
	}
}

func TestReport_YAMLLoadsAsIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().Write(&buf, FormatYAML); err != nil {
		t.Fatal(err)
	}
	ix, err := index.Load(&buf)
	if err != nil {
		t.Fatalf("index.Load(skeleton) error: %v\n%s", err, buf.String())
	}
	if _, ok := ix.Lookup("p.A", "<init>(I)V"); !ok {
		t.Error("skeleton lost the constructor")
	}
	if _, ok := ix.Lookup("p.A", "f:J"); !ok {
		t.Error("skeleton lost the property")
	}
	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
}
