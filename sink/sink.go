// Package sink writes descriptor reports to their destinations.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink stores named report files. Implementations are safe for concurrent
// use.
type Sink interface {
	Put(ctx context.Context, name string, content []byte) error
}

// DirSink writes files under a directory.
type DirSink struct {
	Root string

	// Mode is the file permission mode; zero means 0644.
	Mode os.FileMode

	// Overwrite allows replacing existing files.
	Overwrite bool
}

// NewDirSink returns a DirSink over root that overwrites existing files.
func NewDirSink(root string) *DirSink {
	return &DirSink{Root: root, Mode: 0644, Overwrite: true}
}

// Put writes content to name under Root, creating parent directories.
// Readers never observe a partial file: the content is staged in a
// temporary file next to the target and moved into place.
func (s *DirSink) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("invalid name %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(name)
	if err != nil {
		return err
	}

	tmpPath, err := s.stage(filepath.Dir(target), content)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tmpPath, target, name)
}

// resolve maps name to a path under Root.
func (s *DirSink) resolve(name string) (string, error) {
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	target := filepath.Join(absRoot, filepath.FromSlash(name))
	if !strings.HasPrefix(target, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("name escapes root: %q", name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}
	return target, nil
}

// stage writes content to a fresh temporary file in dir with the sink's
// mode and returns its path.
func (s *DirSink) stage(dir string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, ".jvmsig-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("set file mode: %w", err)
	}
	return tmp.Name(), nil
}

// commit moves the staged file to target. Without Overwrite it links
// instead, which fails when target exists.
func (s *DirSink) commit(tmpPath, target, name string) error {
	if s.Overwrite {
		if err := os.Rename(tmpPath, target); err != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}
	err := os.Link(tmpPath, target)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("file already exists: %q", name)
	}
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// MemorySink keeps files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Put stores a copy of content under name.
func (s *MemorySink) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("invalid name %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), content...)
	return nil
}

// Get returns a copy of the named file, or nil.
func (s *MemorySink) Get(name string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[name]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// Names returns the stored file names in no particular order.
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	return names
}

// ValidateName checks that name is a clean, relative, slash-separated path
// with no parent components.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name is empty")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return errors.New("absolute paths not allowed")
	}
	if len(name) >= 2 && name[1] == ':' {
		return errors.New("absolute paths not allowed")
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if clean := filepath.ToSlash(filepath.Clean(name)); clean != name {
		return fmt.Errorf("name is not clean (expected %q)", clean)
	}
	return nil
}
