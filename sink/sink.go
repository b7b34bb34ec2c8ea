// Package sink provides output destinations for generated TypeScript files.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Sink receives generated file content.
// Implementations must be safe for concurrent calls: the generator writes
// one file per contract from parallel workers.
type Sink interface {
	// WriteFile stores content at a slash-separated relative path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Dir writes files below a directory on the local filesystem.
type Dir struct {
	// Root is the output directory. It is created on first write.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// NoClobber makes WriteFile fail when the file already exists.
	NoClobber bool
}

// NewDir returns a Dir sink that overwrites existing files under root.
func NewDir(root string) *Dir {
	return &Dir{Root: root, Mode: 0644}
}

// WriteFile writes content atomically via a temp file and rename.
// A file whose content is already identical is left untouched so its
// modification time does not trigger downstream rebuilds.
func (s *Dir) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if existing, err := os.ReadFile(full); err == nil {
		if s.NoClobber {
			return fmt.Errorf("file already exists: %q", path)
		}
		if bytes.Equal(existing, content) {
			return nil
		}
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".typedwamp-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// Leftover temp files share the .typedwamp-*.tmp prefix.
	cleanup := func() { _ = os.Remove(tmpPath) }

	_, writeErr := tmp.Write(content)
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, writeErr)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}

	if !s.NoClobber {
		if err := os.Rename(tmpPath, full); err != nil {
			cleanup()
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}

	// os.Link fails atomically when the target exists.
	defer cleanup()
	if err := os.Link(tmpPath, full); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// resolve validates path and joins it to the root, refusing anything that
// would land outside it.
func (s *Dir) resolve(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	full := filepath.Join(s.Root, filepath.FromSlash(path))

	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output directory: %q", path)
	}
	return full, nil
}

// Memory stores generated files in memory.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content.
func (s *Memory) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Get returns a copy of one file, or nil if it was never written.
func (s *Memory) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Paths returns the written paths in sorted order.
func (s *Memory) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Files returns a copy of every written file.
func (s *Memory) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, content := range s.files {
		out[p] = bytes.Clone(content)
	}
	return out
}

// Reset discards all stored files.
func (s *Memory) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// Check compares generated content with the files already under Root
// instead of writing. It backs `typedwamp check` in CI.
type Check struct {
	Root string

	mu    sync.Mutex
	stale []string
}

// NewCheck returns a Check sink comparing against root.
func NewCheck(root string) *Check {
	return &Check{Root: root}
}

// WriteFile records path as stale when the file on disk is missing or
// differs from content.
func (s *Check) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err == nil && bytes.Equal(existing, content) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = append(s.stale, path)
	return nil
}

// Stale returns the out-of-date paths in sorted order.
func (s *Check) Stale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.stale)
	slices.Sort(out)
	return out
}

// ValidatePath reports whether path is usable as an output path: relative,
// slash-separated, clean and free of ".." components.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}
	// Drive letters are rejected on every platform.
	if len(path) >= 2 && path[1] == ':' && ('A' <= path[0] && path[0] <= 'Z' || 'a' <= path[0] && path[0] <= 'z') {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(path, `\`) {
		return errors.New("path must use / as separator")
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}
