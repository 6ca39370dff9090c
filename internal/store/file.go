package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in one JSON object on disk. Each write rewrites the
// file through a temporary file and a rename.
type File struct {
	mu   sync.Mutex
	path string
	mem  *Memory
}

// OpenFile loads the store at path. A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, mem: NewMemory()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	for k, v := range raw {
		f.mem.data[k] = []byte(v)
	}
	return f, nil
}

func (f *File) Get(key string) ([]byte, error) {
	return f.mem.Get(key)
}

func (f *File) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	undo := f.snapshot(key)
	_ = f.mem.Set(key, value)
	if err := f.flush(); err != nil {
		undo()
		return err
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	undo := f.snapshot(key)
	_ = f.mem.Delete(key)
	if err := f.flush(); err != nil {
		undo()
		return err
	}
	return nil
}

// snapshot returns a func that restores key to its current state
func (f *File) snapshot(key string) func() {
	prev, err := f.mem.Get(key)
	if err != nil {
		return func() { _ = f.mem.Delete(key) }
	}
	return func() { _ = f.mem.Set(key, prev) }
}

func (f *File) Keys() ([]string, error) {
	return f.mem.Keys()
}

func (f *File) Close() error { return nil }

func (f *File) flush() error {
	f.mem.mu.RLock()
	raw := make(map[string]json.RawMessage, len(f.mem.data))
	for k, v := range f.mem.data {
		raw[k] = json.RawMessage(v)
	}
	f.mem.mu.RUnlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
