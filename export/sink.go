package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives finished exports. It is the "download" step: a file
// system, a browser bridge, an upload.
type Sink interface {
	Save(name string, data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, data []byte) error

// Save implements Sink.
func (f SinkFunc) Save(name string, data []byte) error { return f(name, data) }

// FileSink writes exports into a directory, replacing existing files.
type FileSink struct {
	Dir string
}

// Save implements Sink. The file is written to a temporary name first
// and renamed, so readers never see a partial GLB.
func (s FileSink) Save(name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// MemorySink keeps exports in memory, keyed by name.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	saves int
}

// Save implements Sink.
func (m *MemorySink) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = append([]byte(nil), data...)
	m.saves++
	return nil
}

// File returns the last data saved under name.
func (m *MemorySink) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	return b, ok
}

// Saves returns the number of Save calls.
func (m *MemorySink) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
