package riskcfg

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Persistence is the backing document for a Store. File-backed in
// production, in-memory for tests.
type Persistence interface {
	// Read returns the raw document, or fs.ErrNotExist when none was
	// written yet.
	Read() ([]byte, error)
	Write(data []byte) error
}

type filePersistence struct {
	path string
}

// NewFilePersistence stores the document at path, creating parent
// directories on first write.
func NewFilePersistence(path string) Persistence {
	return &filePersistence{path: path}
}

func (f *filePersistence) Read() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *filePersistence) Write(data []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, data, 0o644)
}

type memoryPersistence struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryPersistence returns an empty in-memory backend.
func NewMemoryPersistence() Persistence {
	return &memoryPersistence{}
}

func (m *memoryPersistence) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, fs.ErrNotExist
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *memoryPersistence) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}
