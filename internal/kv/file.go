package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore persists each collection as one JSON file in a directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written collection behind.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileStore) Get(collection string) ([]byte, error) {
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()
	return s.read(collection)
}

func (s *FileStore) Put(collection string, data []byte) error {
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()
	return s.write(collection, data)
}

func (s *FileStore) Update(collection string, fn func(current []byte) ([]byte, error)) error {
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.read(collection)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.write(collection, next)
}

// UpdateMany runs one read-modify-write across several collections,
// holding every collection lock for the duration. Locks are taken and
// files written in sorted name order; for the item-delete cascade that
// means the comments purge reaches disk before the item removal, so a
// crash between the two writes leaves the item restorable rather than
// its comments orphaned.
func (s *FileStore) UpdateMany(collections []string, fn func(current map[string][]byte) (map[string][]byte, error)) error {
	names := append([]string(nil), collections...)
	sort.Strings(names)

	for _, name := range names {
		lock := s.lockFor(name)
		lock.Lock()
		defer lock.Unlock()
	}

	current := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := s.read(name)
		if err != nil {
			return err
		}
		current[name] = data
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	for _, name := range names {
		data, ok := next[name]
		if !ok {
			continue
		}
		if err := s.write(name, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) lockFor(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	return lock
}

func (s *FileStore) read(collection string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) write(collection string, data []byte) error {
	path := s.path(collection)
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
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
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}
