package kv

import "sync"

// MemStore is an in-memory Store used in tests.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string][]byte)}
}

func (s *MemStore) Get(collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (s *MemStore) Put(collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.collections[collection] = copied
	return nil
}

func (s *MemStore) Update(collection string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.collections[collection])
	if err != nil {
		return err
	}
	copied := make([]byte, len(next))
	copy(copied, next)
	s.collections[collection] = copied
	return nil
}

func (s *MemStore) UpdateMany(collections []string, fn func(current map[string][]byte) (map[string][]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string][]byte, len(collections))
	for _, name := range collections {
		data := s.collections[name]
		copied := make([]byte, len(data))
		copy(copied, data)
		current[name] = copied
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	for _, name := range collections {
		data, ok := next[name]
		if !ok {
			continue
		}
		copied := make([]byte, len(data))
		copy(copied, data)
		s.collections[name] = copied
	}
	return nil
}
