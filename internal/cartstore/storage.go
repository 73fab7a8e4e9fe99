package cartstore

import "sync"

// Storage is the durable key-value port the stores hydrate from and persist to.
// A missing key reports ok == false with a nil error.
type Storage interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Remove(key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: map[string][]byte{}}
}

func (s *MemoryStorage) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStorage) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// NopStorage never holds anything. Stores built on it live only in memory.
type NopStorage struct{}

func (NopStorage) Load(string) ([]byte, bool, error) { return nil, false, nil }
func (NopStorage) Save(string, []byte) error         { return nil }
func (NopStorage) Remove(string) error               { return nil }
