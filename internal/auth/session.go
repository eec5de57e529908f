package auth

import "sync"

// sessionKey — фиксированный ключ локального хранилища сессии администратора
const sessionKey = "campus_admin_session"

// SessionStore — локальное key-value хранилище с единственным ключом,
// в котором лежит "true" либо ничего. Это только UI-гейт: значение
// криптографически не проверяемо.
type SessionStore interface {
	Set(key, value string)
	Get(key string) (string, bool)
	Delete(key string)
}

// MemoryStore — хранилище сессии в памяти процесса
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore создает новое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
