package store

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// PrefixedStorage gives a fiber middleware its own key space on a backend shared with
// other users. The backend is owned by the caller: Reset and Close leave it untouched.
type PrefixedStorage struct {
	backend fiber.Storage
	prefix  string
}

func (s *PrefixedStorage) Get(key string) ([]byte, error) {
	return s.backend.Get(s.prefix + key)
}

func (s *PrefixedStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.backend.Set(s.prefix+key, val, exp)
}

func (s *PrefixedStorage) Delete(key string) error {
	return s.backend.Delete(s.prefix + key)
}

func (s *PrefixedStorage) Reset() error {
	return nil
}

func (s *PrefixedStorage) Close() error {
	return nil
}

func NewKVStorage(backend fiber.Storage, prefix string) *PrefixedStorage {
	return &PrefixedStorage{
		backend: backend,
		prefix:  prefix,
	}
}
