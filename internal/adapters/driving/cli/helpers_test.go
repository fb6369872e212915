package cli

import (
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// mapConfigStore is an in-memory driven.ConfigStore for command tests.
type mapConfigStore struct {
	data map[string]any
}

func newMapConfigStore() *mapConfigStore {
	return &mapConfigStore{data: make(map[string]any)}
}

func (s *mapConfigStore) Get(key string) (any, bool) {
	val, ok := s.data[key]
	return val, ok
}

func (s *mapConfigStore) GetString(key string) string {
	if val, ok := s.data[key].(string); ok {
		return val
	}
	return ""
}

func (s *mapConfigStore) GetInt(key string) int {
	if val, ok := s.data[key].(int); ok {
		return val
	}
	return 0
}

func (s *mapConfigStore) GetBool(key string) bool {
	if val, ok := s.data[key].(bool); ok {
		return val
	}
	return false
}

func (s *mapConfigStore) Set(key string, value any) error {
	s.data[key] = value
	return nil
}

func (s *mapConfigStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *mapConfigStore) Load() error { return nil }

func (s *mapConfigStore) Save() error { return nil }

var _ driven.ConfigStore = (*mapConfigStore)(nil)
