package storage

import (
	"bytes"
	"sync"
)

// MemorySlot is a process-local slot. Values are copied in and out.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (s *MemorySlot) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

func (s *MemorySlot) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = bytes.Clone(value)
	return nil
}

func (s *MemorySlot) Close() error { return nil }

func (s *MemorySlot) Keys() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[string]int, len(s.values))
	for k, v := range s.values {
		keys[k] = len(v)
	}
	return keys, nil
}
