package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process KV backend used by tests and single-node runs.
type Memory struct {
	mu      sync.RWMutex
	scalars map[string]string
	lists   map[string][]string
	sets    map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		scalars: map[string]string{},
		lists:   map[string][]string{},
		sets:    map[string]map[string]struct{}{},
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scalars[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scalars[key] = value
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.scalars[key]; ok {
		return true, nil
	}
	if _, ok := m.lists[key]; ok {
		return true, nil
	}
	_, ok := m.sets[key]
	return ok, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.scalars, k)
		delete(m.lists, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.scalars {
		if strings.HasPrefix(k, prefix) {
			delete(m.scalars, k)
		}
	}
	for k := range m.lists {
		if strings.HasPrefix(k, prefix) {
			delete(m.lists, k)
		}
	}
	for k := range m.sets {
		if strings.HasPrefix(k, prefix) {
			delete(m.sets, k)
		}
	}
	return nil
}

func (m *Memory) RPush(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *Memory) LRange(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.lists[key]
	out := make([]string, len(src))
	copy(out, src)
	return out, nil
}

func (m *Memory) LSet(_ context.Context, key string, index int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[key]
	if !ok || index < 0 || index >= len(l) {
		return fmt.Errorf("lset %s[%d]: %w", key, index, ErrNotFound)
	}
	l[index] = value
	return nil
}

func (m *Memory) LLen(_ context.Context, key string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lists[key]), nil
}

func (m *Memory) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[key]
	if !ok {
		s = map[string]struct{}{}
		m.sets[key] = s
	}
	s[member] = struct{}{}
	return nil
}

func (m *Memory) SCard(_ context.Context, key string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets[key]), nil
}
