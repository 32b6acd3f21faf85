// Package dialog models the conversational platform's per-session context
// storage and outbound response channel.
package dialog

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"
)

// Context is a named, lifespan-limited bag of parameters kept by the platform
// for one conversation session
type Context struct {
	Name       string
	Lifespan   int
	Parameters map[string]any
}

// ContextStore is the platform's per-session context storage. Setting a
// context with a lifespan of zero clears it.
type ContextStore interface {
	Get(name string) (Context, bool)
	Set(name string, lifespan int, params map[string]any)
	List() []string
}

// Compile-time interface check.
var _ ContextStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory ContextStore. Safe for concurrent access.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]Context
}

// NewMemoryStore creates an empty context store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contexts: make(map[string]Context)}
}

// Get returns the named context if it is alive
func (s *MemoryStore) Get(name string) (Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contexts[name]
	if !ok || c.Lifespan <= 0 {
		return Context{}, false
	}
	return c, true
}

// Set creates, replaces or (with lifespan 0) clears a context
func (s *MemoryStore) Set(name string, lifespan int, params map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lifespan <= 0 {
		delete(s.contexts, name)
		return
	}
	s.contexts[name] = Context{Name: name, Lifespan: lifespan, Parameters: params}
}

// List returns the names of the live contexts, sorted
func (s *MemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.contexts))
	for name := range s.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Age decrements every lifespan by one turn, dropping expired contexts.
// The platform does this between turns; tests use it to replay conversations.
func (s *MemoryStore) Age() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, c := range s.contexts {
		c.Lifespan--
		if c.Lifespan <= 0 {
			delete(s.contexts, name)
			continue
		}
		s.contexts[name] = c
	}
}

// IntParam reads an integer parameter. Platforms deliver numbers as JSON,
// so float64, json.Number and numeric strings are accepted.
func IntParam(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
