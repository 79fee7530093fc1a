package favorites

import (
	"encoding/json"
	"fmt"
	"sync"
)

// KV is the durable key-value capability favorites are persisted through.
// The browsing client owns this storage; nothing else writes the key.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store is a persistent set of entry identifiers. It loads once at
// construction and rewrites the full serialized set on every toggle.
type Store struct {
	mu  sync.Mutex
	kv  KV
	key string
	ids []string
	set map[string]bool
}

// NewStore restores the saved set. A corrupt or missing value starts empty;
// favorites are not worth failing startup over.
func NewStore(kv KV, key string) (*Store, error) {
	s := &Store{kv: kv, key: key, set: make(map[string]bool)}

	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if ok {
		var ids []string
		if json.Unmarshal([]byte(raw), &ids) == nil {
			for _, id := range ids {
				if !s.set[id] {
					s.set[id] = true
					s.ids = append(s.ids, id)
				}
			}
		}
	}
	return s, nil
}

// Toggle flips membership of id and synchronously persists the full set.
// Toggling the same id twice restores the previous state. Returns whether
// the id is a favorite after the call.
func (s *Store) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set[id] {
		delete(s.set, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	} else {
		s.set[id] = true
		s.ids = append(s.ids, id)
	}

	if err := s.persist(); err != nil {
		return s.set[id], err
	}
	return s.set[id], nil
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[id]
}

// IDs returns the favorites in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// Set returns a membership map for the derived view engine.
func (s *Store) Set() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.set))
	for id := range s.set {
		out[id] = true
	}
	return out
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.ids)
	if err != nil {
		return err
	}
	return s.kv.Set(s.key, string(raw))
}
