package kvstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryItem struct {
	doc       []byte
	expiresAt *time.Time
}

// MemoryStore is a mutex-guarded in-process Store used by tests and
// local runs. Semantics match the Postgres implementation, including
// advisory expiry.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[Key]memoryItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[Key]memoryItem)}
}

func (s *MemoryStore) table(name string) map[Key]memoryItem {
	t, ok := s.tables[name]
	if !ok {
		t = make(map[Key]memoryItem)
		s.tables[name] = t
	}
	return t
}

func (s *MemoryStore) Get(_ context.Context, table string, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.tables[table][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return copyDoc(item.doc), nil
}

func (s *MemoryStore) Put(_ context.Context, table string, key Key, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table(table)[key] = memoryItem{doc: copyDoc(doc)}
	return nil
}

func (s *MemoryStore) PutWithExpiry(_ context.Context, table string, key Key, doc []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table(table)[key] = memoryItem{doc: copyDoc(doc), expiresAt: &expiresAt}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, table string, key Key, doc []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	if _, ok := t[key]; !ok {
		return nil, ErrKeyNotFound
	}

	t[key] = memoryItem{doc: copyDoc(doc)}
	return copyDoc(doc), nil
}

func (s *MemoryStore) Delete(_ context.Context, table string, key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	item, ok := t[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	delete(t, key)
	return copyDoc(item.doc), nil
}

func (s *MemoryStore) Scan(_ context.Context, table string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs [][]byte
	for _, item := range s.tables[table] {
		docs = append(docs, copyDoc(item.doc))
	}
	return docs, nil
}

func (s *MemoryStore) Query(_ context.Context, table string, pk string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		sk  string
		doc []byte
	}

	var entries []entry
	for key, item := range s.tables[table] {
		if key.PK == pk {
			entries = append(entries, entry{sk: key.SK, doc: copyDoc(item.doc)})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].sk < entries[j].sk })

	var docs [][]byte
	for _, e := range entries {
		docs = append(docs, e.doc)
	}
	return docs, nil
}

func (s *MemoryStore) BatchGet(_ context.Context, table string, keys []Key) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.tables[table]

	var docs [][]byte
	seen := make(map[Key]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		if item, ok := t[key]; ok {
			docs = append(docs, copyDoc(item.doc))
		}
	}
	return docs, nil
}

// SweepExpired removes items whose expiry has passed. The reaper calls
// this on a schedule; normal reads never consult expiry.
func (s *MemoryStore) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, t := range s.tables {
		for key, item := range t {
			if item.expiresAt != nil && item.expiresAt.Before(now) {
				delete(t, key)
				removed++
			}
		}
	}
	return removed
}

func copyDoc(doc []byte) []byte {
	return append([]byte(nil), doc...)
}
