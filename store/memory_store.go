// api/store/memory_store.go
package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process DocStore. It backs unit tests the same way a
// fake Redis backs a Redis-based service: full interface fidelity, no
// network. A single mutex makes every transaction trivially serializable.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return copyDoc(doc), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, fields Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(key, fields, merge)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) (map[string]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Document)
	p := prefix + "/"
	for key, doc := range s.docs {
		if strings.HasPrefix(key, p) {
			out[strings.TrimPrefix(key, p)] = copyDoc(doc)
		}
	}
	return out, nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{store: s, staged: make(map[string]*stagedWrite)}
	if err := fn(tx); err != nil {
		return err
	}
	for key, w := range tx.staged {
		s.apply(key, w.fields, w.merge)
	}
	return nil
}

// apply assumes the lock is held.
func (s *MemoryStore) apply(key string, fields Document, merge bool) {
	if !merge {
		s.docs[key] = copyDoc(fields)
		return
	}
	doc, ok := s.docs[key]
	if !ok {
		doc = Document{}
	} else {
		doc = copyDoc(doc)
	}
	for k, v := range fields {
		doc[k] = v
	}
	s.docs[key] = doc
}

type stagedWrite struct {
	fields Document
	merge  bool
}

type memTx struct {
	store  *MemoryStore
	staged map[string]*stagedWrite
}

func (tx *memTx) Get(key string) (Document, bool, error) {
	// Reads see writes staged earlier in the same transaction.
	if w, ok := tx.staged[key]; ok && !w.merge {
		return copyDoc(w.fields), true, nil
	}
	doc, ok := tx.store.docs[key]
	if !ok {
		if w, staged := tx.staged[key]; staged {
			return copyDoc(w.fields), true, nil
		}
		return nil, false, nil
	}
	doc = copyDoc(doc)
	if w, staged := tx.staged[key]; staged {
		for k, v := range w.fields {
			doc[k] = v
		}
	}
	return doc, true, nil
}

func (tx *memTx) Set(key string, fields Document, merge bool) error {
	if prev, ok := tx.staged[key]; ok && merge {
		merged := copyDoc(prev.fields)
		for k, v := range fields {
			merged[k] = v
		}
		tx.staged[key] = &stagedWrite{fields: merged, merge: prev.merge}
		return nil
	}
	tx.staged[key] = &stagedWrite{fields: copyDoc(fields), merge: merge}
	return nil
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
