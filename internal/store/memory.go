package store

import (
	"context"
	"sync"

	"github.com/rafifeedloop/esignature/pkg/models"
)

// MemoryStore is an in-memory implementation of the DocumentStore interface.
// It keeps one mutex per document id so operations on different documents
// proceed in parallel while mutations of the same document are serialized.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]*models.Document
	order []string
	locks map[string]*sync.Mutex
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]*models.Document),
		locks: make(map[string]*sync.Mutex),
	}
}

// Insert stores a new document.
func (s *MemoryStore) Insert(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; ok {
		return ErrDuplicateID
	}
	s.docs[doc.ID] = doc.Clone()
	s.order = append(s.order, doc.ID)
	s.locks[doc.ID] = &sync.Mutex{}
	return nil
}

// Get retrieves a snapshot of a document by its ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

// List returns snapshots of all documents in creation order.
func (s *MemoryStore) List(ctx context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id].Clone())
	}
	return out, nil
}

// Mutate applies fn to a working copy of the document under the document's
// lock and commits the copy only when fn returns nil.
func (s *MemoryStore) Mutate(ctx context.Context, id string, fn func(*models.Document) error) (*models.Document, error) {
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current := s.docs[id]
	s.mu.RUnlock()

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.docs[id] = working
	s.mu.Unlock()

	return working.Clone(), nil
}
