package store

import (
	"context"
	"errors"

	"github.com/rafifeedloop/esignature/pkg/models"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// ErrDuplicateID is returned when inserting a document whose id already exists.
var ErrDuplicateID = errors.New("document id already exists")

// DocumentStore is an interface for storing and retrieving documents.
//
// Mutate is the only way to change a stored document. It serializes
// concurrent mutations of the same document id and commits the mutation
// all-or-nothing: if fn returns an error, the stored document is untouched.
// Get and List return snapshots that never alias stored state, so readers
// can run concurrently with writers without observing torn writes.
type DocumentStore interface {
	// Insert stores a new document.
	Insert(ctx context.Context, doc *models.Document) error
	// Get retrieves a snapshot of a document by its ID.
	Get(ctx context.Context, id string) (*models.Document, error)
	// List returns snapshots of all documents in creation order.
	List(ctx context.Context) ([]*models.Document, error)
	// Mutate applies fn to a working copy of the document under a
	// per-document lock and commits the copy only when fn returns nil.
	// It returns a snapshot of the committed document.
	Mutate(ctx context.Context, id string, fn func(*models.Document) error) (*models.Document, error)
}
