// Package store provides the document storage boundary for DuitKu.
// Every entity (user, wallet, transaction, debt, savings target) is a
// schemaless document in a named collection, keyed by an opaque string id.
// This abstraction allows swapping backends (Postgres, in-memory) without
// changing the ledger or handler layers.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable marks transient transport failures. Callers may retry
	// reads; writes are never retried automatically.
	ErrUnavailable = errors.New("store unavailable")
)

// Document is a stored record: an opaque id plus schemaless fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Ref names a single document.
type Ref struct {
	Collection string
	ID         string
}

// Snapshot is one change event delivered to a subscriber.
type Snapshot struct {
	Collection string
	Doc        Document
	Deleted    bool
}

// Tx is the handle passed to a RunAtomic callback. Reads come from the
// locked read set; writes are buffered and applied only if the callback
// returns nil.
type Tx interface {
	// Get returns a document from the read set declared to RunAtomic.
	Get(ref Ref) (Document, bool)
	// Create buffers a document insert and returns its assigned id.
	Create(collection string, fields map[string]any) string
	// Update buffers a partial field merge into an existing document.
	Update(ref Ref, fields map[string]any)
	// Delete buffers a document removal.
	Delete(ref Ref)
}

// Store is the document store capability consumed by the ledger.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error

	// QueryByField returns all documents in collection whose named field
	// equals value.
	QueryByField(ctx context.Context, collection, field, value string) ([]Document, error)

	// RunAtomic locks the documents named by refs, invokes fn with their
	// current state, and applies the buffered writes as a single atomic
	// unit. If fn returns an error nothing is written. Any operation that
	// derives a new value from a current one (balance compensation,
	// expense debit, installment payment) must go through here; a plain
	// read followed by a plain write loses updates across clients.
	RunAtomic(ctx context.Context, refs []Ref, fn func(tx Tx) error) error

	// Subscribe streams change snapshots for documents in collection whose
	// field equals value. The returned stop function must be called when
	// the subscription is no longer observed.
	Subscribe(ctx context.Context, collection, field, value string) (<-chan Snapshot, func(), error)

	Close() error
}

// mergeFields copies partial fields over existing ones, returning the merged map.
func mergeFields(existing, partial map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(partial))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// cloneFields deep-copies one level of a field map so callers cannot mutate
// stored state through returned documents.
func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
