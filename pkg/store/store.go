// Package store defines the document-store capability the catalog
// engine consumes. The remote backend is an external collaborator; the
// engine only requires snapshot reads, ordered live queries, atomic
// multi-document batches, and per-key documents with merge writes.
package store

import (
	"context"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
)

// Fields is the schemaless payload of a keyed document, such as a
// per-identity progress document.
type Fields map[string]any

// Query describes an ordered live query over a topic collection.
type Query struct {
	// Collection is the collection path, e.g. "topics".
	Collection string

	// OrderBy names the topic field used for store-side ordering.
	// Supported values: "system", "topic", "yield_score". Documents
	// comparing equal are ordered by id ascending.
	OrderBy string
}

// Batch is an atomic set of mutations against one collection. All
// operations apply together or not at all.
type Batch struct {
	// Deletes lists document ids to remove.
	Deletes []string

	// Creates lists topics to insert with fresh store-assigned ids.
	Creates catalogs.Topics
}

// Empty reports whether the batch contains no operations.
func (b Batch) Empty() bool {
	return len(b.Deletes) == 0 && len(b.Creates) == 0
}

// Subscription is a cancelable stream of collection snapshots. The
// store pushes a full ordered snapshot on subscribe and after every
// commit that touches the collection; consumers replace their
// projection wholesale.
type Subscription interface {
	// Updates returns the snapshot channel. It is closed when the
	// subscription is released or the store shuts down.
	Updates() <-chan catalogs.Topics

	// Close releases the subscription and stops further delivery.
	Close()
}

// DocSubscription is a cancelable stream of keyed-document states.
type DocSubscription interface {
	Updates() <-chan Fields
	Close()
}

// Store is the capability contract for the remote document store.
type Store interface {
	// SnapshotAll reads every document in the collection, ordered by
	// ascending document id. The stable order makes first-occurrence
	// scans deterministic across callers.
	SnapshotAll(ctx context.Context, collection string) (catalogs.Topics, error)

	// Subscribe opens an ordered live query over a collection.
	Subscribe(ctx context.Context, q Query) (Subscription, error)

	// CommitBatch applies the batch atomically.
	CommitBatch(ctx context.Context, collection string, batch Batch) error

	// CreateDoc inserts a single topic and returns its assigned id.
	CreateDoc(ctx context.Context, collection string, topic catalogs.Topic) (string, error)

	// UpdateDoc replaces a single topic document.
	UpdateDoc(ctx context.Context, collection, id string, topic catalogs.Topic) error

	// DeleteDoc removes a single topic document.
	DeleteDoc(ctx context.Context, collection, id string) error

	// GetDoc reads a keyed document. Missing documents yield
	// errors.ErrNotFound.
	GetDoc(ctx context.Context, path string) (Fields, error)

	// SubscribeDoc opens a live stream over a keyed document. The
	// current state (possibly empty) is delivered first.
	SubscribeDoc(ctx context.Context, path string) (DocSubscription, error)

	// MergeWrite writes partial fields into a keyed document,
	// creating it if absent. Untouched fields are preserved.
	MergeWrite(ctx context.Context, path string, fields Fields) error
}
