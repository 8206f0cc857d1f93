// Package memory provides an in-process implementation of the store
// contract. It backs tests, the CLI, and single-node deployments of
// the serve command; a remote adapter can replace it without touching
// the engine.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

// Store is an in-memory document store with live-query push delivery.
type Store struct {
	mu sync.RWMutex

	// collections maps collection path -> document id -> topic.
	collections map[string]map[string]catalogs.Topic

	// docs maps keyed-document path -> fields.
	docs map[string]store.Fields

	subs    map[string][]*subscription
	docSubs map[string][]*docSubscription

	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithSeed preloads a collection with topics, assigning fresh ids.
// Useful for tests that need a populated store.
func WithSeed(collection string, topics catalogs.Topics) Option {
	return func(s *Store) {
		docs := s.collections[collection]
		if docs == nil {
			docs = make(map[string]catalogs.Topic)
			s.collections[collection] = docs
		}
		for _, t := range topics {
			t.ID = uuid.NewString()
			docs[t.ID] = t
		}
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]catalogs.Topic),
		docs:        make(map[string]store.Fields),
		subs:        make(map[string][]*subscription),
		docSubs:     make(map[string][]*docSubscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SnapshotAll returns every document in the collection ordered by
// ascending id.
func (s *Store) SnapshotAll(_ context.Context, collection string) (catalogs.Topics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotByIDLocked(collection), nil
}

// Subscribe opens an ordered live query. The first snapshot is
// delivered before Subscribe returns a buffered channel to range over.
func (s *Store) Subscribe(_ context.Context, q store.Query) (store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.ErrSubscriptionClosed
	}

	sub := &subscription{
		store:      s,
		collection: q.Collection,
		orderBy:    q.OrderBy,
		ch:         make(chan catalogs.Topics, 16),
	}
	s.subs[q.Collection] = append(s.subs[q.Collection], sub)

	// Initial full snapshot.
	sub.push(s.orderedSnapshotLocked(q.Collection, q.OrderBy))
	return sub, nil
}

// CommitBatch applies all deletions and insertions under one lock and
// notifies collection subscribers exactly once.
func (s *Store) CommitBatch(_ context.Context, collection string, batch store.Batch) error {
	if batch.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]catalogs.Topic)
		s.collections[collection] = docs
	}

	// Deleting an id that is already gone is a no-op, matching the
	// idempotent delete semantics of document stores.
	for _, id := range batch.Deletes {
		delete(docs, id)
	}
	for _, t := range batch.Creates {
		t.ID = uuid.NewString()
		docs[t.ID] = t
	}

	s.notifyLocked(collection)
	return nil
}

// CreateDoc inserts a single topic and returns its assigned id.
func (s *Store) CreateDoc(_ context.Context, collection string, topic catalogs.Topic) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]catalogs.Topic)
		s.collections[collection] = docs
	}

	topic.ID = uuid.NewString()
	docs[topic.ID] = topic
	s.notifyLocked(collection)
	return topic.ID, nil
}

// UpdateDoc replaces a single topic document.
func (s *Store) UpdateDoc(_ context.Context, collection, id string, topic catalogs.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, ok := docs[id]; !ok {
		return errors.NewNotFoundError("topic", id)
	}
	topic.ID = id
	docs[id] = topic
	s.notifyLocked(collection)
	return nil
}

// DeleteDoc removes a single topic document.
func (s *Store) DeleteDoc(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, ok := docs[id]; !ok {
		return errors.NewNotFoundError("topic", id)
	}
	delete(docs, id)
	s.notifyLocked(collection)
	return nil
}

// GetDoc reads a keyed document.
func (s *Store) GetDoc(_ context.Context, path string) (store.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.docs[path]
	if !ok {
		return nil, errors.NewNotFoundError("document", path)
	}
	return copyFields(fields), nil
}

// SubscribeDoc opens a live stream over a keyed document.
func (s *Store) SubscribeDoc(_ context.Context, path string) (store.DocSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.ErrSubscriptionClosed
	}

	sub := &docSubscription{
		store: s,
		path:  path,
		ch:    make(chan store.Fields, 16),
	}
	s.docSubs[path] = append(s.docSubs[path], sub)

	// Current state first; an absent document streams as empty fields.
	sub.push(copyFields(s.docs[path]))
	return sub, nil
}

// MergeWrite writes partial fields into a keyed document, creating it
// if absent.
func (s *Store) MergeWrite(_ context.Context, path string, fields store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[path]
	if doc == nil {
		doc = make(store.Fields, len(fields))
		s.docs[path] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}

	for _, sub := range s.docSubs[path] {
		sub.push(copyFields(doc))
	}
	return nil
}

// Close shuts down the store and terminates every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	for _, subs := range s.subs {
		for _, sub := range subs {
			sub.closeLocked()
		}
	}
	for _, subs := range s.docSubs {
		for _, sub := range subs {
			sub.closeLocked()
		}
	}
	s.subs = make(map[string][]*subscription)
	s.docSubs = make(map[string][]*docSubscription)
}

// snapshotByIDLocked returns the collection ordered by id ascending.
func (s *Store) snapshotByIDLocked(collection string) catalogs.Topics {
	docs := s.collections[collection]
	out := make(catalogs.Topics, 0, len(docs))
	for _, t := range docs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out.Copy()
}

// orderedSnapshotLocked returns the collection ordered by the query
// field, ties broken by id.
func (s *Store) orderedSnapshotLocked(collection, orderBy string) catalogs.Topics {
	out := s.snapshotByIDLocked(collection)
	sort.SliceStable(out, func(i, j int) bool {
		switch orderBy {
		case "topic":
			if out[i].Title != out[j].Title {
				return out[i].Title < out[j].Title
			}
		case "yield_score":
			if out[i].YieldScore != out[j].YieldScore {
				return out[i].YieldScore < out[j].YieldScore
			}
		default: // "system"
			if out[i].System != out[j].System {
				return out[i].System < out[j].System
			}
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// notifyLocked pushes a fresh ordered snapshot to every subscriber of
// the collection.
func (s *Store) notifyLocked(collection string) {
	for _, sub := range s.subs[collection] {
		sub.push(s.orderedSnapshotLocked(collection, sub.orderBy))
	}
}

func copyFields(fields store.Fields) store.Fields {
	out := make(store.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// subscription implements store.Subscription for collection queries.
type subscription struct {
	store      *Store
	collection string
	orderBy    string
	ch         chan catalogs.Topics
	closed     bool
}

func (sub *subscription) Updates() <-chan catalogs.Topics { return sub.ch }

// push delivers a snapshot without blocking. If the subscriber's
// buffer is full the oldest pending snapshot is dropped; only the
// latest state matters to a whole-replacement consumer.
func (sub *subscription) push(snapshot catalogs.Topics) {
	if sub.closed {
		return
	}
	for {
		select {
		case sub.ch <- snapshot:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (sub *subscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	if sub.closed {
		return
	}
	subs := sub.store.subs[sub.collection]
	for i, s := range subs {
		if s == sub {
			sub.store.subs[sub.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	sub.closeLocked()
}

func (sub *subscription) closeLocked() {
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// docSubscription implements store.DocSubscription for keyed docs.
type docSubscription struct {
	store  *Store
	path   string
	ch     chan store.Fields
	closed bool
}

func (sub *docSubscription) Updates() <-chan store.Fields { return sub.ch }

func (sub *docSubscription) push(fields store.Fields) {
	if sub.closed {
		return
	}
	for {
		select {
		case sub.ch <- fields:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (sub *docSubscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	if sub.closed {
		return
	}
	subs := sub.store.docSubs[sub.path]
	for i, s := range subs {
		if s == sub {
			sub.store.docSubs[sub.path] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	sub.closeLocked()
}

func (sub *docSubscription) closeLocked() {
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}
