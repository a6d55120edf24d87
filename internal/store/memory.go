package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is an in-process Store used by tests and STORE=memory dev mode.
// A single mutex guards the whole store, so RunAtomic sees a consistent
// snapshot and commits are indivisible.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	watchers    map[int]*watcher
	nextWatcher int
}

type watcher struct {
	collection string
	field      string
	value      string
	ch         chan Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]any),
		watchers:    make(map[int]*watcher),
	}
}

func (m *Memory) coll(name string) map[string]map[string]any {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		m.collections[name] = c
	}
	return c
}

func (m *Memory) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.coll(collection)[id] = cloneFields(fields)
	m.notifyLocked(collection, Document{ID: id, Fields: cloneFields(fields)}, false)
	return id, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.coll(collection)[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.coll(collection)[id]
	if !ok {
		return ErrNotFound
	}
	merged := mergeFields(existing, fields)
	m.coll(collection)[id] = merged
	m.notifyLocked(collection, Document{ID: id, Fields: cloneFields(merged)}, false)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.coll(collection)[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.coll(collection), id)
	m.notifyLocked(collection, Document{ID: id, Fields: cloneFields(fields)}, true)
	return nil
}

func (m *Memory) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for id, fields := range m.coll(collection) {
		if s, ok := fields[field].(string); ok && s == value {
			out = append(out, Document{ID: id, Fields: cloneFields(fields)})
		}
	}
	return out, nil
}

func (m *Memory) RunAtomic(ctx context.Context, refs []Ref, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := newTxBuffer()
	for _, ref := range refs {
		if fields, ok := m.coll(ref.Collection)[ref.ID]; ok {
			buf.reads[ref] = Document{ID: ref.ID, Fields: cloneFields(fields)}
		}
	}

	if err := fn(buf); err != nil {
		return err
	}

	for _, op := range buf.ops {
		switch op.kind {
		case opCreate:
			m.coll(op.ref.Collection)[op.ref.ID] = op.fields
			m.notifyLocked(op.ref.Collection, Document{ID: op.ref.ID, Fields: cloneFields(op.fields)}, false)
		case opUpdate:
			existing, ok := m.coll(op.ref.Collection)[op.ref.ID]
			if !ok {
				continue
			}
			merged := mergeFields(existing, op.fields)
			m.coll(op.ref.Collection)[op.ref.ID] = merged
			m.notifyLocked(op.ref.Collection, Document{ID: op.ref.ID, Fields: cloneFields(merged)}, false)
		case opDelete:
			if fields, ok := m.coll(op.ref.Collection)[op.ref.ID]; ok {
				delete(m.coll(op.ref.Collection), op.ref.ID)
				m.notifyLocked(op.ref.Collection, Document{ID: op.ref.ID, Fields: cloneFields(fields)}, true)
			}
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, collection, field, value string) (<-chan Snapshot, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	w := &watcher{
		collection: collection,
		field:      field,
		value:      value,
		ch:         make(chan Snapshot, 16),
	}
	id := m.nextWatcher
	m.nextWatcher++
	m.watchers[id] = w

	stop := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.watchers[id]; ok {
			delete(m.watchers, id)
			close(w.ch)
		}
	}
	return w.ch, stop, nil
}

// notifyLocked fans a change out to matching watchers. Callers hold m.mu.
// Slow subscribers drop events rather than block mutations.
func (m *Memory) notifyLocked(collection string, doc Document, deleted bool) {
	for _, w := range m.watchers {
		if w.collection != collection {
			continue
		}
		if s, ok := doc.Fields[w.field].(string); !ok || s != w.value {
			continue
		}
		select {
		case w.ch <- Snapshot{Collection: collection, Doc: doc, Deleted: deleted}:
		default:
		}
	}
}

func (m *Memory) Close() error { return nil }
