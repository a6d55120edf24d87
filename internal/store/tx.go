package store

import "github.com/google/uuid"

const (
	opCreate = iota
	opUpdate
	opDelete
)

type txOp struct {
	kind   int
	ref    Ref
	fields map[string]any
}

// txBuffer implements Tx by recording writes for later application. Both
// backends share it: the memory store applies the ops under its lock, the
// Postgres store replays them inside a database transaction.
type txBuffer struct {
	reads map[Ref]Document
	ops   []txOp
}

func newTxBuffer() *txBuffer {
	return &txBuffer{reads: make(map[Ref]Document)}
}

func (b *txBuffer) Get(ref Ref) (Document, bool) {
	doc, ok := b.reads[ref]
	if !ok {
		return Document{}, false
	}
	return Document{ID: doc.ID, Fields: cloneFields(doc.Fields)}, true
}

func (b *txBuffer) Create(collection string, fields map[string]any) string {
	id := uuid.New().String()
	b.ops = append(b.ops, txOp{
		kind:   opCreate,
		ref:    Ref{Collection: collection, ID: id},
		fields: cloneFields(fields),
	})
	return id
}

func (b *txBuffer) Update(ref Ref, fields map[string]any) {
	b.ops = append(b.ops, txOp{kind: opUpdate, ref: ref, fields: cloneFields(fields)})
}

func (b *txBuffer) Delete(ref Ref) {
	b.ops = append(b.ops, txOp{kind: opDelete, ref: ref})
}
