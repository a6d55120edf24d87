package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Postgres implements Store.
var _ Store = (*Postgres)(nil)

// opTimeout bounds every single store call so no ledger operation blocks
// indefinitely on a dead connection.
const opTimeout = 5 * time.Second

// notifyChannel is the LISTEN/NOTIFY channel fed by the documents trigger
// (see migrations/migrations.sql).
const notifyChannel = "duitku_docs"

// Postgres stores documents in a single JSONB-backed table. RunAtomic maps
// to a database transaction with SELECT ... FOR UPDATE row locks, which is
// what makes cross-client balance arithmetic safe.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Pool exposes the underlying connection pool for components that query
// the documents table directly, like the admin overview.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// wrapErr marks store-level failures as retryable transport errors while
// letting ErrNotFound pass through unchanged.
func wrapErr(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (p *Postgres) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id string
	err := p.pool.QueryRow(ctx,
		`INSERT INTO documents (collection, id, fields)
		 VALUES ($1, gen_random_uuid(), $2)
		 RETURNING id::text`,
		collection, fields,
	).Scan(&id)
	if err != nil {
		return "", wrapErr(err)
	}
	return id, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	doc, err := p.get(ctx, collection, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		// One bounded retry for idempotent reads.
		doc, err = p.get(ctx, collection, id)
	}
	return doc, err
}

func (p *Postgres) get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var fields map[string]any
	err := p.pool.QueryRow(ctx,
		`SELECT fields FROM documents WHERE collection = $1 AND id = $2::uuid`,
		collection, id,
	).Scan(&fields)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, wrapErr(err)
	}
	return Document{ID: id, Fields: fields}, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := p.pool.Exec(ctx,
		`UPDATE documents
		 SET fields = fields || $3, updated_at = now()
		 WHERE collection = $1 AND id = $2::uuid`,
		collection, id, fields,
	)
	if err != nil {
		return wrapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ct, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2::uuid`,
		collection, id,
	)
	if err != nil {
		return wrapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	docs, err := p.queryByField(ctx, collection, field, value)
	if err != nil {
		docs, err = p.queryByField(ctx, collection, field, value)
	}
	return docs, err
}

func (p *Postgres) queryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx,
		`SELECT id::text, fields
		 FROM documents
		 WHERE collection = $1 AND fields->>$2 = $3
		 ORDER BY created_at`,
		collection, field, value,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Fields); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, doc)
	}
	return out, wrapErr(rows.Err())
}

func (p *Postgres) RunAtomic(ctx context.Context, refs []Ref, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	dbtx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapErr(err)
	}
	defer dbtx.Rollback(ctx)

	buf := newTxBuffer()
	for _, ref := range refs {
		var fields map[string]any
		err := dbtx.QueryRow(ctx,
			`SELECT fields FROM documents
			 WHERE collection = $1 AND id = $2::uuid
			 FOR UPDATE`,
			ref.Collection, ref.ID,
		).Scan(&fields)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return wrapErr(err)
		}
		buf.reads[ref] = Document{ID: ref.ID, Fields: fields}
	}

	if err := fn(buf); err != nil {
		return err
	}

	for _, op := range buf.ops {
		switch op.kind {
		case opCreate:
			_, err = dbtx.Exec(ctx,
				`INSERT INTO documents (collection, id, fields) VALUES ($1, $2::uuid, $3)`,
				op.ref.Collection, op.ref.ID, op.fields,
			)
		case opUpdate:
			_, err = dbtx.Exec(ctx,
				`UPDATE documents SET fields = fields || $3, updated_at = now()
				 WHERE collection = $1 AND id = $2::uuid`,
				op.ref.Collection, op.ref.ID, op.fields,
			)
		case opDelete:
			_, err = dbtx.Exec(ctx,
				`DELETE FROM documents WHERE collection = $1 AND id = $2::uuid`,
				op.ref.Collection, op.ref.ID,
			)
		}
		if err != nil {
			return wrapErr(err)
		}
	}

	if err := dbtx.Commit(ctx); err != nil {
		return wrapErr(err)
	}
	return nil
}

// notifyPayload mirrors the JSON emitted by the documents trigger.
type notifyPayload struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Deleted    bool   `json:"deleted"`
}

func (p *Postgres) Subscribe(ctx context.Context, collection, field, value string) (<-chan Snapshot, func(), error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, wrapErr(err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, nil, wrapErr(err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan Snapshot, 16)

	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					slog.Warn("subscription ended", "collection", collection, "error", err)
				}
				return
			}
			var payload notifyPayload
			if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
				continue
			}
			if payload.Collection != collection {
				continue
			}
			if payload.Deleted {
				// The document is gone, so the field filter cannot be
				// checked; subscribers ignore ids they never saw.
				deliver(subCtx, ch, Snapshot{Collection: collection, Doc: Document{ID: payload.ID}, Deleted: true})
				continue
			}
			doc, err := p.Get(subCtx, collection, payload.ID)
			if err != nil {
				continue
			}
			if s, ok := doc.Fields[field].(string); !ok || s != value {
				continue
			}
			deliver(subCtx, ch, Snapshot{Collection: collection, Doc: doc})
		}
	}()

	return ch, cancel, nil
}

func deliver(ctx context.Context, ch chan<- Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	case <-ctx.Done():
	}
}
