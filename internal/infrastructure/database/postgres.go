package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
	"mixerboard/internal/ports/output"
)

var _ output.WatchableStore = (*PostgresStore)(nil)

// notifyChannel carries one notification per successful mutating commit.
const notifyChannel = "mixerboard_events"

const (
	maxTxAttempts  = 5
	initialBackoff = 50 * time.Millisecond
)

// PostgresStore is the shared-mode event store: one JSONB document per
// event, serializable transactions for read-modify-write, LISTEN/NOTIFY
// for change push.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ReadAll returns the current collection.
func (s *PostgresStore) ReadAll(ctx context.Context) (entities.Collection, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM events`)
	if err != nil {
		return nil, domain.NewStoreError("read all", err)
	}
	defer rows.Close()

	col := entities.Collection{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, domain.NewStoreError("read all", err)
		}
		ev, err := decodeEvent(doc)
		if err != nil {
			return nil, domain.NewStoreError("read all", err)
		}
		col[ev.ID] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("read all", err)
	}
	return col, nil
}

// Transact atomically applies mutator to the latest collection inside a
// serializable transaction and commits the result. Write conflicts are
// retried with exponential backoff; a mutator error (e.g. a rejection)
// aborts without commit and is propagated unchanged.
func (s *PostgresStore) Transact(ctx context.Context, mutator output.Mutator) (entities.Collection, error) {
	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		next, err := s.tryTransact(ctx, mutator)
		if err == nil {
			return next, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, domain.NewStoreError("transact", ctx.Err())
		}
		backoff *= 2
	}
	return nil, domain.NewStoreError("transact: retries exhausted", lastErr)
}

func (s *PostgresStore) tryTransact(ctx context.Context, mutator output.Mutator) (entities.Collection, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, domain.NewStoreError("begin", err)
	}
	defer tx.Rollback(ctx)

	current := entities.Collection{}
	docs := map[string][]byte{}
	rows, err := tx.Query(ctx, `SELECT id, doc FROM events`)
	if err != nil {
		return nil, domain.NewStoreError("read collection", err)
	}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			rows.Close()
			return nil, domain.NewStoreError("read collection", err)
		}
		ev, err := decodeEvent(doc)
		if err != nil {
			rows.Close()
			return nil, domain.NewStoreError("read collection", err)
		}
		current[id] = ev
		docs[id] = doc
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("read collection", err)
	}

	next, err := mutator(current)
	if err != nil {
		// Rejections and other mutator errors roll back untouched.
		return nil, err
	}

	changed := false
	for id := range current {
		if _, ok := next[id]; !ok {
			if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
				return nil, domain.NewStoreError("delete event", err)
			}
			changed = true
		}
	}
	for id, ev := range next {
		doc, err := encodeEvent(ev)
		if err != nil {
			return nil, domain.NewStoreError("encode event", err)
		}
		if old, ok := docs[id]; ok && bytes.Equal(old, doc) {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO events (id, doc) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
			id, doc)
		if err != nil {
			return nil, domain.NewStoreError("write event", err)
		}
		changed = true
	}

	if changed {
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, '')`, notifyChannel); err != nil {
			return nil, domain.NewStoreError("notify", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewStoreError("commit", err)
	}
	return next, nil
}

// Subscribe listens for commit notifications and invokes onChange with a
// fresh read of the collection. The returned function cancels the
// subscription.
func (s *PostgresStore) Subscribe(ctx context.Context, onChange func(entities.Collection)) (func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, domain.NewStoreError("subscribe", err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", notifyChannel)); err != nil {
		conn.Release()
		return nil, domain.NewStoreError("subscribe", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer conn.Release()
		for {
			if _, err := conn.Conn().WaitForNotification(subCtx); err != nil {
				if subCtx.Err() == nil {
					log.Printf("store: notification wait failed: %v", err)
				}
				return
			}
			col, err := s.ReadAll(subCtx)
			if err != nil {
				log.Printf("store: re-read after notification failed: %v", err)
				continue
			}
			onChange(col)
		}
	}()
	return cancel, nil
}

// retryable reports whether the transaction hit a conflict worth retrying:
// serialization failure (40001) or deadlock (40P01). Rejections and other
// mutator errors never retry.
func retryable(err error) bool {
	if _, ok := domain.AsRejection(err); ok {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
