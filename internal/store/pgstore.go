package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS records (
	id   BIGINT PRIMARY KEY,
	type TEXT NOT NULL,
	data JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS graph_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// PGStore keeps the record store in PostgreSQL. The layout mirrors SQLStore;
// every write runs in one transaction.
type PGStore struct {
	pool    *pgxpool.Pool
	storeID uuid.UUID
}

// OpenPG connects to url and prepares the store schema.
func OpenPG(ctx context.Context, url string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	st, err := NewPGStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return st, nil
}

// NewPGStore wraps an existing connection pool.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}

	st := &PGStore{pool: pool}

	var raw string
	err := pool.QueryRow(ctx, `SELECT value FROM graph_meta WHERE key = 'store_id'`).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		st.storeID = uuid.New()
	case err != nil:
		return nil, &IOError{Op: "open", Err: err}
	default:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &CorruptionError{Err: fmt.Errorf("%w: store_id %q", ErrMalformedRecord, raw)}
		}
		st.storeID = id
	}
	return st, nil
}

// Close releases the connection pool.
func (st *PGStore) Close() {
	st.pool.Close()
}

// StoreID implements Store.
func (st *PGStore) StoreID() uuid.UUID {
	return st.storeID
}

// WriteAll implements Store.
func (st *PGStore) WriteAll(ctx context.Context, recs []*object.Record, root identity.ID) error {
	tx, err := st.pool.Begin(ctx)
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records`); err != nil {
		return &IOError{Op: "write", Err: err}
	}

	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO records (id, type, data) VALUES ($1, $2, $3)`,
			int64(rec.ID), rec.Type, data)
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	meta := [][2]string{
		{"root", strconv.FormatUint(uint64(root), 10)},
		{"store_id", st.storeID.String()},
	}
	for _, kv := range meta {
		_, err = tx.Exec(ctx,
			`INSERT INTO graph_meta (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, kv[0], kv[1])
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// ReadAll implements Store.
func (st *PGStore) ReadAll(ctx context.Context) ([]*object.Record, identity.ID, error) {
	var rawRoot string
	err := st.pool.QueryRow(ctx, `SELECT value FROM graph_meta WHERE key = 'root'`).Scan(&rawRoot)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, identity.None, &CorruptionError{Err: ErrNoRoot}
	case err != nil:
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}
	rootVal, err := strconv.ParseUint(rawRoot, 10, 64)
	if err != nil {
		return nil, identity.None, &CorruptionError{Err: fmt.Errorf("%w: root marker %q", ErrMalformedRecord, rawRoot)}
	}

	rows, err := st.pool.Query(ctx, `SELECT data FROM records ORDER BY id`)
	if err != nil {
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}
	defer rows.Close()

	var recs []*object.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, identity.None, &IOError{Op: "read", Err: err}
		}
		var rec object.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, identity.None, &CorruptionError{Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}

	return recs, identity.ID(rootVal), nil
}
