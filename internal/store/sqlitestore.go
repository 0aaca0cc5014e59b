package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS records (
	id   INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS graph_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLStore keeps the record store in a relational database behind
// database/sql: one row per record plus a small metadata table holding the
// root marker and store ID. Writes run in a single transaction, so a failed
// write leaves the previous content intact.
type SQLStore struct {
	db      *sql.DB
	storeID uuid.UUID
}

// OpenSQLite opens (or creates) an embedded SQLite store at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	st, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewSQLStore wraps an existing database handle. The schema is created if
// absent and the store ID adopted or assigned.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}

	st := &SQLStore{db: db}

	var raw string
	err := db.QueryRowContext(ctx, `SELECT value FROM graph_meta WHERE key = 'store_id'`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
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

// Close closes the underlying database handle.
func (st *SQLStore) Close() error {
	return st.db.Close()
}

// StoreID implements Store.
func (st *SQLStore) StoreID() uuid.UUID {
	return st.storeID
}

// WriteAll implements Store.
func (st *SQLStore) WriteAll(ctx context.Context, recs []*object.Record, root identity.ID) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return &IOError{Op: "write", Err: err}
	}

	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (id, type, data) VALUES (?, ?, ?)`,
			int64(rec.ID), rec.Type, string(data))
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	meta := [][2]string{
		{"root", strconv.FormatUint(uint64(root), 10)},
		{"store_id", st.storeID.String()},
	}
	for _, kv := range meta {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO graph_meta (key, value) VALUES (?, ?)`, kv[0], kv[1])
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// ReadAll implements Store.
func (st *SQLStore) ReadAll(ctx context.Context) ([]*object.Record, identity.ID, error) {
	var rawRoot string
	err := st.db.QueryRowContext(ctx, `SELECT value FROM graph_meta WHERE key = 'root'`).Scan(&rawRoot)
	switch {
	case err == sql.ErrNoRows:
		return nil, identity.None, &CorruptionError{Err: ErrNoRoot}
	case err != nil:
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}
	rootVal, err := strconv.ParseUint(rawRoot, 10, 64)
	if err != nil {
		return nil, identity.None, &CorruptionError{Err: fmt.Errorf("%w: root marker %q", ErrMalformedRecord, rawRoot)}
	}

	rows, err := st.db.QueryContext(ctx, `SELECT data FROM records ORDER BY id`)
	if err != nil {
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}
	defer rows.Close()

	var recs []*object.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, identity.None, &IOError{Op: "read", Err: err}
		}
		var rec object.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, identity.None, &CorruptionError{Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}

	return recs, identity.ID(rootVal), nil
}
