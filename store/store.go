// Package store persists screening sessions between visits: the uploaded
// dataset, the criteria list, and the table sort state. It is an opaque
// key-value layer over SQLite; the engine never sees its format.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/nao1215/compscreen"
)

// Keys under which session state is stored.
const (
	keyDataset  = "dataset"
	keyCriteria = "criteria"
	keySort     = "sort"
)

// ErrNotFound indicates no value has been saved under the requested key.
var ErrNotFound = errors.New("store: not found")

// Store is a SQLite-backed key-value session store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session store at path. Use ":memory:"
// for an ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS sessions (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("store: failed to create schema: %w", err), closeErr)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// put serializes v as JSON under key, replacing any previous value.
func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: failed to encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, data)
	if err != nil {
		return fmt.Errorf("store: failed to save %s: %w", key, err)
	}
	return nil
}

// get deserializes the value under key into v.
func (s *Store) get(ctx context.Context, key string, v any) error {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM sessions WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: failed to decode %s: %w", key, err)
	}
	return nil
}

// SaveDataset persists the uploaded dataset, replacing any previous one.
func (s *Store) SaveDataset(ctx context.Context, ds *compscreen.Dataset) error {
	return s.put(ctx, keyDataset, ds)
}

// LoadDataset restores the last saved dataset. ErrNotFound means no upload
// has been saved yet.
func (s *Store) LoadDataset(ctx context.Context) (*compscreen.Dataset, error) {
	var ds compscreen.Dataset
	if err := s.get(ctx, keyDataset, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// SaveCriteria persists the full criteria list.
func (s *Store) SaveCriteria(ctx context.Context, cs compscreen.Criteria) error {
	return s.put(ctx, keyCriteria, cs)
}

// LoadCriteria restores the saved criteria list. ErrNotFound means none
// were saved.
func (s *Store) LoadCriteria(ctx context.Context) (compscreen.Criteria, error) {
	var cs compscreen.Criteria
	if err := s.get(ctx, keyCriteria, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// SaveSortState persists the table sort state.
func (s *Store) SaveSortState(ctx context.Context, state compscreen.SortState) error {
	return s.put(ctx, keySort, state)
}

// LoadSortState restores the saved sort state. ErrNotFound means the table
// was never sorted.
func (s *Store) LoadSortState(ctx context.Context) (compscreen.SortState, error) {
	var state compscreen.SortState
	if err := s.get(ctx, keySort, &state); err != nil {
		return compscreen.SortState{}, err
	}
	return state, nil
}
