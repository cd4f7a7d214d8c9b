// Package sqlite stores search records in a SQLite database using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/codec"

	_ "modernc.org/sqlite"
)

// Store is an archive.Store backed by SQLite.
// IDs come from an AUTOINCREMENT column, so they are never reused even
// after rows are deleted.
type Store struct {
	path  string
	codec codec.Codec

	mu sync.RWMutex
	db *sql.DB
}

var _ archive.Store = (*Store)(nil)

// NewStore creates a store for the database at path. A nil codec selects
// codec.Default for record payloads.
func NewStore(path string, c codec.Codec) *Store {
	if c == nil {
		c = codec.Default
	}
	return &Store{path: path, codec: c}
}

// Init opens the database and creates the schema.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Append inserts rec and sets rec.ID.
func (s *Store) Append(ctx context.Context, rec *archive.Record) (uint64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	rec.ID = 0
	payload, err := s.codec.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO records (run_id, created_at, codec, payload)
		VALUES (?, ?, ?, ?)
	`, rec.RunID, rec.CreatedAt.UTC().Format(time.RFC3339Nano), s.codec.Name(), payload)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rec.ID = uint64(id)
	return rec.ID, nil
}

// Get loads a record by ID.
func (s *Store) Get(ctx context.Context, id uint64) (*archive.Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var (
		codecName string
		payload   []byte
	)
	err = db.QueryRowContext(ctx, `SELECT codec, payload FROM records WHERE id = ?`, int64(id)).Scan(&codecName, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", archive.ErrNotFound, id)
		}
		return nil, err
	}
	return decode(id, codecName, payload)
}

// List returns all records ordered by ID.
func (s *Store) List(ctx context.Context) ([]*archive.Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, codec, payload FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*archive.Record
	for rows.Next() {
		var (
			id        int64
			codecName string
			payload   []byte
		)
		if err := rows.Scan(&id, &codecName, &payload); err != nil {
			return nil, err
		}
		rec, err := decode(uint64(id), codecName, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record. Its ID is not handed out again.
func (s *Store) Delete(ctx context.Context, id uint64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, int64(id))
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func decode(id uint64, codecName string, payload []byte) (*archive.Record, error) {
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("decode record %d: unknown codec %q", id, codecName)
	}
	rec := &archive.Record{}
	if err := c.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			codec TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
