package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var ErrSetNotFound = errors.New("store: feature set not found")

const schema = `
CREATE TABLE IF NOT EXISTS features (
    set_name TEXT NOT NULL,
    id       TEXT NOT NULL,
    position INTEGER NOT NULL,
    body     TEXT NOT NULL,
    PRIMARY KEY (set_name, id)
);
CREATE INDEX IF NOT EXISTS features_set_position ON features (set_name, position);
CREATE TABLE IF NOT EXISTS sets (
    name  TEXT PRIMARY KEY,
    count INTEGER NOT NULL
);
`

// AnnotationsSet and MeasuresSet name the two sets a session keeps.
func AnnotationsSet(session string) string { return session + "/annotations" }
func MeasuresSet(session string) string    { return session + "/measures" }

// Store keeps named feature sets in a SQLite file. Each set is the exported
// collection of one registry.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save replaces set with the features of fc in one transaction.
func (s *Store) Save(ctx context.Context, set string, fc *geojson.FeatureCollection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM features WHERE set_name = ?`, set); err != nil {
		return fmt.Errorf("clear set: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO features (set_name, id, position, body)
        VALUES (?, ?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range fc.Features {
		body, err := f.MarshalJSON()
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
		id := fmt.Sprint(f.ID)
		if f.ID == nil {
			id = fmt.Sprintf("#%d", i)
		}
		if _, err := stmt.ExecContext(ctx, set, id, i, string(body)); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO sets (name, count) VALUES (?, ?)`, set, len(fc.Features)); err != nil {
		return fmt.Errorf("record set: %w", err)
	}
	return tx.Commit()
}

// Load returns the features of set in the order they were saved.
func (s *Store) Load(ctx context.Context, set string) (*geojson.FeatureCollection, error) {
	ok, err := s.has(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("lookup set: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSetNotFound, set)
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT body FROM features
        WHERE set_name = ?
        ORDER BY position
    `, set)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		f, err := geojson.UnmarshalFeature([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		fc.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fc, nil
}

// has reports whether set was ever saved, possibly empty.
func (s *Store) has(ctx context.Context, set string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sets WHERE name = ?`, set).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Sets lists the names of saved sets.
func (s *Store) Sets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
