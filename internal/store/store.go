// Package store keeps a history of packing runs in SQLite. Only run
// metadata is stored, never the scenes themselves.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var ErrNotFound = errors.New("run not found")

// TIME_FORMAT keeps a fixed width so created_at sorts as text.
const TIME_FORMAT = "2006-01-02T15:04:05.000000000Z07:00"

//go:embed schema.sql
var schemaSQL string

// Run is one render: where the scene came from, the seed it was packed
// with and how many circles were asked for and placed.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Seed      int64     `json:"seed"`
	Requested int       `json:"requested"`
	Placed    int       `json:"placed"`
	Shapes    int       `json:"shapes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================================
// SQLite Repository
// ============================================================

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init applies the schema.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Record(ctx context.Context, r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO runs (id, source, seed, requested, placed, shapes, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, r.ID, r.Source, r.Seed, r.Requested, r.Placed, r.Shapes, r.CreatedAt.UTC().Format(TIME_FORMAT))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var created string
	if err := row.Scan(&r.ID, &r.Source, &r.Seed, &r.Requested, &r.Placed, &r.Shapes, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(TIME_FORMAT, created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return &r, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, source, seed, requested, placed, shapes, created_at
        FROM runs
        WHERE id = ?
    `, id)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, source, seed, requested, placed, shapes, created_at
        FROM runs
        ORDER BY created_at DESC, id
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}
