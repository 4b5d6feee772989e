package glossary

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for glossary lists.
type Store struct {
	db *sql.DB
}

// Open creates or opens the glossary database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create glossary dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateList(ctx context.Context, in ListInput) (*List, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	l := &List{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO glossary_lists (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Name, nullString(l.Description), formatTime(l.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("list %q: %w", l.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return l, nil
}

// Lists returns every list ordered by name.
func (s *Store) Lists(ctx context.Context) ([]List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM glossary_lists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var lists []List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// List looks a list up by name.
func (s *Store) List(ctx context.Context, name string) (*List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM glossary_lists WHERE name = ?`,
		strings.TrimSpace(name))

	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	return l, err
}

// DeleteList removes a list and, through the foreign key, its terms.
func (s *Store) DeleteList(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM glossary_lists WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) AddTerm(ctx context.Context, listName string, in TermInput) (*Term, error) {
	in.Term = strings.TrimSpace(in.Term)
	in.Replacement = strings.TrimSpace(in.Replacement)
	in.Note = strings.TrimSpace(in.Note)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	l, err := s.List(ctx, listName)
	if err != nil {
		return nil, err
	}

	t := &Term{
		ID:          uuid.NewString(),
		ListID:      l.ID,
		Term:        in.Term,
		Replacement: in.Replacement,
		Note:        in.Note,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO glossary_terms (id, list_id, term, replacement, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.ListID, t.Term, nullString(t.Replacement), nullString(t.Note), formatTime(t.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("term %q in %q: %w", t.Term, l.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert term: %w", err)
	}
	return t, nil
}

// Terms returns the terms of a list in insertion order.
func (s *Store) Terms(ctx context.Context, listName string) ([]Term, error) {
	l, err := s.List(ctx, listName)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, list_id, term, replacement, note, created_at
		 FROM glossary_terms WHERE list_id = ? ORDER BY rowid`, l.ID)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	terms := []Term{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, *t)
	}
	return terms, rows.Err()
}

func (s *Store) RemoveTerm(ctx context.Context, listName, term string) error {
	l, err := s.List(ctx, listName)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM glossary_terms WHERE list_id = ? AND term = ?`,
		l.ID, strings.TrimSpace(term))
	if err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("term %q in %q: %w", term, listName, ErrNotFound)
	}
	return nil
}

func scanList(scanner interface{ Scan(dest ...any) error }) (*List, error) {
	var (
		l           List
		description sql.NullString
		createdAt   string
	)
	if err := scanner.Scan(&l.ID, &l.Name, &description, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	l.Description = description.String
	return &l, nil
}

func scanTerm(scanner interface{ Scan(dest ...any) error }) (*Term, error) {
	var (
		t           Term
		replacement sql.NullString
		note        sql.NullString
		createdAt   string
	)
	if err := scanner.Scan(&t.ID, &t.ListID, &t.Term, &replacement, &note, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	t.Replacement = replacement.String
	t.Note = note.String
	return &t, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
