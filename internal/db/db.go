package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	dbh.SetMaxOpenConns(1)
	dbh.SetMaxIdleConns(1)
	dbh.SetConnMaxLifetime(0)

	return &Store{db: dbh}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DuplicateNickError reports an insert that lost to an existing row on the
// nick unique constraint. The message is the engine's constraint text and
// names nothing beyond the violated column, so it is safe to return to the
// caller.
type DuplicateNickError struct {
	msg string
}

func (e *DuplicateNickError) Error() string { return e.msg }

type Visitor struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	IP        string    `json:"ip"`
	Nick      string    `json:"nick"`
	Group     *string   `json:"group"`
	Email     *string   `json:"email"`
	Extra     *string   `json:"extra"`
}

// PublicVisitor is the projection exposed to unauthenticated callers.
type PublicVisitor struct {
	ID    int64   `json:"id"`
	Nick  string  `json:"nick"`
	Group *string `json:"group"`
}

type InsertVisitorParams struct {
	CreatedAt time.Time
	IP        string
	Nick      string
	Group     *string
	Email     *string
	Extra     *string
}

// InsertVisitor creates one row and returns its id. A nick collision is
// detected from the engine's unique-constraint error rather than a
// pre-check, so concurrent inserts of the same nick cannot both succeed.
func (s *Store) InsertVisitor(ctx context.Context, params InsertVisitorParams) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO visitor (created_at, ip, nick, "group", email, extra)
		VALUES (?, ?, ?, ?, ?, ?)
	`, params.CreatedAt.UTC().Format(time.RFC3339), params.IP, params.Nick, params.Group, params.Email, params.Extra)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return 0, &DuplicateNickError{msg: se.Error()}
		}
		return 0, fmt.Errorf("insert visitor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert visitor id: %w", err)
	}
	return id, nil
}

func (s *Store) ListVisitors(ctx context.Context) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, ip, nick, "group", email, extra
		FROM visitor
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var createdAt string
		if err := rows.Scan(&v.ID, &createdAt, &v.IP, &v.Nick, &v.Group, &v.Email, &v.Extra); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) ListPublicVisitors(ctx context.Context) ([]PublicVisitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nick, "group" FROM visitor
	`)
	if err != nil {
		return nil, fmt.Errorf("list public visitors: %w", err)
	}
	defer rows.Close()

	var out []PublicVisitor
	for rows.Next() {
		var v PublicVisitor
		if err := rows.Scan(&v.ID, &v.Nick, &v.Group); err != nil {
			return nil, fmt.Errorf("scan public visitor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteVisitor removes the row with the given id and reports whether a
// row was actually removed.
func (s *Store) DeleteVisitor(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitor WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete visitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete visitor rows: %w", err)
	}
	return n > 0, nil
}

func (s *Store) CountVisitors(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM visitor`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return n, nil
}
