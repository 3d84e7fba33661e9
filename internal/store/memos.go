package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddMemo inserts a new memo. An empty ID is assigned a fresh UUID.
func (s *SQLiteStore) AddMemo(ctx context.Context, m *Memo) error {
	if m.Text == "" {
		return fmt.Errorf("memo text cannot be empty")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Kind == "" {
		m.Kind = "note"
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (id, text, kind, title, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Text, m.Kind, m.Title, boolToInt(m.Completed), m.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("inserting memo: %w", err)
	}

	m.UpdatedAt = now
	return nil
}

// GetMemo retrieves a memo by ID. Returns nil if not found.
func (s *SQLiteStore) GetMemo(ctx context.Context, id string) (*Memo, error) {
	m := &Memo{}
	var title sql.NullString
	var completed int

	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, kind, title, completed, created_at, updated_at
		 FROM memos WHERE id = ?`, id,
	).Scan(&m.ID, &m.Text, &m.Kind, &title, &completed, &m.CreatedAt, &m.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting memo %s: %w", id, err)
	}

	m.Title = title.String
	m.Completed = completed != 0
	return m, nil
}

// ListMemos returns memos newest first.
func (s *SQLiteStore) ListMemos(ctx context.Context, opts ListOpts) ([]*Memo, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := `SELECT id, text, kind, title, completed, created_at, updated_at FROM memos WHERE 1=1`
	args := []interface{}{}

	if opts.Kind != "" {
		query += " AND kind = ?"
		args = append(args, opts.Kind)
	}
	if !opts.IncludeCompleted {
		query += " AND completed = 0"
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing memos: %w", err)
	}
	defer rows.Close()

	var memos []*Memo
	for rows.Next() {
		m := &Memo{}
		var title sql.NullString
		var completed int
		if err := rows.Scan(&m.ID, &m.Text, &m.Kind, &title, &completed, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning memo row: %w", err)
		}
		m.Title = title.String
		m.Completed = completed != 0
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

// UpdateMemoTitle sets a memo's title.
func (s *SQLiteStore) UpdateMemoTitle(ctx context.Context, id, title string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE memos SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating memo title: %w", err)
	}
	return requireRow(result, id)
}

// SetMemoCompleted marks a memo done or open again.
func (s *SQLiteStore) SetMemoCompleted(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE memos SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating memo completion: %w", err)
	}
	return requireRow(result, id)
}

// DeleteMemo removes a memo and, via cascade, its follow-ups.
func (s *SQLiteStore) DeleteMemo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM memos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting memo: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("memo %s not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
