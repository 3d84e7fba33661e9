package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SaveFollowUps persists detected follow-ups, skipping IDs already
// stored. Returns the number of newly saved rows.
func (s *SQLiteStore) SaveFollowUps(ctx context.Context, items []*FollowUp) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	saved := 0
	for _, fu := range items {
		if fu.ID == "" || fu.MemoID == "" {
			continue
		}
		createdAt := fu.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		result, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO follow_ups
			 (id, memo_id, text, action, contact_name, contact_id, priority, context, completed, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fu.ID, fu.MemoID, fu.Text, fu.Action, fu.ContactName, fu.ContactID,
			fu.Priority, fu.Context, boolToInt(fu.Completed), createdAt)
		if err != nil {
			tx.Rollback()
			// Follow-ups reference memos; an unknown memo is a caller bug.
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return 0, fmt.Errorf("memo %s not found for follow-up %s: %w", fu.MemoID, fu.ID, err)
			}
			return 0, fmt.Errorf("inserting follow-up %s: %w", fu.ID, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			saved++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing follow-ups: %w", err)
	}
	return saved, nil
}

// ListFollowUps returns follow-ups newest first, high priority first
// within the same timestamp.
func (s *SQLiteStore) ListFollowUps(ctx context.Context, includeCompleted bool) ([]*FollowUp, error) {
	query := `SELECT id, memo_id, text, action, contact_name, COALESCE(contact_id, ''),
	                 priority, COALESCE(context, ''), completed, created_at
	          FROM follow_ups`
	if !includeCompleted {
		query += " WHERE completed = 0"
	}
	query += ` ORDER BY created_at DESC,
	           CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing follow-ups: %w", err)
	}
	defer rows.Close()

	var items []*FollowUp
	for rows.Next() {
		fu := &FollowUp{}
		var completed int
		if err := rows.Scan(&fu.ID, &fu.MemoID, &fu.Text, &fu.Action, &fu.ContactName,
			&fu.ContactID, &fu.Priority, &fu.Context, &completed, &fu.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning follow-up row: %w", err)
		}
		fu.Completed = completed != 0
		items = append(items, fu)
	}
	return items, rows.Err()
}

// CompleteFollowUp marks one follow-up done.
func (s *SQLiteStore) CompleteFollowUp(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE follow_ups SET completed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("completing follow-up: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("follow-up %s not found", id)
	}
	return nil
}

// Stats returns store counters.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM memos`, &stats.MemoCount},
		{`SELECT COUNT(*) FROM memos WHERE completed = 0`, &stats.OpenMemoCount},
		{`SELECT COUNT(*) FROM contacts`, &stats.ContactCount},
		{`SELECT COUNT(*) FROM follow_ups WHERE completed = 0`, &stats.FollowUpCount},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("collecting stats: %w", err)
		}
	}

	if s.dbPath != ":memory:" {
		var pageCount, pageSize int64
		if err := s.db.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err == nil {
			if err := s.db.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err == nil {
				stats.DBSizeBytes = pageCount * pageSize
			}
		}
	}

	return stats, nil
}
