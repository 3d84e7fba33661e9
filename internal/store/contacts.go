package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddContact inserts a confirmed contact. Returns the new contact ID.
// Duplicate names (case-insensitive, trimmed) are rejected by the
// unique index.
func (s *SQLiteStore) AddContact(ctx context.Context, c *Contact) (int64, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, fmt.Errorf("contact name cannot be empty")
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (name, relationship, created_at) VALUES (?, ?, ?)`,
		strings.TrimSpace(c.Name), c.Relationship, now)
	if err != nil {
		return 0, fmt.Errorf("inserting contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	return id, nil
}

// ListContacts returns all contacts ordered by name.
func (s *SQLiteStore) ListContacts(ctx context.Context) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(relationship, ''), created_at FROM contacts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		c := &Contact{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Relationship, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// FindContactByName looks up a contact by exact name, case-insensitive
// and trimmed — the same match the UI uses to suppress "link to
// contact" suggestions for names it already knows. Returns nil when no
// contact matches.
func (s *SQLiteStore) FindContactByName(ctx context.Context, name string) (*Contact, error) {
	c := &Contact{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(relationship, ''), created_at
		 FROM contacts WHERE LOWER(TRIM(name)) = LOWER(TRIM(?))`, name,
	).Scan(&c.ID, &c.Name, &c.Relationship, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding contact %q: %w", name, err)
	}
	return c, nil
}
