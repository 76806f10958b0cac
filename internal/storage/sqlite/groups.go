package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// ListGroups returns every group known locally, tombstoned rows included.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token, name, currency, created_at, modified_at, status FROM groups ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.Token, &g.Name, &g.Currency, &g.CreatedAt, &g.ModifiedAt, &g.Status); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// GetGroup retrieves one group by token.
func (s *SQLiteStore) GetGroup(ctx context.Context, token string) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx,
		"SELECT token, name, currency, created_at, modified_at, status FROM groups WHERE token = ?",
		token,
	).Scan(&g.Token, &g.Name, &g.Currency, &g.CreatedAt, &g.ModifiedAt, &g.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", token, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

// PutGroup inserts or replaces a group row.
func (s *SQLiteStore) PutGroup(ctx context.Context, group models.Group) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (token, name, currency, created_at, modified_at, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET
		   name = excluded.name,
		   currency = excluded.currency,
		   created_at = excluded.created_at,
		   modified_at = excluded.modified_at,
		   status = excluded.status`,
		group.Token, group.Name, group.Currency, group.CreatedAt, group.ModifiedAt, group.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to put group: %w", err)
	}
	return nil
}

// DeleteGroup physically removes a group row.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
