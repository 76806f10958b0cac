package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// ListMembers returns every member of a group, tombstoned rows included.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupToken string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT uuid, group_token, nickname, modified_at, status FROM group_members WHERE group_token = ? ORDER BY nickname",
		groupToken,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UUID, &m.GroupToken, &m.Nickname, &m.ModifiedAt, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one member by uuid.
func (s *SQLiteStore) GetMember(ctx context.Context, uuid string) (*models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx,
		"SELECT uuid, group_token, nickname, modified_at, status FROM group_members WHERE uuid = ?",
		uuid,
	).Scan(&m.UUID, &m.GroupToken, &m.Nickname, &m.ModifiedAt, &m.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", uuid, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// PutMember inserts or replaces a member row.
func (s *SQLiteStore) PutMember(ctx context.Context, member models.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (uuid, group_token, nickname, modified_at, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(uuid) DO UPDATE SET
		   group_token = excluded.group_token,
		   nickname = excluded.nickname,
		   modified_at = excluded.modified_at,
		   status = excluded.status`,
		member.UUID, member.GroupToken, member.Nickname, member.ModifiedAt, member.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to put member: %w", err)
	}
	return nil
}

// DeleteMember physically removes a member row.
func (s *SQLiteStore) DeleteMember(ctx context.Context, uuid string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM group_members WHERE uuid = ?", uuid); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
