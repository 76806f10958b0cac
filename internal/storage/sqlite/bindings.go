package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// GetBinding returns which member this device acts as in a group.
func (s *SQLiteStore) GetBinding(ctx context.Context, groupToken string) (*models.UserBinding, error) {
	var b models.UserBinding
	err := s.db.QueryRowContext(ctx,
		"SELECT group_token, member_uuid FROM user_bindings WHERE group_token = ?",
		groupToken,
	).Scan(&b.GroupToken, &b.MemberUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("binding for group %s: %w", groupToken, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get binding: %w", err)
	}
	return &b, nil
}

// PutBinding upserts the device's member binding for a group.
func (s *SQLiteStore) PutBinding(ctx context.Context, binding models.UserBinding) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_bindings (group_token, member_uuid) VALUES (?, ?)
		 ON CONFLICT(group_token) DO UPDATE SET member_uuid = excluded.member_uuid`,
		binding.GroupToken, binding.MemberUUID,
	)
	if err != nil {
		return fmt.Errorf("failed to put binding: %w", err)
	}
	return nil
}
