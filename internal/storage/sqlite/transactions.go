package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// ListTransactions returns every transaction of a group with its debt
// set, tombstoned rows included, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, groupToken string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid, group_token, description, amount, currency, exchange_rate, paid_by, created_at, modified_at, status
		 FROM transactions WHERE group_token = ? ORDER BY created_at DESC`,
		groupToken,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.UUID, &t.GroupToken, &t.Description, &t.Amount, &t.Currency,
			&t.ExchangeRate, &t.PaidBy, &t.CreatedAt, &t.ModifiedAt, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	for i := range txs {
		debts, err := s.debtsFor(ctx, txs[i].UUID)
		if err != nil {
			return nil, err
		}
		txs[i].Debtors = debts
	}
	return txs, nil
}

// GetTransaction retrieves one transaction with its debt set.
func (s *SQLiteStore) GetTransaction(ctx context.Context, uuid string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, group_token, description, amount, currency, exchange_rate, paid_by, created_at, modified_at, status
		 FROM transactions WHERE uuid = ?`,
		uuid,
	).Scan(&t.UUID, &t.GroupToken, &t.Description, &t.Amount, &t.Currency,
		&t.ExchangeRate, &t.PaidBy, &t.CreatedAt, &t.ModifiedAt, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", uuid, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	debts, err := s.debtsFor(ctx, t.UUID)
	if err != nil {
		return nil, err
	}
	t.Debtors = debts
	return &t, nil
}

// PutTransaction inserts or replaces a transaction row and rewrites its
// full debt set. The delete-all-then-reinsert runs inside one SQL
// transaction so a reader never observes a partial set.
func (s *SQLiteStore) PutTransaction(ctx context.Context, t models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO transactions (uuid, group_token, description, amount, currency, exchange_rate, paid_by, created_at, modified_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uuid) DO UPDATE SET
		   group_token = excluded.group_token,
		   description = excluded.description,
		   amount = excluded.amount,
		   currency = excluded.currency,
		   exchange_rate = excluded.exchange_rate,
		   paid_by = excluded.paid_by,
		   created_at = excluded.created_at,
		   modified_at = excluded.modified_at,
		   status = excluded.status`,
		t.UUID, t.GroupToken, t.Description, t.Amount, t.Currency,
		t.ExchangeRate, t.PaidBy, t.CreatedAt, t.ModifiedAt, t.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to put transaction: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "DELETE FROM debts WHERE transaction_uuid = ?", t.UUID); err != nil {
		return fmt.Errorf("failed to clear debts: %w", err)
	}
	for _, d := range t.Debtors {
		_, err := dbTx.ExecContext(ctx,
			"INSERT INTO debts (transaction_uuid, member_uuid, amount) VALUES (?, ?, ?)",
			t.UUID, d.MemberUUID, d.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction physically removes a transaction and, via cascade,
// its debt rows.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, uuid string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE uuid = ?", uuid); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) debtsFor(ctx context.Context, transactionUUID string) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_uuid, amount FROM debts WHERE transaction_uuid = ? ORDER BY id",
		transactionUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.MemberUUID, &d.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}
