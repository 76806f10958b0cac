// Package api talks to the remote sharecount authority over HTTP.
//
// The remote contract is plain REST with JSON bodies, scoped by group
// token. Every call is idempotent from the caller's perspective and
// every failure (transport error, timeout, non-2xx) is one generic
// failure kind: the reconciler reacts identically to all of them by
// keeping local pending state and retrying on a later pass.
package api

import (
	"context"
	"errors"

	"github.com/sharecount/sharecount/internal/models"
)

// ErrRequestFailed wraps any non-2xx response. Transport errors are
// returned as-is; callers treat both the same way.
var ErrRequestFailed = errors.New("api: request failed")

// Client is the remote authority seen from the reconciler. Batch calls
// with empty slices are no-ops and must not hit the network.
type Client interface {
	// Group endpoints.
	GetGroup(ctx context.Context, token string) (*models.Group, error)
	UpsertGroup(ctx context.Context, group models.Group) error
	DeleteGroup(ctx context.Context, group models.Group) error

	// Member batch endpoints, scoped by group token.
	ListMembers(ctx context.Context, token string) ([]models.Member, error)
	CreateMembers(ctx context.Context, token string, members []models.Member) ([]models.Member, error)
	DeleteMembers(ctx context.Context, token string, members []models.Member) error

	// Transaction batch endpoints, scoped by group token. Transactions
	// carry their debtors inline.
	ListTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	CreateTransactions(ctx context.Context, token string, txs []models.Transaction) ([]models.Transaction, error)
	DeleteTransactions(ctx context.Context, token string, txs []models.Transaction) error
}
