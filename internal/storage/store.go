// Package storage provides abstractions for the durable local store.
package storage

import (
	"context"
	"errors"

	"github.com/sharecount/sharecount/internal/models"
)

// ErrNotFound is returned when a row does not exist in the local store.
var ErrNotFound = errors.New("storage: not found")

// Store defines the interface for the device-local database holding the
// full offline copy of groups, members, transactions and debts.
// This abstraction allows swapping storage backends (SQLite today)
// without changing the reconciler layer.
//
// All writes are upserts: the reconciler decides the row content and
// status, the store persists whatever it is given. Deletes are
// physical; tombstoning is expressed through the row's Status field.
type Store interface {
	// Groups.
	ListGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, token string) (*models.Group, error)
	PutGroup(ctx context.Context, group models.Group) error
	DeleteGroup(ctx context.Context, token string) error

	// Members, scoped by group token.
	ListMembers(ctx context.Context, groupToken string) ([]models.Member, error)
	GetMember(ctx context.Context, uuid string) (*models.Member, error)
	PutMember(ctx context.Context, member models.Member) error
	DeleteMember(ctx context.Context, uuid string) error

	// Transactions, scoped by group token. A transaction's debt set is
	// read and written with it: PutTransaction rewrites the full set
	// (delete-all-then-reinsert) in a single database transaction so no
	// partial set is ever observable.
	ListTransactions(ctx context.Context, groupToken string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, uuid string) (*models.Transaction, error)
	PutTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, uuid string) error

	// User binding: which member this device acts as, one row per group.
	GetBinding(ctx context.Context, groupToken string) (*models.UserBinding, error)
	PutBinding(ctx context.Context, binding models.UserBinding) error

	// Close releases any resources held by the store.
	Close() error
}
