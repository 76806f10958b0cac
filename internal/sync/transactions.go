package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sharecount/sharecount/internal/api"
	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// Transactions reconciles the transaction collection of a group,
// including each transaction's debt set.
type Transactions struct {
	store storage.Store
	api   api.Client
	proj  *Projection[models.Transaction]
	locks *scopeLocks
}

// NewTransactions creates a transaction reconciler over the given store
// and remote client.
func NewTransactions(store storage.Store, client api.Client) *Transactions {
	return &Transactions{
		store: store,
		api:   client,
		proj:  NewProjection[models.Transaction](),
		locks: newScopeLocks(),
	}
}

// Projection returns the observable transaction view.
func (r *Transactions) Projection() *Projection[models.Transaction] { return r.proj }

// List returns the non-tombstoned transactions of a group from the
// local store and publishes them.
func (r *Transactions) List(ctx context.Context, groupToken string) ([]models.Transaction, error) {
	txs, err := r.visible(ctx, groupToken)
	if err != nil {
		return nil, err
	}
	r.proj.Publish(txs)
	return txs, nil
}

// Add creates a transaction with its full debt set locally and
// optimistically pushes it. The caller provides description, amounts,
// currency, exchange rate, payer and debtors; identity and stamps are
// assigned here.
func (r *Transactions) Add(ctx context.Context, groupToken string, tx models.Transaction) (models.Transaction, error) {
	lock := r.locks.get(groupToken)
	lock.Lock()
	defer lock.Unlock()

	tx.UUID = uuid.NewString()
	tx.GroupToken = groupToken
	now := models.NowStamp()
	if tx.CreatedAt == "" {
		tx.CreatedAt = now
	}
	tx.ModifiedAt = now
	tx.Status = models.StatusToCreate

	_, pushErr := r.api.CreateTransactions(ctx, groupToken, []models.Transaction{tx})
	observePush("transaction", pushErr)
	if pushErr != nil {
		slog.Warn("transaction push failed, saved locally", "group", groupToken, "error", pushErr)
	}
	tx.Status = models.NextStatus(models.StatusToCreate, pushErr != nil)

	if err := r.store.PutTransaction(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	if err := r.publish(ctx, groupToken); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Modify replaces a transaction's content, rewriting the full debt set.
// Editing a tombstoned transaction is rejected.
func (r *Transactions) Modify(ctx context.Context, tx models.Transaction) error {
	scope, err := r.store.GetTransaction(ctx, tx.UUID)
	if err != nil {
		return fmt.Errorf("modify transaction: %w", err)
	}
	lock := r.locks.get(scope.GroupToken)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a concurrent pass may have purged or
	// replaced the row since the scope lookup.
	existing, err := r.store.GetTransaction(ctx, tx.UUID)
	if err != nil {
		return fmt.Errorf("modify transaction: %w", err)
	}
	if existing.Status == models.StatusToDelete {
		return fmt.Errorf("modify transaction %s: transaction is deleted", tx.UUID)
	}

	prev := existing.Status
	tx.GroupToken = existing.GroupToken
	tx.CreatedAt = existing.CreatedAt
	tx.ModifiedAt = models.NowStamp()

	_, pushErr := r.api.CreateTransactions(ctx, tx.GroupToken, []models.Transaction{tx})
	observePush("transaction", pushErr)
	if pushErr != nil {
		slog.Warn("transaction push failed, saved locally", "transaction", tx.UUID, "error", pushErr)
	}
	tx.Status = models.NextStatus(prev, pushErr != nil)

	if err := r.store.PutTransaction(ctx, tx); err != nil {
		return fmt.Errorf("modify transaction: %w", err)
	}
	return r.publish(ctx, tx.GroupToken)
}

// Delete tombstones a transaction and optimistically pushes the delete.
// A transaction the remote has never seen is purged outright.
func (r *Transactions) Delete(ctx context.Context, txUUID string) error {
	scope, err := r.store.GetTransaction(ctx, txUUID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	lock := r.locks.get(scope.GroupToken)
	lock.Lock()
	defer lock.Unlock()

	tx, err := r.store.GetTransaction(ctx, txUUID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tx.Status == models.StatusToCreate {
		if err := r.store.DeleteTransaction(ctx, txUUID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return r.publish(ctx, tx.GroupToken)
	}

	tx.ModifiedAt = models.NowStamp()
	pushErr := r.api.DeleteTransactions(ctx, tx.GroupToken, []models.Transaction{*tx})
	observePush("transaction", pushErr)
	if pushErr == nil {
		if err := r.store.DeleteTransaction(ctx, txUUID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
	} else {
		slog.Warn("transaction delete push failed, tombstoned locally", "transaction", txUUID, "error", pushErr)
		tx.Status = models.StatusToDelete
		if err := r.store.PutTransaction(ctx, *tx); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
	}
	return r.publish(ctx, tx.GroupToken)
}

// Synchronize converges the local transaction collection of one group
// with the remote list. Remote failures abort the pass without touching
// already-synced rows; only local store errors are returned.
func (r *Transactions) Synchronize(ctx context.Context, groupToken string) error {
	lock := r.locks.get(groupToken)
	lock.Lock()
	defer lock.Unlock()

	local, err := r.store.ListTransactions(ctx, groupToken)
	if err != nil {
		return fmt.Errorf("synchronize transactions: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	remote, err := r.api.ListTransactions(fetchCtx, groupToken)
	cancel()
	if err != nil {
		slog.Warn("transaction fetch failed, keeping local state", "group", groupToken, "error", err)
		syncPasses.WithLabelValues("transaction", "fetch_failed").Inc()
		return nil
	}

	plan := planMerge(local, remote)
	observePlan("transaction", plan)

	for _, tx := range plan.Upserts {
		tx.GroupToken = groupToken
		tx.Status = models.StatusNothing
		if err := r.store.PutTransaction(ctx, tx); err != nil {
			return fmt.Errorf("synchronize transactions: %w", err)
		}
	}
	for _, key := range plan.Purges {
		if err := r.store.DeleteTransaction(ctx, key); err != nil {
			return fmt.Errorf("synchronize transactions: %w", err)
		}
	}

	if _, err := r.api.CreateTransactions(ctx, groupToken, plan.Pushes); err != nil {
		slog.Warn("transaction push batch failed, retrying next pass", "group", groupToken, "error", err)
		pushFailures.WithLabelValues("transaction").Inc()
	} else {
		for _, tx := range plan.Pushes {
			tx.Status = models.StatusNothing
			if err := r.store.PutTransaction(ctx, tx); err != nil {
				return fmt.Errorf("synchronize transactions: %w", err)
			}
		}
	}

	if err := r.api.DeleteTransactions(ctx, groupToken, plan.RemoteDeletes); err != nil {
		slog.Warn("transaction delete batch failed, retrying next pass", "group", groupToken, "error", err)
		pushFailures.WithLabelValues("transaction").Inc()
	} else {
		for _, tx := range plan.RemoteDeletes {
			if err := r.store.DeleteTransaction(ctx, tx.UUID); err != nil {
				return fmt.Errorf("synchronize transactions: %w", err)
			}
		}
	}

	syncPasses.WithLabelValues("transaction", "ok").Inc()
	return r.publish(ctx, groupToken)
}

func (r *Transactions) visible(ctx context.Context, groupToken string) ([]models.Transaction, error) {
	all, err := r.store.ListTransactions(ctx, groupToken)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Status != models.StatusToDelete {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (r *Transactions) publish(ctx context.Context, groupToken string) error {
	txs, err := r.visible(ctx, groupToken)
	if err != nil {
		return err
	}
	r.proj.Publish(txs)
	return nil
}
