package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := models.Group{
		Token:      "g1",
		Name:       "Trip",
		Currency:   "EUR",
		CreatedAt:  "2024-05-01T10:00:00.000",
		ModifiedAt: "2024-05-01T10:00:00.000",
		Status:     models.StatusToCreate,
	}
	if err := store.PutGroup(ctx, group); err != nil {
		t.Fatalf("PutGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if *got != group {
		t.Errorf("GetGroup = %+v, want %+v", *got, group)
	}

	// Put is an upsert.
	group.Name = "Road Trip"
	group.Status = models.StatusNothing
	if err := store.PutGroup(ctx, group); err != nil {
		t.Fatalf("PutGroup upsert failed: %v", err)
	}
	got, err = store.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Name != "Road Trip" || got.Status != models.StatusNothing {
		t.Errorf("upsert not applied: %+v", *got)
	}

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(groups))
	}

	if err := store.DeleteGroup(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := store.GetGroup(ctx, "g1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemberScopedByGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, m := range []models.Member{
		{UUID: "m1", GroupToken: "g1", Nickname: "Alice", ModifiedAt: "2024-05-01T10:00:00.000"},
		{UUID: "m2", GroupToken: "g1", Nickname: "Bob", ModifiedAt: "2024-05-01T10:00:00.000"},
		{UUID: "m3", GroupToken: "g2", Nickname: "Other", ModifiedAt: "2024-05-01T10:00:00.000"},
	} {
		if err := store.PutMember(ctx, m); err != nil {
			t.Fatalf("PutMember failed: %v", err)
		}
	}

	members, err := store.ListMembers(ctx, "g1")
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members in g1, got %d", len(members))
	}
	// Ordered by nickname.
	if members[0].Nickname != "Alice" || members[1].Nickname != "Bob" {
		t.Errorf("unexpected order: %+v", members)
	}
}

func TestTransactionRewritesDebtSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tx := models.Transaction{
		UUID:         "t1",
		GroupToken:   "g1",
		Description:  "Lunch",
		Amount:       "30",
		Currency:     "EUR",
		ExchangeRate: "1",
		PaidBy:       "m1",
		CreatedAt:    "2024-05-01T10:00:00.000",
		ModifiedAt:   "2024-05-01T10:00:00.000",
		Debtors:      []models.Debt{{MemberUUID: "m2", Amount: "10"}},
	}
	if err := store.PutTransaction(ctx, tx); err != nil {
		t.Fatalf("PutTransaction failed: %v", err)
	}

	tx.Debtors = []models.Debt{
		{MemberUUID: "m2", Amount: "5"},
		{MemberUUID: "m3", Amount: "5"},
	}
	if err := store.PutTransaction(ctx, tx); err != nil {
		t.Fatalf("PutTransaction rewrite failed: %v", err)
	}

	got, err := store.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if len(got.Debtors) != 2 {
		t.Fatalf("expected 2 debts after rewrite, got %d", len(got.Debtors))
	}

	// Cascade: deleting the transaction clears its debts, so a
	// re-created transaction with the same id starts clean.
	if err := store.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	tx.Debtors = nil
	if err := store.PutTransaction(ctx, tx); err != nil {
		t.Fatalf("PutTransaction failed: %v", err)
	}
	got, err = store.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if len(got.Debtors) != 0 {
		t.Errorf("expected no debts, got %+v", got.Debtors)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, tx := range []models.Transaction{
		{UUID: "old", GroupToken: "g1", Amount: "1", Currency: "EUR", ExchangeRate: "1",
			PaidBy: "m1", CreatedAt: "2024-05-01T10:00:00.000", ModifiedAt: "2024-05-01T10:00:00.000"},
		{UUID: "new", GroupToken: "g1", Amount: "2", Currency: "EUR", ExchangeRate: "1",
			PaidBy: "m1", CreatedAt: "2024-05-02T10:00:00.000", ModifiedAt: "2024-05-02T10:00:00.000"},
	} {
		if err := store.PutTransaction(ctx, tx); err != nil {
			t.Fatalf("PutTransaction failed: %v", err)
		}
	}

	txs, err := store.ListTransactions(ctx, "g1")
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 2 || txs[0].UUID != "new" {
		t.Errorf("expected newest first, got %+v", txs)
	}
}

func TestBindingUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetBinding(ctx, "g1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing binding, got %v", err)
	}

	if err := store.PutBinding(ctx, models.UserBinding{GroupToken: "g1", MemberUUID: "m1"}); err != nil {
		t.Fatalf("PutBinding failed: %v", err)
	}
	if err := store.PutBinding(ctx, models.UserBinding{GroupToken: "g1", MemberUUID: "m2"}); err != nil {
		t.Fatalf("PutBinding upsert failed: %v", err)
	}

	binding, err := store.GetBinding(ctx, "g1")
	if err != nil {
		t.Fatalf("GetBinding failed: %v", err)
	}
	if binding.MemberUUID != "m2" {
		t.Errorf("binding member = %s, want m2 (one row per group)", binding.MemberUUID)
	}
}
