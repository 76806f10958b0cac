package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sharecount/sharecount/internal/models"
)

func member(uuid, nickname string) models.Member {
	return models.Member{UUID: uuid, Nickname: nickname, ModifiedAt: "2024-01-01T00:00:00.000"}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balanceFor(t *testing.T, balances []Balance, uuid string) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.MemberUUID == uuid {
			return b.Amount
		}
	}
	t.Fatalf("no balance for %s", uuid)
	return decimal.Zero
}

func TestBuildLedgerAndNetBalances(t *testing.T) {
	members := []models.Member{member("u1", "Alice"), member("u2", "Bob"), member("u3", "Carol")}
	txs := []models.Transaction{
		{
			UUID:         "t1",
			Description:  "Lunch",
			Amount:       "30",
			Currency:     "EUR",
			ExchangeRate: "1",
			PaidBy:       "u1",
			Debtors: []models.Debt{
				{MemberUUID: "u2", Amount: "10"},
				{MemberUUID: "u3", Amount: "20"},
			},
		},
	}

	ledger, err := BuildLedger(members, txs)
	if err != nil {
		t.Fatalf("BuildLedger failed: %v", err)
	}
	// 3 zero seeds + 1 credit + 2 debits
	if len(ledger) != 6 {
		t.Fatalf("expected 6 ledger entries, got %d", len(ledger))
	}

	balances := NetBalances(ledger)
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}
	if got := balanceFor(t, balances, "u1"); !got.Equal(dec("30")) {
		t.Errorf("Alice balance = %s, want 30", got)
	}
	if got := balanceFor(t, balances, "u2"); !got.Equal(dec("-10")) {
		t.Errorf("Bob balance = %s, want -10", got)
	}
	if got := balanceFor(t, balances, "u3"); !got.Equal(dec("-20")) {
		t.Errorf("Carol balance = %s, want -20", got)
	}
}

func TestBuildLedgerAppliesExchangeRate(t *testing.T) {
	members := []models.Member{member("u1", "Alice"), member("u2", "Bob")}
	txs := []models.Transaction{
		{
			UUID:         "t1",
			Amount:       "100",
			Currency:     "USD",
			ExchangeRate: "0.92",
			PaidBy:       "u1",
			Debtors:      []models.Debt{{MemberUUID: "u2", Amount: "100"}},
		},
	}

	ledger, err := BuildLedger(members, txs)
	if err != nil {
		t.Fatalf("BuildLedger failed: %v", err)
	}
	balances := NetBalances(ledger)
	if got := balanceFor(t, balances, "u1"); !got.Equal(dec("92")) {
		t.Errorf("payer balance = %s, want 92", got)
	}
	if got := balanceFor(t, balances, "u2"); !got.Equal(dec("-92")) {
		t.Errorf("debtor balance = %s, want -92", got)
	}
}

func TestBuildLedgerRejectsMalformedAmount(t *testing.T) {
	txs := []models.Transaction{
		{UUID: "t1", Amount: "not-a-number", ExchangeRate: "1", PaidBy: "u1"},
	}
	if _, err := BuildLedger(nil, txs); err == nil {
		t.Error("expected error for malformed amount, got nil")
	}
}

func TestInactiveMemberKeepsZeroBalance(t *testing.T) {
	members := []models.Member{member("u1", "Alice"), member("u2", "Idle")}
	ledger, err := BuildLedger(members, nil)
	if err != nil {
		t.Fatalf("BuildLedger failed: %v", err)
	}
	balances := NetBalances(ledger)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if got := balanceFor(t, balances, "u2"); !got.IsZero() {
		t.Errorf("idle member balance = %s, want 0", got)
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name         string
		balances     []Balance
		validateFunc func(t *testing.T, transfers []Transfer)
	}{
		{
			name: "two debtors one creditor",
			balances: []Balance{
				{MemberUUID: "alice", Amount: dec("30")},
				{MemberUUID: "bob", Amount: dec("-10")},
				{MemberUUID: "carol", Amount: dec("-20")},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 2 {
					t.Fatalf("expected 2 transfers, got %d", len(transfers))
				}
				// Largest-settling first: Carol owes the most.
				if transfers[0].FromUUID != "carol" || transfers[0].ToUUID != "alice" || !transfers[0].Amount.Equal(dec("20")) {
					t.Errorf("transfer 0 = %+v, want carol->alice 20", transfers[0])
				}
				if transfers[1].FromUUID != "bob" || transfers[1].ToUUID != "alice" || !transfers[1].Amount.Equal(dec("10")) {
					t.Errorf("transfer 1 = %+v, want bob->alice 10", transfers[1])
				}
			},
		},
		{
			name: "all zero means nothing to settle",
			balances: []Balance{
				{MemberUUID: "alice", Amount: decimal.Zero},
				{MemberUUID: "bob", Amount: decimal.Zero},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %d", len(transfers))
				}
			},
		},
		{
			name: "chain settles across multiple creditors",
			balances: []Balance{
				{MemberUUID: "a", Amount: dec("25")},
				{MemberUUID: "b", Amount: dec("5")},
				{MemberUUID: "c", Amount: dec("-30")},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 2 {
					t.Fatalf("expected 2 transfers, got %d", len(transfers))
				}
				total := decimal.Zero
				for _, tr := range transfers {
					if tr.FromUUID != "c" {
						t.Errorf("unexpected debtor %s", tr.FromUUID)
					}
					total = total.Add(tr.Amount)
				}
				if !total.Equal(dec("30")) {
					t.Errorf("total settled = %s, want 30", total)
				}
			},
		},
		{
			name: "rounding residual stops instead of looping",
			balances: []Balance{
				{MemberUUID: "a", Amount: dec("10")},
				{MemberUUID: "b", Amount: dec("-9.99")},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 1 {
					t.Fatalf("expected 1 transfer, got %d", len(transfers))
				}
				if !transfers[0].Amount.Equal(dec("9.99")) {
					t.Errorf("transfer amount = %s, want 9.99", transfers[0].Amount)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, Settle(tt.balances))
		})
	}
}

// TestSettleConservation checks the zero-sum property: each member's
// total outgoing equals their negative balance and total incoming
// equals their positive balance.
func TestSettleConservation(t *testing.T) {
	balances := []Balance{
		{MemberUUID: "a", Amount: dec("17.50")},
		{MemberUUID: "b", Amount: dec("2.50")},
		{MemberUUID: "c", Amount: dec("-12.25")},
		{MemberUUID: "d", Amount: dec("-7.75")},
	}

	transfers := Settle(balances)

	outgoing := make(map[string]decimal.Decimal)
	incoming := make(map[string]decimal.Decimal)
	for _, tr := range transfers {
		outgoing[tr.FromUUID] = outgoing[tr.FromUUID].Add(tr.Amount)
		incoming[tr.ToUUID] = incoming[tr.ToUUID].Add(tr.Amount)
	}

	for _, b := range balances {
		switch b.Amount.Sign() {
		case 1:
			if !incoming[b.MemberUUID].Equal(b.Amount) {
				t.Errorf("%s incoming = %s, want %s", b.MemberUUID, incoming[b.MemberUUID], b.Amount)
			}
		case -1:
			if !outgoing[b.MemberUUID].Equal(b.Amount.Neg()) {
				t.Errorf("%s outgoing = %s, want %s", b.MemberUUID, outgoing[b.MemberUUID], b.Amount.Neg())
			}
		}
	}
}

func TestSettleDoesNotMutateInput(t *testing.T) {
	balances := []Balance{
		{MemberUUID: "a", Amount: dec("10")},
		{MemberUUID: "b", Amount: dec("-10")},
	}
	Settle(balances)
	if !balances[0].Amount.Equal(dec("10")) || !balances[1].Amount.Equal(dec("-10")) {
		t.Error("Settle mutated its input")
	}
}
