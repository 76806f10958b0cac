// Package settlement reduces a transaction ledger into net balances and
// a minimal set of settling transfers. Pure functions, no I/O; all
// arithmetic is exact decimal.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sharecount/sharecount/internal/models"
)

// Entry is one signed monetary contribution attributed to a member, in
// the group currency: positive for money fronted, negative for a share
// owed.
type Entry struct {
	MemberUUID string
	Amount     decimal.Decimal
}

// Balance is one member's net position: positive means they are owed
// money, negative means they owe.
type Balance struct {
	MemberUUID string
	Amount     decimal.Decimal
}

// Transfer is a recommended payment from one member to another that
// cancels out net balances.
type Transfer struct {
	FromUUID string
	ToUUID   string
	Amount   decimal.Decimal
}

// BuildLedger derives the raw ledger from a group's members and
// transactions. Every member gets a zero seed entry so inactive members
// still surface with a zero balance. Each transaction credits the payer
// with amount x exchange_rate and debits every debtor with their share
// x exchange_rate.
//
// Amount strings are expected pre-validated; a malformed decimal is
// still reported rather than silently skewing the ledger.
func BuildLedger(members []models.Member, txs []models.Transaction) ([]Entry, error) {
	entries := make([]Entry, 0, len(members)+len(txs)*2)

	for _, m := range members {
		entries = append(entries, Entry{MemberUUID: m.UUID, Amount: decimal.Zero})
	}

	for _, tx := range txs {
		rate, err := decimal.NewFromString(tx.ExchangeRate)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad exchange rate %q: %w", tx.UUID, tx.ExchangeRate, err)
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad amount %q: %w", tx.UUID, tx.Amount, err)
		}
		entries = append(entries, Entry{MemberUUID: tx.PaidBy, Amount: amount.Mul(rate)})

		for _, debt := range tx.Debtors {
			share, err := decimal.NewFromString(debt.Amount)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: bad debt amount %q: %w", tx.UUID, debt.Amount, err)
			}
			entries = append(entries, Entry{MemberUUID: debt.MemberUUID, Amount: share.Mul(rate).Neg()})
		}
	}
	return entries, nil
}

// NetBalances groups ledger entries by member, summing amounts into one
// signed balance per member. Output order is first appearance in the
// ledger, so the seed entries keep it deterministic.
func NetBalances(entries []Entry) []Balance {
	index := make(map[string]int)
	balances := make([]Balance, 0)

	for _, e := range entries {
		if i, ok := index[e.MemberUUID]; ok {
			balances[i].Amount = balances[i].Amount.Add(e.Amount)
			continue
		}
		index[e.MemberUUID] = len(balances)
		balances = append(balances, Balance{MemberUUID: e.MemberUUID, Amount: e.Amount})
	}
	return balances
}
