package settlement

import "sort"

// Settle matches creditors with debtors using a greedy two-pointer scan
// and returns the transfers that cancel the balances, largest-settling
// first.
//
// Not guaranteed globally minimal in transfer count for every topology,
// but optimal for the common case of a few extremes. Termination is
// guaranteed because every step zeroes at least one side; if rounding
// left a residual that neither side can cancel, the scan stops rather
// than looping.
func Settle(balances []Balance) []Transfer {
	// Work on a copy so callers keep their balances.
	work := make([]Balance, len(balances))
	copy(work, balances)

	sort.SliceStable(work, func(a, b int) bool {
		return work[a].Amount.GreaterThan(work[b].Amount)
	})

	var transfers []Transfer
	i, j := 0, len(work)-1

	for i < j {
		creditor := &work[i]
		debtor := &work[j]

		if creditor.Amount.Sign() <= 0 || debtor.Amount.Sign() >= 0 {
			break
		}

		amount := creditor.Amount
		if owed := debtor.Amount.Neg(); owed.LessThan(amount) {
			amount = owed
		}

		transfers = append(transfers, Transfer{
			FromUUID: debtor.MemberUUID,
			ToUUID:   creditor.MemberUUID,
			Amount:   amount,
		})

		creditor.Amount = creditor.Amount.Sub(amount)
		debtor.Amount = debtor.Amount.Add(amount)

		if creditor.Amount.IsZero() {
			i++
		}
		if debtor.Amount.IsZero() {
			j--
		}
	}
	return transfers
}
