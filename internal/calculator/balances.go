package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// Balances maps member to net position. Positive means the member is owed
// money, negative means they owe money.
type Balances map[string]money.Cents

// Sum returns the total of all balances. For a consistent ledger it is zero.
func (b Balances) Sum() money.Cents {
	var total money.Cents
	for _, v := range b {
		total += v
	}
	return total
}

// Members returns the member identifiers in ascending order.
func (b Balances) Members() []string {
	members := make([]string, 0, len(b))
	for m := range b {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// MemberBalance is one member's position within a group.
type MemberBalance struct {
	Member string      `json:"member"`
	Paid   money.Cents `json:"paid"`  // Total amount paid across all expenses
	Share  money.Cents `json:"share"` // Total of this member's shares
	Net    money.Cents `json:"net"`   // Paid - Share
}

// ComputeBalances folds a group's active expenses into per-member balances.
//
// Algorithm:
//   - every roster member starts at zero
//   - for each expense, each participant's balance drops by their share
//     and the payer's balance rises by the full amount
//
// The fold is commutative, so any ordering of the same expense set gives
// identical results. Deleting an expense only means leaving it out of the
// next fold.
func ComputeBalances(members []string, expenses []models.Expense) (Balances, error) {
	paid, owed, err := fold(members, expenses)
	if err != nil {
		return nil, err
	}

	balances := make(Balances, len(paid))
	for m := range paid {
		balances[m] = paid[m] - owed[m]
	}
	if sum := balances.Sum(); sum != 0 {
		return nil, &InternalConsistencyError{Detail: fmt.Sprintf("balances sum to %s, want 0", sum)}
	}
	return balances, nil
}

// ComputeMemberBalances is ComputeBalances broken down into paid and owed
// totals, listed in roster order.
func ComputeMemberBalances(members []string, expenses []models.Expense) ([]MemberBalance, error) {
	paid, owed, err := fold(members, expenses)
	if err != nil {
		return nil, err
	}

	out := make([]MemberBalance, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, MemberBalance{
			Member: m,
			Paid:   paid[m],
			Share:  owed[m],
			Net:    paid[m] - owed[m],
		})
	}
	return out, nil
}

func fold(members []string, expenses []models.Expense) (paid, owed map[string]money.Cents, err error) {
	paid = make(map[string]money.Cents, len(members))
	owed = make(map[string]money.Cents, len(members))
	for _, m := range members {
		paid[m] = 0
		owed[m] = 0
	}

	for i := range expenses {
		e := &expenses[i]
		shares, err := ComputeSplit(members, e.Draft())
		if err != nil {
			// Stored expenses were validated on write, so a failure here
			// means the snapshot no longer matches its roster.
			return nil, nil, &InternalConsistencyError{
				Detail: fmt.Sprintf("expense %s cannot be split against the group roster", e.ID),
				Err:    err,
			}
		}
		for p, share := range shares {
			owed[p] += share
		}
		paid[e.PaidBy] += e.Amount
	}
	return paid, owed, nil
}
