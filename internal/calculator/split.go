package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// Shares maps each participant of one expense to the amount they owe.
type Shares map[string]money.Cents

// Total returns the sum of all shares.
func (s Shares) Total() money.Cents {
	var total money.Cents
	for _, share := range s {
		total += share
	}
	return total
}

// ComputeSplit computes each participant's share of a draft expense for a
// group with the given roster.
//
// Equal splits divide the amount in cents and hand out the remainder one
// cent at a time in ascending member order, so the shares always sum to the
// amount exactly. Custom splits must match the amount within one cent;
// per-participant rounding leftovers are reconciled the same way.
func ComputeSplit(members []string, draft models.ExpenseDraft) (Shares, error) {
	if draft.Amount <= 0 {
		return nil, invalid("amount", "must be positive, got %s", draft.Amount)
	}
	if draft.Amount > money.MaxAmount {
		return nil, invalid("amount", "exceeds maximum %s", money.MaxAmount)
	}

	roster := make(map[string]struct{}, len(members))
	for _, m := range members {
		roster[m] = struct{}{}
	}
	if _, ok := roster[draft.PaidBy]; !ok {
		return nil, invalid("paidBy", "%q is not a member of the group", draft.PaidBy)
	}

	participants, err := participantSet(draft.SplitAmong, roster)
	if err != nil {
		return nil, err
	}

	switch draft.SplitMethod {
	case models.SplitEqual, "":
		return splitEqual(draft.Amount, participants), nil
	case models.SplitCustom:
		return splitCustom(draft.Amount, participants, draft.CustomAmounts)
	default:
		return nil, invalid("splitMethod", "unknown method %q", draft.SplitMethod)
	}
}

// participantSet validates participants against the roster and returns them
// deduplicated in ascending order.
func participantSet(splitAmong []string, roster map[string]struct{}) ([]string, error) {
	seen := make(map[string]struct{}, len(splitAmong))
	participants := make([]string, 0, len(splitAmong))
	for _, p := range splitAmong {
		if _, ok := roster[p]; !ok {
			return nil, invalid("splitAmong", "%q is not a member of the group", p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		participants = append(participants, p)
	}
	if len(participants) == 0 {
		return nil, invalid("splitAmong", "at least one participant is required")
	}
	sort.Strings(participants)
	return participants, nil
}

func splitEqual(amount money.Cents, participants []string) Shares {
	n := money.Cents(len(participants))
	base, remainder := amount/n, amount%n

	shares := make(Shares, len(participants))
	for i, p := range participants {
		share := base
		if money.Cents(i) < remainder {
			share++
		}
		shares[p] = share
	}
	return shares
}

func splitCustom(amount money.Cents, participants []string, custom map[string]decimal.Decimal) (Shares, error) {
	if len(custom) == 0 {
		return nil, invalid("customAmounts", "required for a custom split")
	}

	sum := decimal.Zero
	shares := make(Shares, len(participants))
	for _, p := range participants {
		// A participant without an entry owes nothing but still counts
		// towards the sum check below.
		v := custom[p]
		if v.IsNegative() {
			return nil, invalid("customAmounts", "amount for %q is negative", p)
		}
		share, err := money.FromDecimal(v)
		if err != nil {
			return nil, invalid("customAmounts", "amount for %q exceeds maximum %s", p, money.MaxAmount)
		}
		sum = sum.Add(v)
		shares[p] = share
	}

	if sum.Sub(amount.Decimal()).Abs().GreaterThanOrEqual(money.EpsilonDecimal) {
		return nil, invalid("customAmounts", "sum %s does not match amount %s",
			sum.String(), amount.Decimal().StringFixed(2))
	}

	reconcile(shares, participants, amount-shares.Total())
	return shares, nil
}

// reconcile spreads a sub-epsilon rounding residual over the shares one cent
// at a time in participant order, never driving a share below zero.
func reconcile(shares Shares, participants []string, residual money.Cents) {
	step := money.Cents(1)
	if residual < 0 {
		step = -1
	}
	for residual != 0 {
		progressed := false
		for _, p := range participants {
			if residual == 0 {
				break
			}
			if step < 0 && shares[p] == 0 {
				continue
			}
			shares[p] += step
			residual -= step
			progressed = true
		}
		if !progressed {
			return
		}
	}
}
