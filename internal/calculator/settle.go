package calculator

import (
	"container/heap"
	"fmt"

	"github.com/mmynk/groupledger/internal/money"
)

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string      `json:"from"` // Member who owes
	To     string      `json:"to"`   // Member who is owed
	Amount money.Cents `json:"amount"`
}

// ComputeSettlements converts balances into a list of payments that brings
// every balance to zero.
//
// Greedy matching: the largest creditor is paired with the largest debtor
// (ties broken by ascending member name) and the smaller of the two
// magnitudes changes hands. Each step settles at least one party, so N
// members with non-zero balances need at most N-1 payments. This is not
// guaranteed to be the global minimum.
func ComputeSettlements(balances Balances) ([]Settlement, error) {
	if sum := balances.Sum(); sum.Abs() >= money.Epsilon {
		return nil, &InternalConsistencyError{Detail: fmt.Sprintf("balances sum to %s, want 0", sum)}
	}

	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for member, balance := range balances {
		switch {
		case balance >= money.Epsilon:
			*creditors = append(*creditors, &party{member: member, remaining: balance})
		case balance <= -money.Epsilon:
			*debtors = append(*debtors, &party{member: member, remaining: -balance})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	settlements := make([]Settlement, 0, max(creditors.Len()+debtors.Len()-1, 0))
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor, debtor := (*creditors)[0], (*debtors)[0]

		amount := min(creditor.remaining, debtor.remaining)
		settlements = append(settlements, Settlement{
			From:   debtor.member,
			To:     creditor.member,
			Amount: amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount
		settleTop(creditors)
		settleTop(debtors)
	}
	return settlements, nil
}

// settleTop drops the top party once it is within epsilon of zero, or
// restores heap order otherwise.
func settleTop(h *partyHeap) {
	if (*h)[0].remaining < money.Epsilon {
		heap.Pop(h)
		return
	}
	heap.Fix(h, 0)
}

type party struct {
	member    string
	remaining money.Cents // magnitude still to settle, always positive
}

// partyHeap is a max-heap on remaining, then ascending member.
type partyHeap []*party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining > h[j].remaining
	}
	return h[i].member < h[j].member
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(*party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return p
}
