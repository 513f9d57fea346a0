package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	api "github.com/mmynk/groupledger/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		Id:             g.ID,
		Name:           g.Name,
		Members:        g.Members,
		CreatedAt:      g.CreatedAt,
		ExpenseVersion: g.ExpenseVersion,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		Id:            e.ID,
		GroupId:       e.GroupID,
		Title:         e.Title,
		Amount:        e.Amount.Decimal(),
		PaidBy:        e.PaidBy,
		Date:          e.Date.String(),
		Category:      e.CategoryOrDefault(),
		SplitMethod:   string(e.SplitMethod),
		SplitAmong:    e.SplitAmong,
		CustomAmounts: e.CustomAmounts,
		CreatedAt:     e.CreatedAt,
	}
}

// toAPIShares lists shares in ascending member order.
func toAPIShares(shares calculator.Shares) []*api.Share {
	members := make([]string, 0, len(shares))
	for m := range shares {
		members = append(members, m)
	}
	sort.Strings(members)

	out := make([]*api.Share, len(members))
	for i, m := range members {
		out[i] = &api.Share{Member: m, Amount: shares[m].Decimal()}
	}
	return out
}

func toAPIBalances(balances []calculator.MemberBalance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			Member: b.Member,
			Paid:   b.Paid.Decimal(),
			Share:  b.Share.Decimal(),
			Net:    b.Net.Decimal(),
		}
	}
	return out
}

func toAPISettlements(settlements []calculator.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{From: s.From, To: s.To, Amount: s.Amount.Decimal()}
	}
	return out
}

func toAPIAnalytics(a *calculator.Analytics, version int64) *api.Analytics {
	out := &api.Analytics{
		TotalSpending:  a.TotalSpending.Decimal(),
		TotalExpenses:  int32(a.TotalExpenses),
		AverageExpense: a.AverageExpense.Decimal(),
		Categories:     make([]*api.CategoryTotal, 0, a.CategoryData.Len()),
		DailySpending:  make([]*api.DailyTotal, len(a.DailySpending)),
		RecentExpenses: make([]*api.Expense, len(a.RecentExpenses)),
		ExpenseVersion: version,
	}
	if a.SplitPerPerson != nil {
		d := a.SplitPerPerson.Decimal()
		out.SplitPerPerson = &d
	}
	for _, c := range a.CategoryData.Keys() {
		amount, _ := a.CategoryData.Get(c)
		out.Categories = append(out.Categories, &api.CategoryTotal{Category: c, Amount: amount.Decimal()})
	}
	for i, d := range a.DailySpending {
		out.DailySpending[i] = &api.DailyTotal{Date: d.Date.String(), Amount: d.Amount.Decimal()}
	}
	for i := range a.RecentExpenses {
		out.RecentExpenses[i] = toAPIExpense(&a.RecentExpenses[i])
	}
	if a.Members != nil {
		out.Balances = toAPIBalances(a.Members)
		out.Settlements = toAPISettlements(a.Settlements)
	}
	return out
}

// toDraft converts wire input into a draft. Amounts that do not fit in
// cents are rejected here; the splitter checks everything else.
func toDraft(amount decimal.Decimal, paidBy, method string, among []string, custom map[string]decimal.Decimal) (models.ExpenseDraft, error) {
	cents, err := money.FromDecimal(amount)
	if err != nil {
		return models.ExpenseDraft{}, invalidArgument("amount %s: %v", amount.String(), err)
	}
	return models.ExpenseDraft{
		Amount:        cents,
		PaidBy:        paidBy,
		SplitMethod:   models.SplitMethod(method),
		SplitAmong:    among,
		CustomAmounts: custom,
	}, nil
}
