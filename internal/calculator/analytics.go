package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// DefaultRecentLimit is the number of recent expenses reported by default.
const DefaultRecentLimit = 10

// Scope selects what an analytics report covers.
type Scope struct {
	group  *models.Group
	userID string
}

// GroupScope reports on a single group, including balances and settlements.
func GroupScope(group models.Group) Scope {
	return Scope{group: &group}
}

// UserScope reports spending across all of a user's groups. No cross-group
// netting is done, so balances and settlements are left out.
func UserScope(userID string) Scope {
	return Scope{userID: userID}
}

// IsGroup reports whether the scope is a single group.
func (s Scope) IsGroup() bool { return s.group != nil }

// AnalyticsOptions tunes ComputeAnalyticsWithOptions.
type AnalyticsOptions struct {
	// RecentLimit caps RecentExpenses. Zero means DefaultRecentLimit.
	RecentLimit int
}

// Analytics is the aggregate spending report for a scope.
type Analytics struct {
	TotalSpending  money.Cents      `json:"totalSpending"`
	TotalExpenses  int              `json:"totalExpenses"`
	AverageExpense money.Cents      `json:"averageExpense"`
	SplitPerPerson *money.Cents     `json:"splitPerPerson,omitempty"` // group scope only
	CategoryData   CategoryTotals   `json:"categoryData"`
	DailySpending  []DailyTotal     `json:"dailySpending"`
	RecentExpenses []models.Expense `json:"recentExpenses"`
	Members        []MemberBalance  `json:"members,omitempty"`     // group scope only
	Balances       Balances         `json:"balances,omitempty"`    // group scope only
	Settlements    []Settlement     `json:"settlements,omitempty"` // group scope only
}

// DailyTotal is the amount spent on one day.
type DailyTotal struct {
	Date   models.Date `json:"date"`
	Amount money.Cents `json:"amount"`
}

// ComputeAnalytics aggregates an expense snapshot for the given scope using
// default options.
func ComputeAnalytics(expenses []models.Expense, scope Scope) (*Analytics, error) {
	return ComputeAnalyticsWithOptions(expenses, scope, AnalyticsOptions{})
}

// ComputeAnalyticsWithOptions aggregates totals, categories, a daily series
// and the most recent expenses. For a group scope it also embeds balances
// and settlements computed from the same snapshot.
func ComputeAnalyticsWithOptions(expenses []models.Expense, scope Scope, opts AnalyticsOptions) (*Analytics, error) {
	limit := opts.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	a := &Analytics{TotalExpenses: len(expenses)}
	for i := range expenses {
		e := &expenses[i]
		a.TotalSpending += e.Amount
		a.CategoryData.Add(e.CategoryOrDefault(), e.Amount)
	}
	a.AverageExpense = a.TotalSpending.DivRound(a.TotalExpenses)
	a.DailySpending = dailyTotals(expenses)
	a.RecentExpenses = recentExpenses(expenses, limit)

	if !scope.IsGroup() {
		return a, nil
	}

	members := scope.group.Members
	perPerson := a.TotalSpending.DivRound(len(members))
	a.SplitPerPerson = &perPerson

	var err error
	if a.Members, err = ComputeMemberBalances(members, expenses); err != nil {
		return nil, err
	}
	if a.Balances, err = ComputeBalances(members, expenses); err != nil {
		return nil, err
	}
	if a.Settlements, err = ComputeSettlements(a.Balances); err != nil {
		return nil, err
	}
	return a, nil
}

func dailyTotals(expenses []models.Expense) []DailyTotal {
	byDay := make(map[string]*DailyTotal)
	for i := range expenses {
		e := &expenses[i]
		key := e.Date.String()
		day, ok := byDay[key]
		if !ok {
			day = &DailyTotal{Date: e.Date}
			byDay[key] = day
		}
		day.Amount += e.Amount
	}

	out := make([]DailyTotal, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

// recentExpenses orders by date descending, then by most recently created.
// Snapshot position breaks remaining ties, later meaning newer.
func recentExpenses(expenses []models.Expense, limit int) []models.Expense {
	idx := make([]int, len(expenses))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := &expenses[idx[i]], &expenses[idx[j]]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return idx[i] > idx[j]
	})

	if len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]models.Expense, len(idx))
	for i, k := range idx {
		out[i] = expenses[k]
	}
	return out
}

// CategoryTotals is an ordered mapping from category to accumulated amount.
// Iteration and JSON key order follow first insertion.
type CategoryTotals struct {
	order  []string
	totals map[string]money.Cents
}

// Add accumulates amount under category.
func (c *CategoryTotals) Add(category string, amount money.Cents) {
	if c.totals == nil {
		c.totals = make(map[string]money.Cents)
	}
	if _, ok := c.totals[category]; !ok {
		c.order = append(c.order, category)
	}
	c.totals[category] += amount
}

// Get returns the total for category.
func (c CategoryTotals) Get(category string) (money.Cents, bool) {
	v, ok := c.totals[category]
	return v, ok
}

// Keys returns categories in first-seen order.
func (c CategoryTotals) Keys() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of categories.
func (c CategoryTotals) Len() int { return len(c.order) }

// MarshalJSON encodes the totals as a JSON object in first-seen order.
func (c CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := c.totals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (c *CategoryTotals) UnmarshalJSON(b []byte) error {
	*c = CategoryTotals{}
	if string(b) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category totals: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category totals: expected key, got %v", tok)
		}
		var amount money.Cents
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("category totals: %s: %w", key, err)
		}
		c.Add(key, amount)
	}
	_, err := dec.Token()
	return err
}
