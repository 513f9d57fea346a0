// Package api defines the groupledger.v1 request and response messages.
// Messages travel as JSON; amounts are decimal strings in major units.
package api

import "github.com/shopspring/decimal"

// Group is a named roster of members.
type Group struct {
	Id             string   `json:"id"`
	Name           string   `json:"name"`
	Members        []string `json:"members"`
	CreatedAt      int64    `json:"createdAt"`
	ExpenseVersion int64    `json:"expenseVersion"`
}

// Expense is a recorded spend within a group.
type Expense struct {
	Id            string                     `json:"id"`
	GroupId       string                     `json:"groupId"`
	Title         string                     `json:"title"`
	Amount        decimal.Decimal            `json:"amount"`
	PaidBy        string                     `json:"paidBy"`
	Date          string                     `json:"date"`
	Category      string                     `json:"category,omitempty"`
	SplitMethod   string                     `json:"splitMethod"`
	SplitAmong    []string                   `json:"splitAmong"`
	CustomAmounts map[string]decimal.Decimal `json:"customAmounts,omitempty"`
	CreatedAt     int64                      `json:"createdAt"`
}

// Share is what one participant owes for an expense.
type Share struct {
	Member string          `json:"member"`
	Amount decimal.Decimal `json:"amount"`
}

// Balance is a member's position across a group's expenses.
// Net is positive when the member is owed money.
type Balance struct {
	Member string          `json:"member"`
	Paid   decimal.Decimal `json:"paid"`
	Share  decimal.Decimal `json:"share"`
	Net    decimal.Decimal `json:"net"`
}

// Settlement is a payment from a debtor to a creditor.
type Settlement struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type DailyTotal struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Analytics is a spending report for a group or for a member across
// their groups. Balances and settlements are only set for a group.
type Analytics struct {
	TotalSpending  decimal.Decimal  `json:"totalSpending"`
	TotalExpenses  int32            `json:"totalExpenses"`
	AverageExpense decimal.Decimal  `json:"averageExpense"`
	SplitPerPerson *decimal.Decimal `json:"splitPerPerson,omitempty"`
	Categories     []*CategoryTotal `json:"categories"`
	DailySpending  []*DailyTotal    `json:"dailySpending"`
	RecentExpenses []*Expense       `json:"recentExpenses"`
	Balances       []*Balance       `json:"balances,omitempty"`
	Settlements    []*Settlement    `json:"settlements,omitempty"`
	ExpenseVersion int64            `json:"expenseVersion,omitempty"`
}

// LedgerService

type ComputeSplitRequest struct {
	Members       []string                   `json:"members"`
	Amount        decimal.Decimal            `json:"amount"`
	PaidBy        string                     `json:"paidBy"`
	SplitMethod   string                     `json:"splitMethod"`
	SplitAmong    []string                   `json:"splitAmong"`
	CustomAmounts map[string]decimal.Decimal `json:"customAmounts,omitempty"`
}

type ComputeSplitResponse struct {
	Shares []*Share `json:"shares"`
}

type ComputeSettlementsRequest struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

type ComputeSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// GroupService

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

func (x *GetGroupRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupId string `json:"groupId"`
}

func (x *GetGroupBalancesRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

type GetGroupBalancesResponse struct {
	Balances       []*Balance    `json:"balances"`
	Settlements    []*Settlement `json:"settlements"`
	ExpenseVersion int64         `json:"expenseVersion"`
}

type GetGroupAnalyticsRequest struct {
	GroupId string `json:"groupId"`
}

func (x *GetGroupAnalyticsRequest) GetGroupId() string {
	if x != nil {
		return x.GroupId
	}
	return ""
}

type GetGroupAnalyticsResponse struct {
	Analytics *Analytics `json:"analytics"`
}

type GetUserAnalyticsRequest struct{}

type GetUserAnalyticsResponse struct {
	Analytics *Analytics `json:"analytics"`
}

// ExpenseService

type CreateExpenseRequest struct {
	GroupId       string                     `json:"groupId"`
	Title         string                     `json:"title"`
	Amount        decimal.Decimal            `json:"amount"`
	PaidBy        string                     `json:"paidBy"`
	Date          string                     `json:"date"`
	Category      string                     `json:"category,omitempty"`
	SplitMethod   string                     `json:"splitMethod"`
	SplitAmong    []string                   `json:"splitAmong"`
	CustomAmounts map[string]decimal.Decimal `json:"customAmounts,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []*Share `json:"shares"`
}

type GetExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []*Share `json:"shares"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesByGroupRequest struct {
	GroupId string `json:"groupId"`
}

type ListExpensesByGroupResponse struct {
	Expenses []*Expense `json:"expenses"`
}
