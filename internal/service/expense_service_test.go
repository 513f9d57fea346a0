package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
	api "github.com/mmynk/groupledger/pkg/api"
)

func TestCreateExpense(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob", "Charlie")

	t.Run("equal split hands out leftover cents", func(t *testing.T) {
		resp, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			GroupId: group.Id, Title: " Dinner ", Amount: dec("100"), PaidBy: "Bob",
			Date: "2024-02-29", Category: "Food",
			SplitAmong: []string{"Charlie", "Alice", "Bob", "Alice"},
		}))
		require.NoError(t, err)

		e := resp.Msg.Expense
		assert.NotEmpty(t, e.Id)
		assert.Equal(t, "Dinner", e.Title)
		assert.Equal(t, "equal", e.SplitMethod)
		assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, e.SplitAmong)
		assert.Equal(t, "2024-02-29", e.Date)

		require.Len(t, resp.Msg.Shares, 3)
		assert.Equal(t, "Alice", resp.Msg.Shares[0].Member)
		assert.True(t, resp.Msg.Shares[0].Amount.Equal(dec("33.34")))
		assert.True(t, resp.Msg.Shares[1].Amount.Equal(dec("33.33")))
		assert.True(t, resp.Msg.Shares[2].Amount.Equal(dec("33.33")))
	})

	t.Run("custom split keeps only participant amounts", func(t *testing.T) {
		resp, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			GroupId: group.Id, Title: "Tickets", Amount: dec("50"), PaidBy: "Alice",
			SplitMethod: "custom", SplitAmong: []string{"Alice", "Bob"},
			CustomAmounts: map[string]decimal.Decimal{
				"Alice": dec("20.005"), "Bob": dec("29.995"), "Charlie": dec("5"),
			},
		}))
		require.NoError(t, err)

		got, err := alice.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseId: resp.Msg.Expense.Id}))
		require.NoError(t, err)
		assert.Len(t, got.Msg.Expense.CustomAmounts, 2)
		assert.NotContains(t, got.Msg.Expense.CustomAmounts, "Charlie")

		total := decimal.Zero
		for _, s := range got.Msg.Shares {
			total = total.Add(s.Amount)
		}
		assert.True(t, total.Equal(dec("50")), total.String())
	})

	t.Run("missing date defaults to today", func(t *testing.T) {
		e := addExpense(t, alice, &api.CreateExpenseRequest{
			GroupId: group.Id, Title: "Snacks", Amount: dec("3"), PaidBy: "Alice",
			SplitAmong: []string{"Alice"},
		})
		assert.Equal(t, time.Now().UTC().Format(models.DateLayout), e.Date)
	})
}

func TestCreateExpense_Validation(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	base := func() *api.CreateExpenseRequest {
		return &api.CreateExpenseRequest{
			GroupId: group.Id, Title: "Lunch", Amount: dec("20"), PaidBy: "Alice",
			SplitAmong: []string{"Alice", "Bob"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*api.CreateExpenseRequest)
	}{
		{"zero amount", func(r *api.CreateExpenseRequest) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *api.CreateExpenseRequest) { r.Amount = dec("-5") }},
		{"amount that overflows cents", func(r *api.CreateExpenseRequest) { r.Amount = dec("184467440737095516.17") }},
		{"custom amount that overflows cents", func(r *api.CreateExpenseRequest) {
			r.SplitMethod = "custom"
			r.CustomAmounts = map[string]decimal.Decimal{"Alice": dec("184467440737095516.17"), "Bob": dec("10")}
		}},
		{"empty title", func(r *api.CreateExpenseRequest) { r.Title = "" }},
		{"bad date", func(r *api.CreateExpenseRequest) { r.Date = "29/02/2024" }},
		{"payer not in group", func(r *api.CreateExpenseRequest) { r.PaidBy = "Mallory" }},
		{"participant not in group", func(r *api.CreateExpenseRequest) { r.SplitAmong = []string{"Alice", "Mallory"} }},
		{"no participants", func(r *api.CreateExpenseRequest) { r.SplitAmong = nil }},
		{"unknown method", func(r *api.CreateExpenseRequest) { r.SplitMethod = "shares" }},
		{"custom sum mismatch", func(r *api.CreateExpenseRequest) {
			r.SplitMethod = "custom"
			r.CustomAmounts = map[string]decimal.Decimal{"Alice": dec("5"), "Bob": dec("5")}
		}},
		{"custom without amounts", func(r *api.CreateExpenseRequest) { r.SplitMethod = "custom" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)
			_, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}

	// Rejected requests leave the group untouched.
	resp, err := alice.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: group.Id}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Msg.Group.ExpenseVersion)

	_, err = srv.as(t, "Eve").expenses.CreateExpense(ctx, connect.NewRequest(base()))
	requireCode(t, err, connect.CodePermissionDenied)

	missing := base()
	missing.GroupId = "nonexistent"
	_, err = alice.expenses.CreateExpense(ctx, connect.NewRequest(missing))
	requireCode(t, err, connect.CodeNotFound)
}

func TestDeleteExpense(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	e := addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Lunch", Amount: dec("20"), PaidBy: "Alice",
		SplitAmong: []string{"Alice", "Bob"},
	})

	_, err := srv.as(t, "Eve").expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: e.Id}))
	requireCode(t, err, connect.CodePermissionDenied)

	bob := srv.as(t, "Bob")
	_, err = bob.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: e.Id}))
	require.NoError(t, err)

	_, err = bob.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseId: e.Id}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = bob.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: e.Id}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = bob.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestListExpensesByGroup(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	for _, title := range []string{"First", "Second", "Third"} {
		addExpense(t, alice, &api.CreateExpenseRequest{
			GroupId: group.Id, Title: title, Amount: dec("1"), PaidBy: "Bob",
			SplitAmong: []string{"Alice"},
		})
	}

	resp, err := alice.expenses.ListExpensesByGroup(ctx, connect.NewRequest(&api.ListExpensesByGroupRequest{GroupId: group.Id}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 3)
	assert.Equal(t, "First", resp.Msg.Expenses[0].Title)
	assert.Equal(t, "Third", resp.Msg.Expenses[2].Title)
	assert.Equal(t, "Other", resp.Msg.Expenses[0].Category)
}

func TestCorruptExpenseIsInternal(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	// Written behind the service's back: the payer is not on the roster.
	corrupt := &models.Expense{
		GroupID: group.Id, Title: "Ghost", Amount: 1000, PaidBy: "Mallory",
		Date: models.NewDate(2024, time.January, 1), SplitMethod: models.SplitEqual,
		SplitAmong: []string{"Alice"},
	}
	require.NoError(t, srv.store.CreateExpense(ctx, corrupt))

	_, err := alice.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
	requireCode(t, err, connect.CodeInternal)

	_, err = alice.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseId: corrupt.ID}))
	requireCode(t, err, connect.CodeInternal)
}
