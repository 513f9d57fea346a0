package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/mmynk/groupledger/pkg/api"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createGroup(t *testing.T, c clients, name string, members ...string) *api.Group {
	t.Helper()
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

func addExpense(t *testing.T, c clients, req *api.CreateExpenseRequest) *api.Expense {
	t.Helper()
	resp, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.as(t, "Alice")

	group := createGroup(t, alice, " Roommates ", "Alice", " Bob", "Charlie")
	assert.NotEmpty(t, group.Id)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, group.Members)
	assert.NotZero(t, group.CreatedAt)
	assert.Equal(t, int64(0), group.ExpenseVersion)
}

func TestCreateGroup_Validation(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.as(t, "Alice")
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{"empty name", &api.CreateGroupRequest{Name: " ", Members: []string{"Alice"}}},
		{"no members", &api.CreateGroupRequest{Name: "Trip"}},
		{"blank member", &api.CreateGroupRequest{Name: "Trip", Members: []string{"Alice", ""}}},
		{"duplicate member", &api.CreateGroupRequest{Name: "Trip", Members: []string{"Alice", "Bob", "Alice"}}},
		{"caller not on roster", &api.CreateGroupRequest{Name: "Trip", Members: []string{"Bob"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.groups.CreateGroup(ctx, connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGroupService_Auth(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, srv.as(t, "Alice"), "Trip", "Alice", "Bob")

	_, err := srv.anonymous().groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)

	eve := srv.as(t, "Eve")
	_, err = eve.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: group.Id}))
	requireCode(t, err, connect.CodePermissionDenied)
	_, err = eve.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
	requireCode(t, err, connect.CodePermissionDenied)

	bob := srv.as(t, "Bob")
	resp, err := bob.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: group.Id}))
	require.NoError(t, err)
	assert.Equal(t, "Trip", resp.Msg.Group.Name)

	_, err = bob.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: "nonexistent"}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = bob.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestListGroups(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	bob := srv.as(t, "Bob")

	createGroup(t, alice, "Trip", "Alice", "Bob")
	createGroup(t, alice, "Rent", "Alice", "Charlie")
	createGroup(t, bob, "Work", "Bob", "Diana")

	resp, err := alice.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Groups, 2)

	resp, err = bob.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Groups, 2)
}

func TestDeleteGroup(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	_, err := alice.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupId: group.Id}))
	require.NoError(t, err)

	_, err = alice.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: group.Id}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestGetGroupBalances(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob", "Charlie")

	// Alice pays 90 for everyone, Bob pays 30 for Bob and Charlie.
	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Dinner", Amount: dec("90"), PaidBy: "Alice",
		Date: "2024-01-01", SplitAmong: []string{"Alice", "Bob", "Charlie"},
	})
	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Taxi", Amount: dec("30"), PaidBy: "Bob",
		Date: "2024-01-02", SplitMethod: "custom", SplitAmong: []string{"Bob", "Charlie"},
		CustomAmounts: map[string]decimal.Decimal{"Bob": dec("10"), "Charlie": dec("20")},
	})

	resp, err := alice.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Msg.ExpenseVersion)

	net := make(map[string]string)
	for _, b := range resp.Msg.Balances {
		net[b.Member] = b.Net.StringFixed(2)
	}
	// Alice: +90 -30 = 60, Bob: +30 -30 -10 = -10, Charlie: -30 -20 = -50
	assert.Equal(t, map[string]string{"Alice": "60.00", "Bob": "-10.00", "Charlie": "-50.00"}, net)
	assert.Equal(t, "Alice", resp.Msg.Balances[0].Member)

	require.Len(t, resp.Msg.Settlements, 2)
	assert.Equal(t, "Charlie", resp.Msg.Settlements[0].From)
	assert.Equal(t, "Alice", resp.Msg.Settlements[0].To)
	assert.True(t, resp.Msg.Settlements[0].Amount.Equal(dec("50")))
	assert.Equal(t, "Bob", resp.Msg.Settlements[1].From)
	assert.True(t, resp.Msg.Settlements[1].Amount.Equal(dec("10")))
}

func TestGetGroupBalances_CacheInvalidation(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	get := func() *api.GetGroupBalancesResponse {
		resp, err := alice.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
		require.NoError(t, err)
		return resp.Msg
	}

	first := get()
	assert.Empty(t, first.Settlements)
	_, cached := srv.cache.Get(ctx, group.Id)
	assert.True(t, cached)

	e := addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Lunch", Amount: dec("20"), PaidBy: "Alice",
		SplitAmong: []string{"Alice", "Bob"},
	})
	_, cached = srv.cache.Get(ctx, group.Id)
	assert.False(t, cached, "expense write must drop the cached report")

	second := get()
	require.Len(t, second.Settlements, 1)
	assert.True(t, second.Settlements[0].Amount.Equal(dec("10")))
	assert.Equal(t, int64(1), second.ExpenseVersion)

	// Served from cache while nothing changes.
	assert.Equal(t, second, get())

	_, err := alice.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: e.Id}))
	require.NoError(t, err)
	third := get()
	assert.Empty(t, third.Settlements)
	assert.Equal(t, int64(2), third.ExpenseVersion)
}

func TestGetGroupBalances_StaleCacheEntryIgnored(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob")

	_, err := alice.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
	require.NoError(t, err)
	stale, ok := srv.cache.Get(ctx, group.Id)
	require.True(t, ok)

	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Lunch", Amount: dec("20"), PaidBy: "Alice",
		SplitAmong: []string{"Alice", "Bob"},
	})
	// Simulate a lost invalidation by putting the old report back.
	srv.cache.Set(ctx, group.Id, stale)

	resp, err := alice.groups.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: group.Id}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Settlements, 1)
}

func TestGetGroupAnalytics(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	group := createGroup(t, alice, "Trip", "Alice", "Bob", "Charlie")

	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Dinner", Amount: dec("90"), PaidBy: "Alice",
		Date: "2024-01-01", Category: "Food", SplitAmong: []string{"Alice", "Bob", "Charlie"},
	})
	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: group.Id, Title: "Museum", Amount: dec("10"), PaidBy: "Bob",
		Date: "2024-01-03", SplitAmong: []string{"Bob"},
	})

	resp, err := alice.groups.GetGroupAnalytics(ctx, connect.NewRequest(&api.GetGroupAnalyticsRequest{GroupId: group.Id}))
	require.NoError(t, err)
	a := resp.Msg.Analytics

	assert.True(t, a.TotalSpending.Equal(dec("100")))
	assert.Equal(t, int32(2), a.TotalExpenses)
	assert.True(t, a.AverageExpense.Equal(dec("50")))
	require.NotNil(t, a.SplitPerPerson)
	assert.True(t, a.SplitPerPerson.Equal(dec("33.33")))

	require.Len(t, a.Categories, 2)
	assert.Equal(t, "Food", a.Categories[0].Category)
	assert.Equal(t, "Other", a.Categories[1].Category)

	require.Len(t, a.DailySpending, 2)
	assert.Equal(t, "2024-01-01", a.DailySpending[0].Date)

	require.Len(t, a.RecentExpenses, 2)
	assert.Equal(t, "Museum", a.RecentExpenses[0].Title)
	assert.Len(t, a.Balances, 3)
	assert.Equal(t, int64(2), a.ExpenseVersion)
}

func TestGetUserAnalytics(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	alice := srv.as(t, "Alice")
	bob := srv.as(t, "Bob")

	trip := createGroup(t, alice, "Trip", "Alice", "Bob")
	rent := createGroup(t, alice, "Rent", "Alice", "Charlie")
	work := createGroup(t, bob, "Work", "Bob", "Diana")

	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: trip.Id, Title: "Hotel", Amount: dec("200"), PaidBy: "Bob",
		Category: "Travel", SplitAmong: []string{"Alice", "Bob"},
	})
	addExpense(t, alice, &api.CreateExpenseRequest{
		GroupId: rent.Id, Title: "March", Amount: dec("1000"), PaidBy: "Charlie",
		Category: "Rent", SplitAmong: []string{"Alice", "Charlie"},
	})
	addExpense(t, bob, &api.CreateExpenseRequest{
		GroupId: work.Id, Title: "Coffee", Amount: dec("5"), PaidBy: "Diana",
		SplitAmong: []string{"Bob", "Diana"},
	})

	resp, err := alice.groups.GetUserAnalytics(ctx, connect.NewRequest(&api.GetUserAnalyticsRequest{}))
	require.NoError(t, err)
	a := resp.Msg.Analytics

	// Every expense of every group on Alice's roster, nothing from Work.
	assert.True(t, a.TotalSpending.Equal(dec("1200")))
	assert.Equal(t, int32(2), a.TotalExpenses)
	assert.Nil(t, a.SplitPerPerson)
	assert.Empty(t, a.Balances)
	assert.Empty(t, a.Settlements)

	resp, err = srv.as(t, "Nobody").groups.GetUserAnalytics(ctx, connect.NewRequest(&api.GetUserAnalyticsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, int32(0), resp.Msg.Analytics.TotalExpenses)
	assert.True(t, resp.Msg.Analytics.TotalSpending.IsZero())
}
