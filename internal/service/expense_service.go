package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
	api "github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store   storage.Store
	reports *Reports
	now     func() time.Time
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, reports *Reports) *ExpenseService {
	return &ExpenseService{store: store, reports: reports, now: time.Now}
}

// CreateExpense validates an expense by splitting it against the group's
// roster, then persists it. Only the normalized participant set and their
// custom amounts are stored, so later re-splits reproduce the same shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	msg := req.Msg
	group, err := authorizeGroup(ctx, s.store, "CreateExpense", msg.GroupId)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", group.ID,
		"amount", msg.Amount.String(),
		"method", msg.SplitMethod,
		"participants_count", len(msg.SplitAmong),
	)

	title := strings.TrimSpace(msg.Title)
	if title == "" {
		return nil, invalidArgument("title must not be empty")
	}
	date := models.Date{Time: s.now().UTC().Truncate(24 * time.Hour)}
	if msg.Date != "" {
		if date, err = models.ParseDate(msg.Date); err != nil {
			return nil, invalidArgument("date: %v", err)
		}
	}

	draft, err := toDraft(msg.Amount, msg.PaidBy, msg.SplitMethod, msg.SplitAmong, msg.CustomAmounts)
	if err != nil {
		return nil, err
	}
	shares, err := calculator.ComputeSplit(group.Members, draft)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Title:       title,
		Amount:      draft.Amount,
		PaidBy:      draft.PaidBy,
		Date:        date,
		Category:    strings.TrimSpace(msg.Category),
		SplitMethod: draft.SplitMethod,
		SplitAmong:  participants(shares),
	}
	if expense.SplitMethod == "" {
		expense.SplitMethod = models.SplitEqual
	}
	if expense.SplitMethod == models.SplitCustom {
		expense.CustomAmounts = make(map[string]decimal.Decimal, len(shares))
		for _, p := range expense.SplitAmong {
			if v, ok := msg.CustomAmounts[p]; ok {
				expense.CustomAmounts[p] = v
			}
		}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, toConnectError("CreateExpense", err, "group_id", group.ID)
	}
	s.reports.Invalidate(ctx, group.ID)

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense),
		Shares:  toAPIShares(shares),
	}), nil
}

// GetExpense retrieves an expense with its computed shares.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	expense, group, err := s.authorizeExpense(ctx, "GetExpense", req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	shares, err := calculator.ComputeSplit(group.Members, expense.Draft())
	if err != nil {
		err = &calculator.InternalConsistencyError{Detail: fmt.Sprintf("expense %s", expense.ID), Err: err}
		return nil, toConnectError("GetExpense", err, "expense_id", expense.ID)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense),
		Shares:  toAPIShares(shares),
	}), nil
}

// DeleteExpense removes an expense from its group's active set.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	expense, _, err := s.authorizeExpense(ctx, "DeleteExpense", req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	groupID, err := s.store.DeleteExpense(ctx, expense.ID)
	if err != nil {
		return nil, toConnectError("DeleteExpense", err, "expense_id", expense.ID)
	}
	s.reports.Invalidate(ctx, groupID)

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", groupID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpensesByGroup returns a group's expenses in creation order.
func (s *ExpenseService) ListExpensesByGroup(ctx context.Context, req *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	group, err := authorizeGroup(ctx, s.store, "ListExpensesByGroup", req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError("ListExpensesByGroup", err, "group_id", group.ID)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesByGroupResponse{Expenses: out}), nil
}

func (s *ExpenseService) authorizeExpense(ctx context.Context, op, expenseID string) (*models.Expense, *models.Group, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, nil, err
	}
	if expenseID == "" {
		return nil, nil, connect.NewError(connect.CodeInvalidArgument, errMissingExpense)
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, toConnectError(op, err, "expense_id", expenseID)
	}
	group, err := authorizeGroup(ctx, s.store, op, expense.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return expense, group, nil
}

func participants(shares calculator.Shares) []string {
	out := make([]string, 0, len(shares))
	for p := range shares {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
