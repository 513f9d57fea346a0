package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
)

const expenseColumns = "id, group_id, title, amount_cents, paid_by, date, category, split_method, created_at"

// CreateExpense persists an expense with its participants and bumps the
// owning group's expense version.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixNano()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := bumpVersion(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Title, int64(expense.Amount), expense.PaidBy,
		expense.Date.String(), expense.Category, string(expense.SplitMethod), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, member := range expense.SplitAmong {
		var custom sql.NullString
		if expense.SplitMethod == models.SplitCustom {
			if v, ok := expense.CustomAmounts[member]; ok {
				custom = sql.NullString{String: v.String(), Valid: true}
			}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_participants (expense_id, member, custom_amount) VALUES (?, ?, ?)",
			expense.ID, member, custom,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %q: %w", member, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	byID := map[string]*models.Expense{e.ID: e}
	if err := loadParticipants(ctx, s.db,
		"SELECT expense_id, member, custom_amount FROM expense_participants WHERE expense_id = ? ORDER BY member",
		expenseID, byID,
	); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExpense hard-deletes an expense and bumps the group's version.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID string
	err = tx.QueryRowContext(ctx, "SELECT group_id FROM expenses WHERE id = ?", expenseID).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return "", fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := bumpVersion(ctx, tx, groupID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return groupID, nil
}

// ListExpensesByGroup returns a group's expenses in creation order.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := getGroup(ctx, s.db, groupID); err != nil {
		return nil, err
	}
	return listExpenses(ctx, s.db, groupID)
}

func bumpVersion(ctx context.Context, q querier, groupID string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE groups SET expense_version = expense_version + 1 WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to bump expense version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check expense version: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

func listExpenses(ctx context.Context, q querier, groupID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	err = loadParticipants(ctx, q,
		`SELECT p.expense_id, p.member, p.custom_amount
		 FROM expense_participants p JOIN expenses e ON e.id = p.expense_id
		 WHERE e.group_id = ?
		 ORDER BY p.expense_id, p.member`,
		groupID, byID,
	)
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(r rowScanner) (*models.Expense, error) {
	var (
		e      models.Expense
		amount int64
		date   string
		method string
	)
	err := r.Scan(&e.ID, &e.GroupID, &e.Title, &amount, &e.PaidBy, &date, &e.Category, &method, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = money.Cents(amount)
	e.SplitMethod = models.SplitMethod(method)
	if e.Date, err = models.ParseDate(date); err != nil {
		return nil, err
	}
	e.SplitAmong = []string{}
	return &e, nil
}

func loadParticipants(ctx context.Context, q querier, query, arg string, byID map[string]*models.Expense) error {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID, member string
			custom            sql.NullString
		)
		if err := rows.Scan(&expenseID, &member, &custom); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		e, ok := byID[expenseID]
		if !ok {
			continue
		}
		e.SplitAmong = append(e.SplitAmong, member)
		if custom.Valid {
			amount, err := decimal.NewFromString(custom.String)
			if err != nil {
				return fmt.Errorf("invalid custom amount for %s/%s: %w", expenseID, member, err)
			}
			if e.CustomAmounts == nil {
				e.CustomAmounts = make(map[string]decimal.Decimal)
			}
			e.CustomAmounts[member] = amount
		}
	}
	return rows.Err()
}
