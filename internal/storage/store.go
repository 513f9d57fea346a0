// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/models"
)

// ErrNotFound is returned when a group or expense does not exist.
var ErrNotFound = errors.New("not found")

// Snapshot is a consistent view of a group and its active expenses.
// Group.ExpenseVersion identifies the expense set it was read at.
type Snapshot struct {
	Group    models.Group
	Expenses []models.Expense
}

// Store defines the interface for group and expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its ordered roster.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// ListGroupsByMember returns the groups whose roster contains member.
	ListGroupsByMember(ctx context.Context, member string) ([]*models.Group, error)

	// DeleteGroup removes a group and all of its expenses.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense and bumps the group's expense
	// version in the same transaction. ID and CreatedAt are populated by
	// the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// DeleteExpense hard-deletes an expense and bumps the group's expense
	// version in the same transaction. It returns the owning group ID.
	DeleteExpense(ctx context.Context, expenseID string) (string, error)

	// ListExpensesByGroup returns a group's active expenses in creation order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// GroupSnapshot reads the group, its version and its active expenses
	// in a single read transaction.
	GroupSnapshot(ctx context.Context, groupID string) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
