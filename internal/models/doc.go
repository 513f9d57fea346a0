// Package models defines the core domain models for the group ledger.
//
// # Models
//
//   - Group: a named roster of members who share expenses
//   - Expense: one recorded spend, its payer and how it is split
//   - ExpenseDraft: the split-relevant subset of an expense, used to preview
//     shares before anything is stored
//
// Members are identified by name strings, unique within a group's roster.
// There is no member entity beyond the roster itself.
//
// # Derived data
//
// Balances, settlements and analytics are never stored. They are computed
// by the calculator package from a snapshot of a group's active expenses,
// so these models deliberately carry no cached totals.
//
// # Relationships
//
// Expenses reference their group by ID string rather than by pointer, which
// keeps snapshots cheap to copy and free of cycles.
package models
