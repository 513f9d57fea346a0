package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/money"
)

// SplitMethod is the rule used to divide an expense among its participants.
type SplitMethod string

const (
	// SplitEqual divides the amount evenly, distributing leftover cents
	// deterministically.
	SplitEqual SplitMethod = "equal"

	// SplitCustom uses caller-specified per-participant amounts.
	SplitCustom SplitMethod = "custom"
)

// DefaultCategory is used for expenses recorded without a category.
const DefaultCategory = "Other"

// DateLayout is the wire and storage format of an expense date.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Expense is one recorded spend within a group.
// Expenses are immutable once created; deleting one removes it from the
// active set entirely.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Title is the human-readable description (e.g., "Dinner").
	Title string `json:"title"`

	// Amount is the total spent, always positive.
	Amount money.Cents `json:"amount"`

	// PaidBy is the member who paid. Must be on the group roster but need
	// not be among the participants.
	PaidBy string `json:"paidBy"`

	// Date is the day the expense was incurred.
	Date Date `json:"date"`

	// Category is free-form. Empty means DefaultCategory.
	Category string `json:"category,omitempty"`

	// SplitMethod selects how Amount is divided.
	SplitMethod SplitMethod `json:"splitMethod"`

	// SplitAmong is the set of members sharing the expense.
	SplitAmong []string `json:"splitAmong"`

	// CustomAmounts maps participant to their exact share.
	// Only meaningful when SplitMethod is SplitCustom.
	CustomAmounts map[string]decimal.Decimal `json:"customAmounts,omitempty"`

	// CreatedAt is the Unix timestamp in nanoseconds when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// CategoryOrDefault returns the category as stored, or DefaultCategory when
// it is empty.
func (e *Expense) CategoryOrDefault() string {
	if e.Category != "" {
		return e.Category
	}
	return DefaultCategory
}

// Draft returns the split-relevant fields of the expense.
func (e *Expense) Draft() ExpenseDraft {
	return ExpenseDraft{
		Amount:        e.Amount,
		PaidBy:        e.PaidBy,
		SplitMethod:   e.SplitMethod,
		SplitAmong:    e.SplitAmong,
		CustomAmounts: e.CustomAmounts,
	}
}

// ExpenseDraft carries everything needed to compute participant shares.
type ExpenseDraft struct {
	Amount        money.Cents                `json:"amount"`
	PaidBy        string                     `json:"paidBy"`
	SplitMethod   SplitMethod                `json:"splitMethod"`
	SplitAmong    []string                   `json:"splitAmong"`
	CustomAmounts map[string]decimal.Decimal `json:"customAmounts,omitempty"`
}
