package models

// Group represents a named roster of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string `json:"name"`

	// Members is the ordered list of member identifiers in this group.
	// Identifiers are unique within the roster.
	Members []string `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`

	// ExpenseVersion increases by one on every expense create or delete in
	// this group. Together with ID it identifies an expense-set snapshot.
	ExpenseVersion int64 `json:"expenseVersion"`
}

// HasMember reports whether name is on the group's roster.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}
