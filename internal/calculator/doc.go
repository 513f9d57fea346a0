// Package calculator is the ledger engine: it turns a snapshot of a group's
// expenses into participant shares, member balances, settlement payments
// and spending analytics.
//
// Every function is pure. Inputs are read, never modified, and no state is
// kept between calls, so all entry points are safe for concurrent use.
// Amounts are integer cents throughout; see package money.
//
// Entry points:
//   - ComputeSplit: one expense's shares
//   - ComputeBalances: net balance per member
//   - ComputeSettlements: payments that zero the balances
//   - ComputeAnalytics: totals, categories, daily series and recents
package calculator
