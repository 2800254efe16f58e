// Package models defines the core domain models for ledgerbook.
//
// # Entities
//
//   - AccountBook: a shared ledger owned by the user who created it
//   - Membership: the (book, user) relation carrying a Role
//   - Transaction: one income or expense line recorded against a book
//   - User: a registered account, used for display identity
//
// # Derived views
//
//   - BookSummary: a book annotated with the caller's effective role.
//     The owner is always an admin, whether or not a membership row exists.
//   - MonthlySummary: per-payer expense totals for one calendar month.
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Decimal money**: amounts use shopspring/decimal, never float64
// 3. **Explicit caller**: every authorization-gated call receives a Caller value
package models
