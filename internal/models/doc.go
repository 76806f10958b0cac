// Package models defines the core domain models for sharecount.
//
// # Entities
//
//   - Group: a shared expense group, addressed by its token
//   - Member: a participant in a group (nickname, no user account)
//   - Transaction: one expense paid by a member, with Debt line items
//   - Debt: one debtor's share of a transaction
//   - UserBinding: which member this device acts as within a group
//
// Every mutable entity carries a Status tag describing its sync
// disposition (see status.go) and a modified_at stamp used as the
// conflict tiebreaker during reconciliation (see time.go).
//
// # Design principles
//
//  1. IDs are client-generated UUIDs, assigned once and never reused.
//  2. Monetary amounts are exact base-10 strings. They are only ever
//     manipulated through shopspring/decimal; binary floats would drift
//     across currencies with differing fraction digits.
//  3. Relationships use ID strings rather than pointers, so the same
//     types serve storage rows and wire bodies.
package models
