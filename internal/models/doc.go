// Package models defines the core domain models for Tabby.
//
// # Bill inputs
//
//   - Bill: the persisted aggregate — items, people, shares, charges, modes
//   - Item: a priced line on the bill
//   - Person: a participant splitting the bill
//   - ItemShare: a weighted link between one item and one person
//
// # Computed output
//
//   - BillTotals: the full per-bill result, recomputed on demand
//   - PersonTotal: one person's breakdown (subtotal, charge shares, total)
//   - ShareLine: one person's slice of one item
//
// Totals are derived data: they are never persisted and are recomputed from
// the bill snapshot every time, so a stored bill can never disagree with its
// displayed totals.
//
// # Design principles
//
//  1. Inputs are immutable inside the calculator; every computation allocates
//     fresh output structures.
//  2. Relationships use ID strings, not pointers, to keep models flat and
//     serializable.
//  3. Monetary fields are float64 dollars at the boundary; exact-sum checks
//     happen in integer cents (see pkg/money).
package models
