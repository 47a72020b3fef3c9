// Package money provides integer-cent helpers for monetary arithmetic.
//
// Amounts cross the API boundary as float64 dollars; everything that needs
// exactness (rounding, reconciliation, equality checks) converts to Cents
// first so that "sums match" is integer equality rather than float luck.
package money

import "math"

// Cents is a monetary amount in whole cents.
type Cents int64

// FromDollars converts a dollar amount to whole cents, rounding half away
// from zero. This is the single rounding rule used everywhere.
func FromDollars(dollars float64) Cents {
	return Cents(math.Round(dollars * 100))
}

// ToDollars converts cents back to a float64 dollar amount.
func (c Cents) ToDollars() float64 {
	return float64(c) / 100
}

// RoundDollars rounds a dollar amount to the nearest cent, returning dollars.
func RoundDollars(dollars float64) float64 {
	return FromDollars(dollars).ToDollars()
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}
