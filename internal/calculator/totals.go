// Package calculator implements the bill allocation and reconciliation
// engine: weighted item-to-person distribution, proportional/even
// charge-splitting, and a largest-remainder penny-reconciliation pass.
//
// The engine is a pure function of its inputs: no I/O, no package-level
// state, fresh output structures on every call. It is safe to invoke
// concurrently.
//
// The one hard guarantee is the exact-sum invariant: the rounded per-person
// totals always sum exactly to the rounded grand total. Naive proportional
// division leaks fractional cents once rounded; here every figure is rounded
// independently and the residual error is redistributed penny by penny.
package calculator

import (
	"errors"
	"fmt"

	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/pkg/money"
)

// ErrReconciliationMismatch indicates the post-reconciliation person totals
// do not sum to the grand total. This is an internal defect in the engine,
// not bad input, and is surfaced loudly rather than returning inconsistent
// totals.
var ErrReconciliationMismatch = errors.New("reconciled totals do not sum to grand total")

// Input is one bill snapshot: everything the engine needs for one
// computation. The engine never mutates it.
type Input struct {
	Items  []models.Item
	Shares []models.ItemShare
	People []models.Person

	Tax        float64
	Tip        float64
	Discount   float64
	ServiceFee float64

	TaxMode models.ChargeMode
	TipMode models.ChargeMode

	// IncludeZeroItemPeople widens even-mode charge distribution to people
	// with no assigned items.
	IncludeZeroItemPeople bool
}

// FromBill builds an engine Input from a stored bill.
func FromBill(b *models.Bill) Input {
	return Input{
		Items:                 b.Items,
		Shares:                b.Shares,
		People:                b.People,
		Tax:                   b.Tax,
		Tip:                   b.Tip,
		Discount:              b.Discount,
		ServiceFee:            b.ServiceFee,
		TaxMode:               b.TaxMode,
		TipMode:               b.TipMode,
		IncludeZeroItemPeople: b.IncludeZeroItemPeople,
	}
}

// Compute runs the full pipeline: share validation, weighted allocation,
// charge distribution, penny reconciliation, and the final self-check.
//
// The returned totals carry one PersonTotal per input person, in input
// order, with every monetary field an exact number of cents.
func Compute(in Input) (*models.BillTotals, error) {
	if err := ValidateShares(in.Items, in.People, in.Shares); err != nil {
		return nil, err
	}

	alloc := allocate(in.Items, in.Shares)
	charges := distributeCharges(in, alloc)

	raw := make([]models.PersonTotal, len(in.People))
	for i, p := range in.People {
		subtotal := alloc.subtotals[p.ID]
		raw[i] = models.PersonTotal{
			PersonID:        p.ID,
			Name:            p.Name,
			Subtotal:        subtotal,
			DiscountShare:   charges.discount[p.ID],
			ServiceFeeShare: charges.serviceFee[p.ID],
			TaxShare:        charges.tax[p.ID],
			TipShare:        charges.tip[p.ID],
			Total: subtotal - charges.discount[p.ID] + charges.serviceFee[p.ID] +
				charges.tax[p.ID] + charges.tip[p.ID],
			Items: alloc.lines[p.ID],
		}
	}

	// Subtotal covers ALL items, assigned or not; unassigned items still
	// belong on the bill even though nobody carries them yet.
	var subtotal float64
	for _, it := range in.Items {
		subtotal += it.Price
	}
	grandTotal := subtotal - in.Discount + in.ServiceFee + in.Tax + in.Tip
	target := money.RoundDollars(grandTotal)

	personTotals, distributed := reconcile(raw, target)

	totals := &models.BillTotals{
		Subtotal:     money.RoundDollars(subtotal),
		Tax:          money.RoundDollars(in.Tax),
		Tip:          money.RoundDollars(in.Tip),
		Discount:     money.RoundDollars(in.Discount),
		ServiceFee:   money.RoundDollars(in.ServiceFee),
		GrandTotal:   target,
		PersonTotals: personTotals,
		PennyReconciliation: models.PennyReconciliation{
			Distributed: distributed,
			Method:      models.ReconciliationMethod,
		},
	}

	if err := ValidateTotals(totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// ValidateTotals re-sums the person totals and confirms exact equality with
// the grand total, in integer cents with zero tolerance. A failure means a
// defect in the engine, not bad input.
func ValidateTotals(t *models.BillTotals) error {
	var sum money.Cents
	for _, pt := range t.PersonTotals {
		sum += money.FromDollars(pt.Total)
	}
	target := money.FromDollars(t.GrandTotal)
	if sum != target {
		return fmt.Errorf("%w: person totals sum to %v, grand total is %v",
			ErrReconciliationMismatch, sum.ToDollars(), target.ToDollars())
	}
	return nil
}
