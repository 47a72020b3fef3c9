package calculator

import (
	"github.com/peytondoyle/tabby/internal/models"
)

// chargeShares holds each person's raw (unrounded) share of every bill-level
// charge, keyed by person ID.
type chargeShares struct {
	tax        map[string]float64
	tip        map[string]float64
	discount   map[string]float64
	serviceFee map[string]float64
}

// distributeCharges computes per-person charge shares. Tax and tip follow
// their independently selected modes; discount and service fee are always
// proportional (an intentional asymmetry in the product — do not add an even
// option here without a product decision).
//
// Discount shares are stored positive and subtracted later when totals are
// summed.
func distributeCharges(in Input, alloc allocation) chargeShares {
	return chargeShares{
		tax:        distributeCharge(in.Tax, in.TaxMode, in.People, alloc, in.IncludeZeroItemPeople),
		tip:        distributeCharge(in.Tip, in.TipMode, in.People, alloc, in.IncludeZeroItemPeople),
		discount:   distributeCharge(in.Discount, models.ChargeModeProportional, in.People, alloc, in.IncludeZeroItemPeople),
		serviceFee: distributeCharge(in.ServiceFee, models.ChargeModeProportional, in.People, alloc, in.IncludeZeroItemPeople),
	}
}

// distributeCharge splits one charge amount across people under the given
// mode. Degenerate states (zero allocated subtotal in proportional mode, an
// empty relevant set in even mode) are defined outcomes, not errors: nobody
// receives the charge.
func distributeCharge(charge float64, mode models.ChargeMode, people []models.Person, alloc allocation, includeZeroItemPeople bool) map[string]float64 {
	out := make(map[string]float64, len(people))
	for _, p := range people {
		out[p.ID] = 0
	}
	if charge == 0 {
		return out
	}

	switch mode {
	case models.ChargeModeEven:
		relevant := make([]string, 0, len(people))
		for _, p := range people {
			if includeZeroItemPeople || alloc.subtotals[p.ID] > 0 {
				relevant = append(relevant, p.ID)
			}
		}
		if len(relevant) == 0 {
			return out
		}
		perPerson := charge / float64(len(relevant))
		for _, id := range relevant {
			out[id] = perPerson
		}

	default: // proportional
		if alloc.total == 0 {
			return out
		}
		for _, p := range people {
			out[p.ID] = charge * (alloc.subtotals[p.ID] / alloc.total)
		}
	}

	return out
}
