package calculator

import (
	"sort"

	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/pkg/money"
)

// reconcile rounds every monetary field of every person to whole cents, then
// redistributes the residual rounding error so that the person totals sum
// exactly to targetTotal (the grand total rounded to cents).
//
// Pennies are moved one at a time onto the people with the largest rounded
// totals first — a one-cent adjustment is least perceptible on the biggest
// balance. Ties keep their original relative order (stable sort), and the
// walk wraps around if the difference exceeds the person count, so it
// terminates for any magnitude of difference. Results come back in the
// original input order; the sort is for distribution order only.
//
// The returned distributed figure is the net dollar amount moved, rounded to
// cents. It is observability output only.
func reconcile(raw []models.PersonTotal, targetTotal float64) ([]models.PersonTotal, float64) {
	rounded := make([]models.PersonTotal, len(raw))
	totalCents := make([]money.Cents, len(raw))
	var currentSum money.Cents
	for i, pt := range raw {
		r := pt
		r.Subtotal = money.RoundDollars(pt.Subtotal)
		r.DiscountShare = money.RoundDollars(pt.DiscountShare)
		r.ServiceFeeShare = money.RoundDollars(pt.ServiceFeeShare)
		r.TaxShare = money.RoundDollars(pt.TaxShare)
		r.TipShare = money.RoundDollars(pt.TipShare)
		r.Items = make([]models.ShareLine, len(pt.Items))
		for j, line := range pt.Items {
			line.ShareAmount = money.RoundDollars(line.ShareAmount)
			r.Items[j] = line
		}

		totalCents[i] = money.FromDollars(pt.Total)
		r.Total = totalCents[i].ToDollars()
		currentSum += totalCents[i]
		rounded[i] = r
	}

	diff := money.FromDollars(targetTotal) - currentSum
	distributed := diff.ToDollars()
	if diff == 0 || len(rounded) == 0 {
		return rounded, distributed
	}

	// Distribution order: largest rounded total first, stable on ties.
	order := make([]int, len(rounded))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return totalCents[order[a]] > totalCents[order[b]]
	})

	step := money.Cents(1)
	if diff < 0 {
		step = -1
	}
	for pos := 0; diff != 0; pos = (pos + 1) % len(order) {
		totalCents[order[pos]] += step
		diff -= step
	}

	for i := range rounded {
		rounded[i].Total = totalCents[i].ToDollars()
	}
	return rounded, distributed
}
