package calculator

import (
	"github.com/peytondoyle/tabby/internal/models"
)

// allocation holds the result of distributing item prices across people.
// All amounts are full-precision floats; rounding is deferred entirely to
// reconciliation so charge distribution operates on exact fractions.
type allocation struct {
	// subtotals maps person ID to the sum of their share amounts.
	subtotals map[string]float64

	// lines maps person ID to their share lines, in input share order.
	lines map[string][]models.ShareLine

	// total is the sum of all person subtotals: the allocated portion of the
	// bill. Items with no shares contribute nothing here.
	total float64
}

// allocate distributes each item's price across the people sharing it,
// by weight: share_amount = price * weight / totalWeightForItem.
//
// An item split three equal ways yields three unrounded thirds here
// ($10 -> 3.3333...); keeping the exact fractions means rounding error does
// not compound through charge distribution. Items with zero shares are
// simply absent from every person's subtotal — whether that is a problem is
// a product concern handled upstream, not an error at this layer.
//
// Inputs are assumed to have passed ValidateShares.
func allocate(items []models.Item, shares []models.ItemShare) allocation {
	itemByID := make(map[string]models.Item, len(items))
	for _, it := range items {
		itemByID[it.ID] = it
	}

	// Single grouping pass: total weight per item.
	weightByItem := make(map[string]float64, len(items))
	for _, s := range shares {
		weightByItem[s.ItemID] += s.Weight
	}

	out := allocation{
		subtotals: make(map[string]float64),
		lines:     make(map[string][]models.ShareLine),
	}

	for _, s := range shares {
		item := itemByID[s.ItemID]
		amount := item.Price * (s.Weight / weightByItem[s.ItemID])

		out.subtotals[s.PersonID] += amount
		out.total += amount
		out.lines[s.PersonID] = append(out.lines[s.PersonID], models.ShareLine{
			ItemID:      item.ID,
			Label:       item.Label,
			Emoji:       item.Emoji,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Weight:      s.Weight,
			ShareAmount: amount,
		})
	}

	return out
}
