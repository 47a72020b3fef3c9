package models

// ReconciliationMethod is the strategy used to redistribute rounding error.
// Only one method exists today: pennies go to the largest balances first.
const ReconciliationMethod = "distribute_largest"

// ShareLine is one person's slice of one item, as it appears in the output.
type ShareLine struct {
	ItemID   string  `json:"item_id"`
	Label    string  `json:"label"`
	Emoji    string  `json:"emoji,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Weight   float64 `json:"weight"`

	// ShareAmount is this person's computed portion of the item's price.
	ShareAmount float64 `json:"share_amount"`
}

// PersonTotal is one person's complete monetary breakdown.
// Total = Subtotal - DiscountShare + ServiceFeeShare + TaxShare + TipShare,
// after penny reconciliation.
type PersonTotal struct {
	PersonID        string      `json:"person_id"`
	Name            string      `json:"name"`
	Subtotal        float64     `json:"subtotal"`
	DiscountShare   float64     `json:"discount_share"`
	ServiceFeeShare float64     `json:"service_fee_share"`
	TaxShare        float64     `json:"tax_share"`
	TipShare        float64     `json:"tip_share"`
	Total           float64     `json:"total"`
	Items           []ShareLine `json:"items"`
}

// PennyReconciliation reports what the reconciliation pass did.
// Distributed is the net dollar amount moved between people; it is
// observability output and does not feed back into the computation.
type PennyReconciliation struct {
	Distributed float64 `json:"distributed"`
	Method      string  `json:"method"`
}

// BillTotals is the computed result for one bill snapshot.
// Every monetary field is an exact number of cents, and the person totals
// sum exactly to GrandTotal.
type BillTotals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Tip        float64 `json:"tip"`
	Discount   float64 `json:"discount"`
	ServiceFee float64 `json:"service_fee"`

	// GrandTotal = Subtotal - Discount + ServiceFee + Tax + Tip.
	GrandTotal float64 `json:"grand_total"`

	// PersonTotals holds one entry per input person, in input order.
	PersonTotals []PersonTotal `json:"person_totals"`

	PennyReconciliation PennyReconciliation `json:"penny_reconciliation"`
}

// PersonTotal returns the breakdown for one person, if present.
func (t *BillTotals) PersonTotal(personID string) (PersonTotal, bool) {
	for _, pt := range t.PersonTotals {
		if pt.PersonID == personID {
			return pt, true
		}
	}
	return PersonTotal{}, false
}

// TotalFor returns just the final total for one person, zero if unknown.
// Convenience for callers that only need one number.
func (t *BillTotals) TotalFor(personID string) float64 {
	pt, ok := t.PersonTotal(personID)
	if !ok {
		return 0
	}
	return pt.Total
}
