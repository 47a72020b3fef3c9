package models

// ChargeMode selects how a bill-level charge is distributed across people.
type ChargeMode string

const (
	// ChargeModeProportional allocates a charge to each person in proportion
	// to their share of the allocated subtotal.
	ChargeModeProportional ChargeMode = "proportional"

	// ChargeModeEven splits a charge equally among the relevant set of people.
	ChargeModeEven ChargeMode = "even"
)

// Valid reports whether the mode is one of the known charge modes.
func (m ChargeMode) Valid() bool {
	return m == ChargeModeProportional || m == ChargeModeEven
}

// Item is a priced line on the bill.
// Price is the item's total contribution to the bill, not a per-unit price.
// Items are immutable once passed into the calculator.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Label is the human-readable name of the item (e.g., "Pad Thai").
	Label string `json:"label"`

	// Price is the item's total contribution to the bill.
	Price float64 `json:"price"`

	// Quantity is informational only; it does not affect the math.
	Quantity int `json:"quantity"`

	// Emoji is an optional icon shown next to the item.
	Emoji string `json:"emoji,omitempty"`
}

// Person is a participant splitting the bill.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name of the person.
	Name string `json:"name"`

	// Avatar is an optional avatar URL or handle.
	Avatar string `json:"avatar,omitempty"`

	// IsPaid records whether this person has settled up.
	// Informational only; unused by the math.
	IsPaid bool `json:"is_paid"`
}

// ItemShare links one item to one person with a relative weight.
//
// Weights are relative proportions, not normalized: an item split 2/1
// between two people gives the first person two thirds of its price.
// A weight <= 0 is invalid, as is an item whose weights sum to <= 0.
type ItemShare struct {
	ItemID   string  `json:"item_id"`
	PersonID string  `json:"person_id"`
	Weight   float64 `json:"weight"`
}

// Bill is the persisted aggregate: everything needed to recompute totals.
// Computed totals are derived data and are never stored.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name for the bill.
	// Auto-generated from people names when left blank.
	Title string `json:"title"`

	Items  []Item      `json:"items"`
	People []Person    `json:"people"`
	Shares []ItemShare `json:"shares"`

	// Bill-level charges. Tax, tip, and service fee are added to the total;
	// discount is subtracted. All are plain amounts, not rates.
	Tax        float64 `json:"tax"`
	Tip        float64 `json:"tip"`
	Discount   float64 `json:"discount"`
	ServiceFee float64 `json:"service_fee"`

	// TaxMode and TipMode select the distribution strategy per charge.
	// Discount and service fee are always distributed proportionally.
	TaxMode ChargeMode `json:"tax_mode"`
	TipMode ChargeMode `json:"tip_mode"`

	// IncludeZeroItemPeople widens even-mode distribution to people with
	// no assigned items.
	IncludeZeroItemPeople bool `json:"include_zero_item_people"`

	// CreatedBy is the ID of the user who created the bill.
	CreatedBy string `json:"created_by,omitempty"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`
}
