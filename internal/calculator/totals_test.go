package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/pkg/money"
)

func person(id, name string) models.Person {
	return models.Person{ID: id, Name: name}
}

func item(id, label string, price float64) models.Item {
	return models.Item{ID: id, Label: label, Price: price, Quantity: 1}
}

func share(itemID, personID string, weight float64) models.ItemShare {
	return models.ItemShare{ItemID: itemID, PersonID: personID, Weight: weight}
}

// checkSumInvariant verifies the one hard guarantee: rounded person totals
// sum exactly to the rounded grand total, in cents.
func checkSumInvariant(t *testing.T, totals *models.BillTotals) {
	t.Helper()
	if err := ValidateTotals(totals); err != nil {
		t.Errorf("sum invariant violated: %v", err)
	}
	var sum money.Cents
	for _, pt := range totals.PersonTotals {
		sum += money.FromDollars(pt.Total)
	}
	if sum != money.FromDollars(totals.GrandTotal) {
		t.Errorf("person totals sum to %v, grand total %v", sum.ToDollars(), totals.GrandTotal)
	}
}

// checkCentExact verifies every monetary output field is a whole number of
// cents (no NaN, no Inf, no fractional cents).
func checkCentExact(t *testing.T, totals *models.BillTotals) {
	t.Helper()
	fields := []float64{
		totals.Subtotal, totals.Tax, totals.Tip, totals.Discount,
		totals.ServiceFee, totals.GrandTotal, totals.PennyReconciliation.Distributed,
	}
	for _, pt := range totals.PersonTotals {
		fields = append(fields, pt.Subtotal, pt.DiscountShare, pt.ServiceFeeShare,
			pt.TaxShare, pt.TipShare, pt.Total)
		for _, line := range pt.Items {
			fields = append(fields, line.ShareAmount)
		}
	}
	for _, f := range fields {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("non-finite monetary value %v in output", f)
		}
		if f != money.RoundDollars(f) {
			t.Errorf("monetary value %v is not a whole number of cents", f)
		}
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		input        Input
		wantErr      error
		validateFunc func(t *testing.T, totals *models.BillTotals)
	}{
		{
			name: "proportional tax and tip across three people",
			input: Input{
				Items: []models.Item{
					item("a", "Steak", 20),
					item("b", "Soup", 8),
					item("c", "Pasta", 12),
				},
				Shares: []models.ItemShare{
					share("a", "p1", 1),
					share("b", "p2", 1),
					share("c", "p3", 1),
				},
				People:  []models.Person{person("p1", "Ana"), person("p2", "Ben"), person("p3", "Cal")},
				Tax:     4,
				Tip:     6,
				TaxMode: models.ChargeModeProportional,
				TipMode: models.ChargeModeProportional,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				if totals.GrandTotal != 50.00 {
					t.Errorf("grand total = %v, want 50.00", totals.GrandTotal)
				}
				want := []struct {
					tax, tip, total float64
				}{
					{2.00, 3.00, 25.00},
					{0.80, 1.20, 10.00},
					{1.20, 1.80, 15.00},
				}
				for i, w := range want {
					pt := totals.PersonTotals[i]
					if pt.TaxShare != w.tax || pt.TipShare != w.tip || pt.Total != w.total {
						t.Errorf("%s: tax/tip/total = %v/%v/%v, want %v/%v/%v",
							pt.Name, pt.TaxShare, pt.TipShare, pt.Total, w.tax, w.tip, w.total)
					}
				}
			},
		},
		{
			name: "even split excludes zero-item people when flag is false",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20), item("b", "Soup", 8)},
				Shares: []models.ItemShare{share("a", "p1", 1), share("b", "p2", 1)},
				People: []models.Person{person("p1", "Ana"), person("p2", "Ben"), person("p3", "Cal")},
				Tax:    4, Tip: 6,
				TaxMode: models.ChargeModeEven,
				TipMode: models.ChargeModeEven,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				for _, id := range []string{"p1", "p2"} {
					pt, _ := totals.PersonTotal(id)
					if pt.TaxShare != 2.00 || pt.TipShare != 3.00 {
						t.Errorf("%s tax/tip = %v/%v, want 2.00/3.00", id, pt.TaxShare, pt.TipShare)
					}
				}
				cal, _ := totals.PersonTotal("p3")
				if cal.TaxShare != 0 || cal.TipShare != 0 || cal.Total != 0 {
					t.Errorf("itemless person got tax/tip/total = %v/%v/%v, want zeros",
						cal.TaxShare, cal.TipShare, cal.Total)
				}
			},
		},
		{
			name: "even split includes zero-item people when flag is true",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20), item("b", "Soup", 8)},
				Shares: []models.ItemShare{share("a", "p1", 1), share("b", "p2", 1)},
				People: []models.Person{person("p1", "Ana"), person("p2", "Ben"), person("p3", "Cal")},
				Tax:    3, Tip: 6,
				TaxMode:               models.ChargeModeEven,
				TipMode:               models.ChargeModeEven,
				IncludeZeroItemPeople: true,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				for _, pt := range totals.PersonTotals {
					if pt.TaxShare != 1.00 || pt.TipShare != 2.00 {
						t.Errorf("%s tax/tip = %v/%v, want 1.00/2.00", pt.Name, pt.TaxShare, pt.TipShare)
					}
				}
			},
		},
		{
			name: "shared item splits by weight",
			input: Input{
				Items:  []models.Item{item("a", "Platter", 20)},
				Shares: []models.ItemShare{share("a", "p1", 0.5), share("a", "p2", 0.5)},
				People: []models.Person{person("p1", "Ana"), person("p2", "Ben")},
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				for _, pt := range totals.PersonTotals {
					if pt.Subtotal != 10.00 {
						t.Errorf("%s subtotal = %v, want 10.00", pt.Name, pt.Subtotal)
					}
				}
			},
		},
		{
			name: "uneven weights split two to one",
			input: Input{
				Items:  []models.Item{item("a", "Pitcher", 12)},
				Shares: []models.ItemShare{share("a", "p1", 2), share("a", "p2", 1)},
				People: []models.Person{person("p1", "Ana"), person("p2", "Ben")},
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				ana, _ := totals.PersonTotal("p1")
				ben, _ := totals.PersonTotal("p2")
				if ana.Subtotal != 8.00 || ben.Subtotal != 4.00 {
					t.Errorf("subtotals = %v/%v, want 8.00/4.00", ana.Subtotal, ben.Subtotal)
				}
			},
		},
		{
			name: "discount distributed proportionally and subtracted",
			input: Input{
				Items:    []models.Item{item("a", "Steak", 20), item("b", "Soup", 8)},
				Shares:   []models.ItemShare{share("a", "p1", 1), share("b", "p2", 1)},
				People:   []models.Person{person("p1", "Ana"), person("p2", "Ben")},
				Discount: 7,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				if totals.GrandTotal != 21.00 {
					t.Errorf("grand total = %v, want 21.00", totals.GrandTotal)
				}
				ana, _ := totals.PersonTotal("p1")
				ben, _ := totals.PersonTotal("p2")
				if ana.DiscountShare != 5.00 || ana.Total != 15.00 {
					t.Errorf("Ana discount/total = %v/%v, want 5.00/15.00", ana.DiscountShare, ana.Total)
				}
				if ben.DiscountShare != 2.00 || ben.Total != 6.00 {
					t.Errorf("Ben discount/total = %v/%v, want 2.00/6.00", ben.DiscountShare, ben.Total)
				}
			},
		},
		{
			name: "service fee distributed proportionally and added",
			input: Input{
				Items:      []models.Item{item("a", "Steak", 20), item("b", "Soup", 8)},
				Shares:     []models.ItemShare{share("a", "p1", 1), share("b", "p2", 1)},
				People:     []models.Person{person("p1", "Ana"), person("p2", "Ben")},
				ServiceFee: 2.8,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				if totals.GrandTotal != 30.80 {
					t.Errorf("grand total = %v, want 30.80", totals.GrandTotal)
				}
				ana, _ := totals.PersonTotal("p1")
				if ana.ServiceFeeShare != 2.00 || ana.Total != 22.00 {
					t.Errorf("Ana fee/total = %v/%v, want 2.00/22.00", ana.ServiceFeeShare, ana.Total)
				}
			},
		},
		{
			name: "three-way penny split sums exactly",
			input: Input{
				Items: []models.Item{item("a", "Cake", 10)},
				Shares: []models.ItemShare{
					share("a", "p1", 1), share("a", "p2", 1), share("a", "p3", 1),
				},
				People: []models.Person{person("p1", "Ana"), person("p2", "Ben"), person("p3", "Cal")},
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				if totals.GrandTotal != 10.00 {
					t.Errorf("grand total = %v, want 10.00", totals.GrandTotal)
				}
				var sum float64
				high, low := 0, 0
				for _, pt := range totals.PersonTotals {
					sum += pt.Total
					switch pt.Total {
					case 3.34:
						high++
					case 3.33:
						low++
					default:
						t.Errorf("%s total = %v, want 3.33 or 3.34", pt.Name, pt.Total)
					}
				}
				if high != 1 || low != 2 {
					t.Errorf("got %d at 3.34 and %d at 3.33, want 1 and 2", high, low)
				}
				if money.FromDollars(sum) != 1000 {
					t.Errorf("totals sum to %v, want exactly 10.00", sum)
				}
			},
		},
		{
			name: "zero subtotal proportional distribution gives nobody the charge",
			input: Input{
				People:   []models.Person{person("p1", "Ana"), person("p2", "Ben")},
				Discount: 5,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				// A discount-only bill: nobody has a subtotal, so nobody
				// carries a discount share. The -5.00 grand total is then
				// absorbed by the reconciliation walk.
				for _, pt := range totals.PersonTotals {
					if pt.DiscountShare != 0 {
						t.Errorf("%s discount share = %v, want 0", pt.Name, pt.DiscountShare)
					}
				}
				if totals.GrandTotal != -5.00 {
					t.Errorf("grand total = %v, want -5.00", totals.GrandTotal)
				}
			},
		},
		{
			name: "even mode with empty relevant set distributes nothing",
			input: Input{
				People:  []models.Person{person("p1", "Ana")},
				Tax:     3,
				TaxMode: models.ChargeModeEven,
				TipMode: models.ChargeModeProportional,
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				// Ana has no items and the flag is false, so the even set is
				// empty; the tax lands on her only through reconciliation.
				pt := totals.PersonTotals[0]
				if pt.TaxShare != 0 {
					t.Errorf("tax share = %v, want 0", pt.TaxShare)
				}
				if pt.Total != 3.00 {
					t.Errorf("total = %v, want 3.00 (absorbed by reconciliation)", pt.Total)
				}
			},
		},
		{
			name: "unassigned item still counts toward grand total",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20), item("b", "Mystery", 5)},
				Shares: []models.ItemShare{share("a", "p1", 1)},
				People: []models.Person{person("p1", "Ana")},
			},
			validateFunc: func(t *testing.T, totals *models.BillTotals) {
				if totals.Subtotal != 25.00 || totals.GrandTotal != 25.00 {
					t.Errorf("subtotal/grand = %v/%v, want 25.00/25.00", totals.Subtotal, totals.GrandTotal)
				}
				// Nobody owns the mystery item, so its $5 reaches Ana via the
				// reconciliation walk; her itemized subtotal stays at $20.
				pt := totals.PersonTotals[0]
				if pt.Subtotal != 20.00 || pt.Total != 25.00 {
					t.Errorf("subtotal/total = %v/%v, want 20.00/25.00", pt.Subtotal, pt.Total)
				}
			},
		},
		{
			name: "zero-weight share is rejected",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20)},
				Shares: []models.ItemShare{share("a", "p1", 0)},
				People: []models.Person{person("p1", "Ana")},
			},
			wantErr: ErrInvalidShareWeight,
		},
		{
			name: "negative weight is rejected",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20)},
				Shares: []models.ItemShare{share("a", "p1", -1)},
				People: []models.Person{person("p1", "Ana")},
			},
			wantErr: ErrInvalidShareWeight,
		},
		{
			name: "NaN weight is rejected",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20)},
				Shares: []models.ItemShare{share("a", "p1", math.NaN())},
				People: []models.Person{person("p1", "Ana")},
			},
			wantErr: ErrInvalidShareWeight,
		},
		{
			name: "share for unknown item is rejected",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20)},
				Shares: []models.ItemShare{share("ghost", "p1", 1)},
				People: []models.Person{person("p1", "Ana")},
			},
			wantErr: ErrUnknownItem,
		},
		{
			name: "share for unknown person is rejected",
			input: Input{
				Items:  []models.Item{item("a", "Steak", 20)},
				Shares: []models.ItemShare{share("a", "ghost", 1)},
				People: []models.Person{person("p1", "Ana")},
			},
			wantErr: ErrUnknownPerson,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Compute(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() unexpected error: %v", err)
			}
			checkSumInvariant(t, totals)
			checkCentExact(t, totals)
			if len(totals.PersonTotals) != len(tt.input.People) {
				t.Fatalf("got %d person totals, want %d", len(totals.PersonTotals), len(tt.input.People))
			}
			for i, pt := range totals.PersonTotals {
				if pt.PersonID != tt.input.People[i].ID {
					t.Errorf("person totals out of input order at %d: got %s", i, pt.PersonID)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, totals)
			}
		})
	}
}

func TestComputeEchoesCharges(t *testing.T) {
	totals, err := Compute(Input{
		Items:      []models.Item{item("a", "Steak", 20)},
		Shares:     []models.ItemShare{share("a", "p1", 1)},
		People:     []models.Person{person("p1", "Ana")},
		Tax:        1.50,
		Tip:        3,
		Discount:   2,
		ServiceFee: 1,
	})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if totals.Tax != 1.50 || totals.Tip != 3.00 || totals.Discount != 2.00 || totals.ServiceFee != 1.00 {
		t.Errorf("echoed charges = %v/%v/%v/%v", totals.Tax, totals.Tip, totals.Discount, totals.ServiceFee)
	}
	if totals.GrandTotal != 23.50 {
		t.Errorf("grand total = %v, want 23.50", totals.GrandTotal)
	}
	if totals.PennyReconciliation.Method != models.ReconciliationMethod {
		t.Errorf("method = %q, want %q", totals.PennyReconciliation.Method, models.ReconciliationMethod)
	}
}

func TestValidateTotals(t *testing.T) {
	good := &models.BillTotals{
		GrandTotal: 10.00,
		PersonTotals: []models.PersonTotal{
			{PersonID: "p1", Total: 3.34},
			{PersonID: "p2", Total: 3.33},
			{PersonID: "p3", Total: 3.33},
		},
	}
	if err := ValidateTotals(good); err != nil {
		t.Errorf("ValidateTotals() = %v, want nil", err)
	}

	bad := &models.BillTotals{
		GrandTotal: 10.00,
		PersonTotals: []models.PersonTotal{
			{PersonID: "p1", Total: 3.33},
			{PersonID: "p2", Total: 3.33},
			{PersonID: "p3", Total: 3.33},
		},
	}
	if err := ValidateTotals(bad); !errors.Is(err, ErrReconciliationMismatch) {
		t.Errorf("ValidateTotals() = %v, want ErrReconciliationMismatch", err)
	}
}
