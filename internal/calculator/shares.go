package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/peytondoyle/tabby/internal/models"
)

var (
	// ErrInvalidShareWeight indicates a share with weight <= 0.
	ErrInvalidShareWeight = errors.New("share weight must be greater than zero")

	// ErrOrphanedItem indicates an item whose assigned weights sum to <= 0,
	// which would make its allocation a division by zero.
	ErrOrphanedItem = errors.New("item has no effective ownership")

	// ErrUnknownItem indicates a share referencing an item not on the bill.
	ErrUnknownItem = errors.New("share references unknown item")

	// ErrUnknownPerson indicates a share referencing a person not on the bill.
	ErrUnknownPerson = errors.New("share references unknown person")
)

// ValidateShares verifies that the weighted item assignments are well-formed:
// every weight is > 0, every referenced item and person exists, and every
// item referenced by at least one share has a positive total weight.
//
// Violations are surfaced, never silently corrected: a zero-weight share or a
// zero-ownership item is a data-entry defect, and clamping it would hide the
// defect behind wrong numbers.
func ValidateShares(items []models.Item, people []models.Person, shares []models.ItemShare) error {
	knownItems := make(map[string]bool, len(items))
	for _, it := range items {
		knownItems[it.ID] = true
	}
	knownPeople := make(map[string]bool, len(people))
	for _, p := range people {
		knownPeople[p.ID] = true
	}

	weightByItem := make(map[string]float64, len(items))
	for _, s := range shares {
		if !knownItems[s.ItemID] {
			return fmt.Errorf("%w: item %q (person %q)", ErrUnknownItem, s.ItemID, s.PersonID)
		}
		if !knownPeople[s.PersonID] {
			return fmt.Errorf("%w: person %q (item %q)", ErrUnknownPerson, s.PersonID, s.ItemID)
		}
		// NaN fails this comparison too, which is exactly what we want.
		if !(s.Weight > 0) {
			return fmt.Errorf("%w: item %q, person %q, weight %v",
				ErrInvalidShareWeight, s.ItemID, s.PersonID, s.Weight)
		}
		weightByItem[s.ItemID] += s.Weight
	}

	for itemID, total := range weightByItem {
		if !(total > 0) {
			return fmt.Errorf("%w: item %q, total weight %v", ErrOrphanedItem, itemID, total)
		}
	}

	return nil
}

// FindShare reports whether a share already exists for (itemID, personID)
// and returns it if so. Callers use this to decide between inserting a new
// share and updating an existing one's weight; the calculator itself never
// merges duplicates.
func FindShare(shares []models.ItemShare, itemID, personID string) (models.ItemShare, bool) {
	for _, s := range shares {
		if s.ItemID == itemID && s.PersonID == personID {
			return s, true
		}
	}
	return models.ItemShare{}, false
}

// SharesFromAssignments derives weighted shares from a simplified
// person -> item IDs map, as produced by a drag-and-drop UI. An item claimed
// by n people gets weight 1/n for each of them, at full float precision
// (three claimants get 1/3 each, not 0.33).
//
// Output order is deterministic: people sorted by ID, each person's items in
// their listed order. Repeated item IDs within one person's list are
// collapsed to a single share.
func SharesFromAssignments(assignments map[string][]string) []models.ItemShare {
	claimants := make(map[string]int)
	for _, itemIDs := range assignments {
		seen := make(map[string]bool, len(itemIDs))
		for _, itemID := range itemIDs {
			if seen[itemID] {
				continue
			}
			seen[itemID] = true
			claimants[itemID]++
		}
	}

	personIDs := make([]string, 0, len(assignments))
	for personID := range assignments {
		personIDs = append(personIDs, personID)
	}
	sort.Strings(personIDs)

	var shares []models.ItemShare
	for _, personID := range personIDs {
		seen := make(map[string]bool)
		for _, itemID := range assignments[personID] {
			if seen[itemID] {
				continue
			}
			seen[itemID] = true
			shares = append(shares, models.ItemShare{
				ItemID:   itemID,
				PersonID: personID,
				Weight:   1 / float64(claimants[itemID]),
			})
		}
	}
	return shares
}
