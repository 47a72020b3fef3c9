// Package service orchestrates storage and the calculator into the
// operations the API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/peytondoyle/tabby/internal/calculator"
	"github.com/peytondoyle/tabby/internal/metrics"
	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/internal/storage"
	"github.com/peytondoyle/tabby/pkg/money"
)

// ErrForbidden is returned when a user tries to mutate a bill they did not
// create.
var ErrForbidden = errors.New("bill belongs to another user")

// BillService provides storage-backed bill management. Totals are always
// recomputed from the stored snapshot; they are never persisted.
type BillService struct {
	store   storage.Store
	metrics *metrics.Metrics // nil disables instrumentation
}

// NewBillService creates a BillService. metrics may be nil.
func NewBillService(store storage.Store, m *metrics.Metrics) *BillService {
	return &BillService{store: store, metrics: m}
}

// Compute runs a stateless totals computation, instrumented.
func (s *BillService) Compute(in calculator.Input) (*models.BillTotals, error) {
	start := time.Now()
	totals, err := calculator.Compute(in)

	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ComputeTotal.WithLabelValues(outcome).Inc()
		s.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
		if totals != nil {
			moved := money.FromDollars(totals.PennyReconciliation.Distributed).Abs()
			s.metrics.CentsMoved.Observe(float64(moved))
		}
	}

	if err != nil {
		return nil, err
	}
	return totals, nil
}

// CreateBill validates, persists, and computes totals for a new bill.
func (s *BillService) CreateBill(ctx context.Context, bill *models.Bill) (*models.BillTotals, error) {
	normalizeModes(bill)
	totals, err := s.Compute(calculator.FromBill(bill))
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	slog.Info("bill created", "bill_id", bill.ID, "people", len(bill.People), "items", len(bill.Items))
	return totals, nil
}

// GetBill loads a bill snapshot.
func (s *BillService) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.store.GetBill(ctx, billID)
}

// ListBills returns the bills created by a user, newest first.
func (s *BillService) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	return s.store.ListBills(ctx, userID)
}

// UpdateBill replaces a bill's snapshot and returns fresh totals.
// Only the bill's creator may update it.
func (s *BillService) UpdateBill(ctx context.Context, userID string, bill *models.Bill) (*models.BillTotals, error) {
	if err := s.requireOwner(ctx, userID, bill.ID); err != nil {
		return nil, err
	}

	normalizeModes(bill)
	totals, err := s.Compute(calculator.FromBill(bill))
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return totals, nil
}

// DeleteBill removes a bill. Only the bill's creator may delete it.
func (s *BillService) DeleteBill(ctx context.Context, userID, billID string) error {
	if err := s.requireOwner(ctx, userID, billID); err != nil {
		return err
	}
	return s.store.DeleteBill(ctx, billID)
}

// ComputeTotals loads a bill and computes its full breakdown.
func (s *BillService) ComputeTotals(ctx context.Context, billID string) (*models.BillTotals, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return s.Compute(calculator.FromBill(bill))
}

// AssignItems replaces one person's item assignments, drag-and-drop style:
// the person ends up owning exactly itemIDs, and every item they join or
// leave is re-split evenly among its owners (1/n weights at full precision).
// Custom weights on touched items are reset; untouched items keep theirs.
func (s *BillService) AssignItems(ctx context.Context, userID, billID, personID string, itemIDs []string) (*models.BillTotals, error) {
	if err := s.requireOwner(ctx, userID, billID); err != nil {
		return nil, err
	}
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	// Items whose ownership changes: everything the person had, plus
	// everything they are getting.
	touched := make(map[string]bool, len(itemIDs))
	for id := range wanted {
		touched[id] = true
	}
	shares := bill.Shares[:0:0]
	for _, sh := range bill.Shares {
		if sh.PersonID == personID {
			touched[sh.ItemID] = true
			continue // dropped; re-added below if still wanted
		}
		shares = append(shares, sh)
	}
	for id := range wanted {
		if _, ok := calculator.FindShare(shares, id, personID); !ok {
			shares = append(shares, models.ItemShare{ItemID: id, PersonID: personID, Weight: 1})
		}
	}

	// Re-split every touched item evenly among its current owners.
	owners := make(map[string]int)
	for _, sh := range shares {
		if touched[sh.ItemID] {
			owners[sh.ItemID]++
		}
	}
	for i, sh := range shares {
		if touched[sh.ItemID] {
			shares[i].Weight = 1 / float64(owners[sh.ItemID])
		}
	}
	bill.Shares = shares

	totals, err := s.Compute(calculator.FromBill(bill))
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	slog.Info("items reassigned", "bill_id", billID, "person_id", personID, "items", len(itemIDs))
	return totals, nil
}

func (s *BillService) requireOwner(ctx context.Context, userID, billID string) error {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	if bill.CreatedBy != "" && bill.CreatedBy != userID {
		return ErrForbidden
	}
	return nil
}

// normalizeModes defaults blank charge modes to proportional so stored bills
// always carry an explicit mode.
func normalizeModes(bill *models.Bill) {
	if bill.TaxMode == "" {
		bill.TaxMode = models.ChargeModeProportional
	}
	if bill.TipMode == "" {
		bill.TipMode = models.ChargeModeProportional
	}
}
