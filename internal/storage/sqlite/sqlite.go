// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill snapshot, filling in missing IDs.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.People)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var createdBy any
	if bill.CreatedBy != "" {
		createdBy = bill.CreatedBy
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, title, tax, tip, discount, service_fee,
			tax_mode, tip_mode, include_zero_item_people, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.Tax, bill.Tip, bill.Discount, bill.ServiceFee,
		string(bill.TaxMode), string(bill.TipMode), bill.IncludeZeroItemPeople,
		createdBy, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBill retrieves a full bill snapshot by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var taxMode, tipMode string
	var createdBy sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, tax, tip, discount, service_fee,
			tax_mode, tip_mode, include_zero_item_people, created_by, created_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Title, &bill.Tax, &bill.Tip, &bill.Discount,
		&bill.ServiceFee, &taxMode, &tipMode, &bill.IncludeZeroItemPeople,
		&createdBy, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.TaxMode = models.ChargeMode(taxMode)
	bill.TipMode = models.ChargeMode(tipMode)
	bill.CreatedBy = createdBy.String

	if err := s.loadChildren(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// UpdateBill replaces a bill's snapshot wholesale: the bill row is updated
// and all child rows are rewritten in one transaction.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET title = ?, tax = ?, tip = ?, discount = ?,
			service_fee = ?, tax_mode = ?, tip_mode = ?, include_zero_item_people = ?
		 WHERE id = ?`,
		bill.Title, bill.Tax, bill.Tip, bill.Discount, bill.ServiceFee,
		string(bill.TaxMode), string(bill.TipMode), bill.IncludeZeroItemPeople,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrNotFound)
	}

	for _, table := range []string{"bill_people", "bill_items", "item_shares"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE bill_id = ?", table), bill.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill; children cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}

// ListBills returns the given user's bills, newest first.
func (s *SQLiteStore) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM bills WHERE created_by = ? ORDER BY created_at DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// insertChildren writes a bill's people, items, and shares with their
// positions so order survives a round trip.
func insertChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i := range bill.People {
		p := &bill.People[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_people (bill_id, person_id, name, avatar, is_paid, position) VALUES (?, ?, ?, ?, ?, ?)",
			bill.ID, p.ID, p.Name, p.Avatar, p.IsPaid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for i := range bill.Items {
		it := &bill.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_items (bill_id, item_id, label, price, quantity, emoji, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			bill.ID, it.ID, it.Label, it.Price, it.Quantity, it.Emoji, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for i, sh := range bill.Shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO item_shares (bill_id, item_id, person_id, weight, position) VALUES (?, ?, ?, ?, ?)",
			bill.ID, sh.ItemID, sh.PersonID, sh.Weight, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// loadChildren populates a bill's people, items, and shares in stored order.
func (s *SQLiteStore) loadChildren(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id, name, avatar, is_paid FROM bill_people WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Avatar, &p.IsPaid); err != nil {
			return fmt.Errorf("failed to scan person: %w", err)
		}
		bill.People = append(bill.People, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate people: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, label, price, quantity, emoji FROM bill_items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it models.Item
		if err := itemRows.Scan(&it.ID, &it.Label, &it.Price, &it.Quantity, &it.Emoji); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, person_id, weight FROM item_shares WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()
	for shareRows.Next() {
		var sh models.ItemShare
		if err := shareRows.Scan(&sh.ItemID, &sh.PersonID, &sh.Weight); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		bill.Shares = append(bill.Shares, sh)
	}
	if err := shareRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}

	return nil
}

// generateTitle creates an auto-generated title from the bill's people.
func generateTitle(people []models.Person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
