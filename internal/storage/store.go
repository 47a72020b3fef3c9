// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/peytondoyle/tabby/internal/models"
)

// ErrNotFound is returned when a requested bill or user does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for bill and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Totals are never stored: a bill snapshot is persisted and totals are
// recomputed from it on demand.
type Store interface {
	// CreateBill persists a new bill. Missing IDs are populated.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID, including items, people, and
	// shares in their original order. Returns ErrNotFound if absent.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces an existing bill's snapshot wholesale.
	// Returns ErrNotFound if the bill does not exist.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill and all its children.
	// Returns ErrNotFound if the bill does not exist.
	DeleteBill(ctx context.Context, billID string) error

	// ListBills returns all bills created by the given user, newest first.
	ListBills(ctx context.Context, userID string) ([]*models.Bill, error)

	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
