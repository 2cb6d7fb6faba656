package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrOutOfStock = errors.New("manga is out of stock")

	// ErrCapacityExceeded means a release would push units_available past the
	// provisioned capacity, which can only happen after a double release.
	ErrCapacityExceeded = errors.New("release exceeds provisioned capacity")
)

// InventoryRepository provides atomic reserve and release of manga units.
// Both operations are single conditional UPDATE statements so that concurrent
// callers against the same manga serialize at the database row; the counter
// can never go below zero or above capacity, regardless of interleaving.
type InventoryRepository interface {
	Reserve(ctx context.Context, mangaID uuid.UUID) error
	Release(ctx context.Context, mangaID uuid.UUID) error
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Reserve decrements units_available by one if at least one unit is free.
// The check and the decrement happen in one statement; a plain read followed
// by a write would let two callers take the last unit.
func (r *inventoryRepository) Reserve(ctx context.Context, mangaID uuid.UUID) error {
	query := `
		UPDATE mangas
		SET units_available = units_available - 1
		WHERE id = $1 AND units_available > 0
	`

	result, err := r.db.ExecContext(ctx, query, mangaID)
	if err != nil {
		return fmt.Errorf("failed to reserve manga unit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.classifyMiss(ctx, mangaID, ErrOutOfStock)
	}

	return nil
}

// Release increments units_available by one, refusing to overflow the
// provisioned capacity.
func (r *inventoryRepository) Release(ctx context.Context, mangaID uuid.UUID) error {
	query := `
		UPDATE mangas
		SET units_available = units_available + 1
		WHERE id = $1 AND units_available < capacity
	`

	result, err := r.db.ExecContext(ctx, query, mangaID)
	if err != nil {
		return fmt.Errorf("failed to release manga unit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.classifyMiss(ctx, mangaID, ErrCapacityExceeded)
	}

	return nil
}

// classifyMiss distinguishes a conditional update that matched no rows
// because the manga does not exist from one where the guard failed.
func (r *inventoryRepository) classifyMiss(ctx context.Context, mangaID uuid.UUID, guardErr error) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM mangas WHERE id = $1)`, mangaID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check manga existence: %w", err)
	}

	if !exists {
		return ErrMangaNotFound
	}
	return guardErr
}
