package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrRentalNotFound = errors.New("rental not found")

	// ErrRentalAlreadyOpen means the customer already has an open rental of
	// this manga; the open-rental partial unique index rejected the insert.
	ErrRentalAlreadyOpen = errors.New("customer already has an open rental of this manga")

	// ErrRentalAlreadyReturned means another caller closed the rental first.
	ErrRentalAlreadyReturned = errors.New("rental has already been returned")
)

// RentalRepository defines the interface for rental data access.
// Close is a conditional update guarded on returned_at still being NULL, so
// two concurrent returns of the same rental have exactly one winner.
type RentalRepository interface {
	Insert(ctx context.Context, rental *domain.Rental) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	FindOpenByCustomerAndManga(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error)
	Close(ctx context.Context, id uuid.UUID, returnedAt time.Time, fee float64) error
	List(ctx context.Context) ([]*domain.Rental, error)
}

type rentalRepository struct {
	db *sql.DB
}

// NewRentalRepository creates a new instance of RentalRepository
func NewRentalRepository(db *sql.DB) RentalRepository {
	return &rentalRepository{db: db}
}

// Insert persists a new open rental. Customer and manga snapshots are stored
// as JSONB documents alongside the bare ids used for the open-rental lookup.
func (r *rentalRepository) Insert(ctx context.Context, rental *domain.Rental) error {
	customerJSON, err := json.Marshal(rental.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer snapshot: %w", err)
	}
	mangaJSON, err := json.Marshal(rental.Manga)
	if err != nil {
		return fmt.Errorf("failed to marshal manga snapshot: %w", err)
	}

	query := `
		INSERT INTO rentals (id, customer_id, manga_id, customer, manga, rented_at, returned_at, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		rental.ID,
		rental.CustomerID,
		rental.MangaID,
		customerJSON,
		mangaJSON,
		rental.RentedAt,
		rental.ReturnedAt,
		rental.Fee,
	)

	if err != nil {
		if strings.Contains(err.Error(), "rentals_open_customer_manga_idx") {
			return ErrRentalAlreadyOpen
		}
		return fmt.Errorf("failed to insert rental: %w", err)
	}

	return nil
}

// FindByID retrieves a rental by ID using parameterized queries
func (r *rentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `
		SELECT id, customer_id, manga_id, customer, manga, rented_at, returned_at, fee
		FROM rentals
		WHERE id = $1
	`

	rental, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find rental by ID: %w", err)
	}

	return rental, nil
}

// FindOpenByCustomerAndManga retrieves the currently open rental for the
// given customer and manga. Closed historical rentals of the same pair are
// never returned; the open-rental unique index guarantees at most one match.
func (r *rentalRepository) FindOpenByCustomerAndManga(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error) {
	query := `
		SELECT id, customer_id, manga_id, customer, manga, rented_at, returned_at, fee
		FROM rentals
		WHERE customer_id = $1 AND manga_id = $2 AND returned_at IS NULL
	`

	rental, err := scanRental(r.db.QueryRowContext(ctx, query, customerID, mangaID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find open rental: %w", err)
	}

	return rental, nil
}

// Close records the return of an open rental, setting returned_at and fee in
// one conditional update. If the rental is already closed the update matches
// no rows and the loser gets ErrRentalAlreadyReturned.
func (r *rentalRepository) Close(ctx context.Context, id uuid.UUID, returnedAt time.Time, fee float64) error {
	query := `
		UPDATE rentals
		SET returned_at = $2, fee = $3
		WHERE id = $1 AND returned_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, returnedAt, fee)
	if err != nil {
		return fmt.Errorf("failed to close rental: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check rental existence: %w", err)
		}
		if !exists {
			return ErrRentalNotFound
		}
		return ErrRentalAlreadyReturned
	}

	return nil
}

// List retrieves all rentals, most recently rented first
func (r *rentalRepository) List(ctx context.Context) ([]*domain.Rental, error) {
	query := `
		SELECT id, customer_id, manga_id, customer, manga, rented_at, returned_at, fee
		FROM rentals
		ORDER BY rented_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	defer rows.Close()

	rentals := []*domain.Rental{}
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, rental)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rentals: %w", err)
	}

	return rentals, nil
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rental := &domain.Rental{}
	var customerJSON, mangaJSON []byte
	var returnedAt sql.NullTime
	var fee sql.NullFloat64

	err := row.Scan(
		&rental.ID,
		&rental.CustomerID,
		&rental.MangaID,
		&customerJSON,
		&mangaJSON,
		&rental.RentedAt,
		&returnedAt,
		&fee,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerJSON, &rental.Customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer snapshot: %w", err)
	}
	if err := json.Unmarshal(mangaJSON, &rental.Manga); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manga snapshot: %w", err)
	}

	if returnedAt.Valid {
		t := returnedAt.Time
		rental.ReturnedAt = &t
	}
	if fee.Valid {
		f := fee.Float64
		rental.Fee = &f
	}

	return rental, nil
}
