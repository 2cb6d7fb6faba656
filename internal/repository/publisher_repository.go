package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GerwinBaula/renga-api/internal/domain"

	"github.com/google/uuid"
)

var ErrPublisherNotFound = errors.New("publisher not found")

// PublisherRepository defines the interface for publisher data access
type PublisherRepository interface {
	Create(ctx context.Context, publisher *domain.Publisher) error
	Update(ctx context.Context, publisher *domain.Publisher) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Publisher, error)
	List(ctx context.Context) ([]*domain.Publisher, error)
}

type publisherRepository struct {
	db *sql.DB
}

// NewPublisherRepository creates a new instance of PublisherRepository
func NewPublisherRepository(db *sql.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

// Create inserts a new publisher into the database using parameterized queries
func (r *publisherRepository) Create(ctx context.Context, publisher *domain.Publisher) error {
	query := `
		INSERT INTO publishers (id, name, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		publisher.ID,
		publisher.Name,
		publisher.Website,
		publisher.CreatedAt,
		publisher.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}

	return nil
}

// Update updates an existing publisher in the database using parameterized queries
func (r *publisherRepository) Update(ctx context.Context, publisher *domain.Publisher) error {
	query := `
		UPDATE publishers
		SET name = $2, website = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		publisher.ID,
		publisher.Name,
		publisher.Website,
		publisher.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update publisher: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPublisherNotFound
	}

	return nil
}

// Delete removes a publisher from the database using parameterized queries
func (r *publisherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM publishers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete publisher: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPublisherNotFound
	}

	return nil
}

// FindByID retrieves a publisher by ID using parameterized queries
func (r *publisherRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Publisher, error) {
	query := `
		SELECT id, name, website, created_at, updated_at
		FROM publishers
		WHERE id = $1
	`

	publisher := &domain.Publisher{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Website,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPublisherNotFound
		}
		return nil, fmt.Errorf("failed to find publisher by ID: %w", err)
	}

	return publisher, nil
}

// List retrieves all publishers sorted by name
func (r *publisherRepository) List(ctx context.Context) ([]*domain.Publisher, error) {
	query := `
		SELECT id, name, website, created_at, updated_at
		FROM publishers
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list publishers: %w", err)
	}
	defer rows.Close()

	publishers := []*domain.Publisher{}
	for rows.Next() {
		publisher := &domain.Publisher{}
		err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Website,
			&publisher.CreatedAt,
			&publisher.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publisher: %w", err)
		}
		publishers = append(publishers, publisher)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publishers: %w", err)
	}

	return publishers, nil
}
