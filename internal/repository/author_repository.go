package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GerwinBaula/renga-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAuthorNotFound      = errors.New("author not found")
	ErrAuthorAlreadyExists = errors.New("author with this email already exists")
)

// AuthorRepository defines the interface for author data access
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	List(ctx context.Context) ([]*domain.Author, error)
}

type authorRepository struct {
	db *sql.DB
}

// NewAuthorRepository creates a new instance of AuthorRepository
func NewAuthorRepository(db *sql.DB) AuthorRepository {
	return &authorRepository{db: db}
}

// Create inserts a new author into the database using parameterized queries
func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	query := `
		INSERT INTO authors (id, first_name, last_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		author.ID,
		author.FirstName,
		author.LastName,
		author.Email,
		author.CreatedAt,
		author.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "authors_email_key") {
			return ErrAuthorAlreadyExists
		}
		return fmt.Errorf("failed to create author: %w", err)
	}

	return nil
}

// Update updates an existing author in the database using parameterized queries
func (r *authorRepository) Update(ctx context.Context, author *domain.Author) error {
	query := `
		UPDATE authors
		SET first_name = $2, last_name = $3, email = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		author.ID,
		author.FirstName,
		author.LastName,
		author.Email,
		author.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "authors_email_key") {
			return ErrAuthorAlreadyExists
		}
		return fmt.Errorf("failed to update author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAuthorNotFound
	}

	return nil
}

// Delete removes an author from the database using parameterized queries
func (r *authorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM authors WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAuthorNotFound
	}

	return nil
}

// FindByID retrieves an author by ID using parameterized queries
func (r *authorRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM authors
		WHERE id = $1
	`

	author := &domain.Author{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Email,
		&author.CreatedAt,
		&author.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to find author by ID: %w", err)
	}

	return author, nil
}

// List retrieves all authors sorted by last name
func (r *authorRepository) List(ctx context.Context) ([]*domain.Author, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM authors
		ORDER BY last_name ASC, first_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := []*domain.Author{}
	for rows.Next() {
		author := &domain.Author{}
		err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Email,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}

	return authors, nil
}
