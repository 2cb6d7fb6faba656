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
	ErrGenreNotFound      = errors.New("genre not found")
	ErrGenreAlreadyExists = errors.New("genre with this name already exists")
)

// GenreRepository defines the interface for genre data access
type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	Update(ctx context.Context, genre *domain.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	List(ctx context.Context) ([]*domain.Genre, error)
}

type genreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new instance of GenreRepository
func NewGenreRepository(db *sql.DB) GenreRepository {
	return &genreRepository{db: db}
}

// Create inserts a new genre into the database using parameterized queries
func (r *genreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	query := `
		INSERT INTO genres (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, genre.ID, genre.Name, genre.CreatedAt, genre.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "genres_name_key") {
			return ErrGenreAlreadyExists
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}

	return nil
}

// Update updates an existing genre in the database using parameterized queries
func (r *genreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	query := `
		UPDATE genres
		SET name = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, genre.ID, genre.Name, genre.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrGenreNotFound
	}

	return nil
}

// Delete removes a genre from the database using parameterized queries
func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM genres WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrGenreNotFound
	}

	return nil
}

// FindByID retrieves a genre by ID using parameterized queries
func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM genres
		WHERE id = $1
	`

	genre := &domain.Genre{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&genre.ID,
		&genre.Name,
		&genre.CreatedAt,
		&genre.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to find genre by ID: %w", err)
	}

	return genre, nil
}

// List retrieves all genres sorted by name
func (r *genreRepository) List(ctx context.Context) ([]*domain.Genre, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM genres
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	genres := []*domain.Genre{}
	for rows.Next() {
		genre := &domain.Genre{}
		err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}

	return genres, nil
}
