package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GerwinBaula/renga-api/internal/domain"

	"github.com/google/uuid"
)

var ErrMangaNotFound = errors.New("manga not found")

// MangaRepository defines the interface for manga catalog data access.
// Stock counters are owned by InventoryRepository; Update deliberately does
// not touch units_available so catalog edits cannot race with reservations.
type MangaRepository interface {
	Create(ctx context.Context, manga *domain.Manga) error
	Update(ctx context.Context, manga *domain.Manga) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Manga, error)
	List(ctx context.Context) ([]*domain.Manga, error)
}

type mangaRepository struct {
	db *sql.DB
}

// NewMangaRepository creates a new instance of MangaRepository
func NewMangaRepository(db *sql.DB) MangaRepository {
	return &mangaRepository{db: db}
}

// Create inserts a new manga into the database using parameterized queries.
// Author, genre and publisher snapshots are stored as JSONB documents.
func (r *mangaRepository) Create(ctx context.Context, manga *domain.Manga) error {
	authorJSON, genreJSON, publisherJSON, err := marshalMangaSnapshots(manga)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO mangas (id, title, author, genre, publisher, units_available, capacity, daily_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		manga.ID,
		manga.Title,
		authorJSON,
		genreJSON,
		publisherJSON,
		manga.UnitsAvailable,
		manga.Capacity,
		manga.DailyRate,
		manga.CreatedAt,
		manga.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create manga: %w", err)
	}

	return nil
}

// Update updates the descriptive fields of an existing manga. Stock counters
// are left to the inventory repository's atomic operations.
func (r *mangaRepository) Update(ctx context.Context, manga *domain.Manga) error {
	authorJSON, genreJSON, publisherJSON, err := marshalMangaSnapshots(manga)
	if err != nil {
		return err
	}

	query := `
		UPDATE mangas
		SET title = $2, author = $3, genre = $4, publisher = $5, daily_rate = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		manga.ID,
		manga.Title,
		authorJSON,
		genreJSON,
		publisherJSON,
		manga.DailyRate,
		manga.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update manga: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMangaNotFound
	}

	return nil
}

// Delete removes a manga from the database using parameterized queries
func (r *mangaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM mangas WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete manga: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMangaNotFound
	}

	return nil
}

// FindByID retrieves a manga by ID using parameterized queries
func (r *mangaRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Manga, error) {
	query := `
		SELECT id, title, author, genre, publisher, units_available, capacity, daily_rate, created_at, updated_at
		FROM mangas
		WHERE id = $1
	`

	manga, err := scanManga(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMangaNotFound
		}
		return nil, fmt.Errorf("failed to find manga by ID: %w", err)
	}

	return manga, nil
}

// List retrieves all mangas sorted by title
func (r *mangaRepository) List(ctx context.Context) ([]*domain.Manga, error) {
	query := `
		SELECT id, title, author, genre, publisher, units_available, capacity, daily_rate, created_at, updated_at
		FROM mangas
		ORDER BY title ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mangas: %w", err)
	}
	defer rows.Close()

	mangas := []*domain.Manga{}
	for rows.Next() {
		manga, err := scanManga(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manga: %w", err)
		}
		mangas = append(mangas, manga)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mangas: %w", err)
	}

	return mangas, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManga(row rowScanner) (*domain.Manga, error) {
	manga := &domain.Manga{}
	var authorJSON, genreJSON, publisherJSON []byte

	err := row.Scan(
		&manga.ID,
		&manga.Title,
		&authorJSON,
		&genreJSON,
		&publisherJSON,
		&manga.UnitsAvailable,
		&manga.Capacity,
		&manga.DailyRate,
		&manga.CreatedAt,
		&manga.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(authorJSON, &manga.Author); err != nil {
		return nil, fmt.Errorf("failed to unmarshal author snapshot: %w", err)
	}
	if err := json.Unmarshal(genreJSON, &manga.Genre); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genre snapshot: %w", err)
	}
	if err := json.Unmarshal(publisherJSON, &manga.Publisher); err != nil {
		return nil, fmt.Errorf("failed to unmarshal publisher snapshot: %w", err)
	}

	return manga, nil
}

func marshalMangaSnapshots(manga *domain.Manga) (author, genre, publisher []byte, err error) {
	author, err = json.Marshal(manga.Author)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal author snapshot: %w", err)
	}
	genre, err = json.Marshal(manga.Genre)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal genre snapshot: %w", err)
	}
	publisher, err = json.Marshal(manga.Publisher)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal publisher snapshot: %w", err)
	}
	return author, genre, publisher, nil
}
