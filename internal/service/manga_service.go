package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"
	"github.com/GerwinBaula/renga-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidAuthor    = errors.New("invalid author")
	ErrInvalidGenre     = errors.New("invalid genre")
	ErrInvalidPublisher = errors.New("invalid publisher")
)

// MangaInput carries the caller-supplied fields for creating or updating a
// manga. Author, genre and publisher are referenced by id and embedded as
// snapshots at save time.
type MangaInput struct {
	Title       string
	AuthorID    uuid.UUID
	GenreID     uuid.UUID
	PublisherID uuid.UUID
	Units       int
	DailyRate   float64
}

// MangaService composes the catalog: it resolves the referenced author,
// genre and publisher and embeds copies of them in the manga record.
type MangaService interface {
	CreateManga(ctx context.Context, input MangaInput) (*domain.Manga, error)
	UpdateManga(ctx context.Context, id uuid.UUID, input MangaInput) (*domain.Manga, error)
	DeleteManga(ctx context.Context, id uuid.UUID) error
	GetManga(ctx context.Context, id uuid.UUID) (*domain.Manga, error)
	ListMangas(ctx context.Context) ([]*domain.Manga, error)
}

type mangaService struct {
	mangaRepo     repository.MangaRepository
	authorRepo    repository.AuthorRepository
	genreRepo     repository.GenreRepository
	publisherRepo repository.PublisherRepository
}

// NewMangaService creates a new instance of MangaService
func NewMangaService(
	mangaRepo repository.MangaRepository,
	authorRepo repository.AuthorRepository,
	genreRepo repository.GenreRepository,
	publisherRepo repository.PublisherRepository,
) MangaService {
	return &mangaService{
		mangaRepo:     mangaRepo,
		authorRepo:    authorRepo,
		genreRepo:     genreRepo,
		publisherRepo: publisherRepo,
	}
}

// CreateManga creates a catalog entry. The provisioned unit count becomes
// both the capacity and the initially available stock.
func (s *mangaService) CreateManga(ctx context.Context, input MangaInput) (*domain.Manga, error) {
	author, genre, publisher, err := s.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	manga := &domain.Manga{
		ID:             uuid.New(),
		Title:          input.Title,
		Author:         author.Snapshot(),
		Genre:          genre.Snapshot(),
		Publisher:      publisher.Snapshot(),
		UnitsAvailable: input.Units,
		Capacity:       input.Units,
		DailyRate:      input.DailyRate,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.mangaRepo.Create(ctx, manga); err != nil {
		return nil, fmt.Errorf("failed to create manga: %w", err)
	}

	return manga, nil
}

// UpdateManga updates the descriptive fields of a manga and re-embeds fresh
// reference snapshots. Stock counters are not touched; they belong to the
// inventory repository.
func (s *mangaService) UpdateManga(ctx context.Context, id uuid.UUID, input MangaInput) (*domain.Manga, error) {
	manga, err := s.mangaRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrMangaNotFound {
			return nil, repository.ErrMangaNotFound
		}
		return nil, fmt.Errorf("failed to find manga: %w", err)
	}

	author, genre, publisher, err := s.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	manga.Title = input.Title
	manga.Author = author.Snapshot()
	manga.Genre = genre.Snapshot()
	manga.Publisher = publisher.Snapshot()
	manga.DailyRate = input.DailyRate
	manga.UpdatedAt = time.Now()

	if err := s.mangaRepo.Update(ctx, manga); err != nil {
		return nil, fmt.Errorf("failed to update manga: %w", err)
	}

	return manga, nil
}

// DeleteManga removes a manga from the catalog
func (s *mangaService) DeleteManga(ctx context.Context, id uuid.UUID) error {
	if err := s.mangaRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrMangaNotFound {
			return repository.ErrMangaNotFound
		}
		return fmt.Errorf("failed to delete manga: %w", err)
	}
	return nil
}

// GetManga retrieves a manga by ID
func (s *mangaService) GetManga(ctx context.Context, id uuid.UUID) (*domain.Manga, error) {
	manga, err := s.mangaRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrMangaNotFound {
			return nil, repository.ErrMangaNotFound
		}
		return nil, fmt.Errorf("failed to get manga: %w", err)
	}
	return manga, nil
}

// ListMangas retrieves all mangas sorted by title
func (s *mangaService) ListMangas(ctx context.Context) ([]*domain.Manga, error) {
	mangas, err := s.mangaRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mangas: %w", err)
	}
	return mangas, nil
}

func (s *mangaService) resolveReferences(ctx context.Context, input MangaInput) (*domain.Author, *domain.Genre, *domain.Publisher, error) {
	author, err := s.authorRepo.FindByID(ctx, input.AuthorID)
	if err != nil {
		if err == repository.ErrAuthorNotFound {
			return nil, nil, nil, ErrInvalidAuthor
		}
		return nil, nil, nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	genre, err := s.genreRepo.FindByID(ctx, input.GenreID)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			return nil, nil, nil, ErrInvalidGenre
		}
		return nil, nil, nil, fmt.Errorf("failed to resolve genre: %w", err)
	}

	publisher, err := s.publisherRepo.FindByID(ctx, input.PublisherID)
	if err != nil {
		if err == repository.ErrPublisherNotFound {
			return nil, nil, nil, ErrInvalidPublisher
		}
		return nil, nil, nil, fmt.Errorf("failed to resolve publisher: %w", err)
	}

	return author, genre, publisher, nil
}
