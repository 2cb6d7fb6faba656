package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"
	"github.com/GerwinBaula/renga-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrInvalidManga    = errors.New("invalid manga")
)

// RentalService orchestrates the rental lifecycle: reserving a unit and
// persisting the rental on creation, computing the fee and releasing the
// unit on return. Stock and return-state races are resolved by the atomic
// repository operations; this service only sequences them and compensates
// when a later step fails after an earlier one committed.
type RentalService interface {
	CreateRental(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error)
	ProcessReturn(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	ListRentals(ctx context.Context) ([]*domain.Rental, error)
}

type rentalService struct {
	customerRepo repository.CustomerRepository
	mangaRepo    repository.MangaRepository
	inventory    repository.InventoryRepository
	rentalRepo   repository.RentalRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewRentalService creates a new instance of RentalService
func NewRentalService(
	customerRepo repository.CustomerRepository,
	mangaRepo repository.MangaRepository,
	inventory repository.InventoryRepository,
	rentalRepo repository.RentalRepository,
	logger *zap.Logger,
) RentalService {
	return &rentalService{
		customerRepo: customerRepo,
		mangaRepo:    mangaRepo,
		inventory:    inventory,
		rentalRepo:   rentalRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateRental reserves a unit of the manga and opens a rental carrying
// snapshots of the customer and manga taken now. The reservation happens
// before the insert, so a failed reservation never leaves a rental record;
// if the insert fails after the reservation committed, the reservation is
// rolled back.
func (s *rentalService) CreateRental(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			return nil, ErrInvalidCustomer
		}
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	manga, err := s.mangaRepo.FindByID(ctx, mangaID)
	if err != nil {
		if err == repository.ErrMangaNotFound {
			return nil, ErrInvalidManga
		}
		return nil, fmt.Errorf("failed to resolve manga: %w", err)
	}

	if err := s.inventory.Reserve(ctx, mangaID); err != nil {
		switch err {
		case repository.ErrOutOfStock:
			return nil, repository.ErrOutOfStock
		case repository.ErrMangaNotFound:
			// Manga was deleted between the lookup and the reservation.
			return nil, ErrInvalidManga
		default:
			return nil, fmt.Errorf("failed to reserve manga unit: %w", err)
		}
	}

	rental := &domain.Rental{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		MangaID:    manga.ID,
		Customer:   customer.Snapshot(),
		Manga:      manga.Snapshot(),
		RentedAt:   s.now(),
	}

	if err := s.rentalRepo.Insert(ctx, rental); err != nil {
		s.rollbackReservation(ctx, mangaID, rental.ID)

		if err == repository.ErrRentalAlreadyOpen {
			return nil, repository.ErrRentalAlreadyOpen
		}
		return nil, fmt.Errorf("failed to persist rental: %w", err)
	}

	return rental, nil
}

// ProcessReturn closes the customer's open rental of the manga, computing the
// fee from the calendar days elapsed since the rental went out. When two
// returns race, the conditional close picks one winner; the loser surfaces
// ErrRentalAlreadyReturned and does not release a second unit.
func (s *rentalService) ProcessReturn(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error) {
	rental, err := s.rentalRepo.FindOpenByCustomerAndManga(ctx, customerID, mangaID)
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return nil, repository.ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find open rental: %w", err)
	}

	// The lookup only matches open rentals; checked again in case that
	// contract ever changes.
	if !rental.Open() {
		return nil, repository.ErrRentalAlreadyReturned
	}

	returnedAt := s.now()
	days := CalendarDaysBetween(rental.RentedAt, returnedAt)
	fee := RentalFee(days, rental.Manga.DailyRate)

	if err := s.rentalRepo.Close(ctx, rental.ID, returnedAt, fee); err != nil {
		if err == repository.ErrRentalAlreadyReturned || err == repository.ErrRentalNotFound {
			return nil, repository.ErrRentalAlreadyReturned
		}
		return nil, fmt.Errorf("failed to close rental: %w", err)
	}

	if err := s.inventory.Release(ctx, mangaID); err != nil {
		// The rental is closed but the unit was not returned to stock.
		// Needs manual reconciliation; never retried here.
		s.logger.Error("failed to release unit after return",
			zap.String("rental_id", rental.ID.String()),
			zap.String("manga_id", mangaID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to release manga unit: %w", err)
	}

	rental.ReturnedAt = &returnedAt
	rental.Fee = &fee

	return rental, nil
}

// GetRental retrieves a rental by ID
func (s *rentalService) GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	rental, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return nil, repository.ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	return rental, nil
}

// ListRentals retrieves all rentals, most recently rented first
func (s *rentalService) ListRentals(ctx context.Context) ([]*domain.Rental, error) {
	rentals, err := s.rentalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	return rentals, nil
}

// rollbackReservation releases a unit reserved by a creation attempt whose
// insert failed. A failure here strands the unit as unavailable, so it is
// logged loudly for manual reconciliation.
func (s *rentalService) rollbackReservation(ctx context.Context, mangaID, rentalID uuid.UUID) {
	if err := s.inventory.Release(ctx, mangaID); err != nil {
		s.logger.Error("failed to roll back reservation, unit stranded",
			zap.String("rental_id", rentalID.String()),
			zap.String("manga_id", mangaID.String()),
			zap.Error(err),
		)
	}
}
