package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestManga(t *testing.T, units, capacity int, dailyRate float64) *domain.Manga {
	t.Helper()

	manga := &domain.Manga{
		ID:             uuid.New(),
		Title:          "Berserk Vol. 1",
		Author:         domain.AuthorSnapshot{ID: uuid.New(), FirstName: "Kentaro", LastName: "Miura"},
		Genre:          domain.GenreSnapshot{ID: uuid.New(), Name: "Dark Fantasy"},
		Publisher:      domain.PublisherSnapshot{ID: uuid.New(), Name: "Hakusensha"},
		UnitsAvailable: units,
		Capacity:       capacity,
		DailyRate:      dailyRate,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	require.NoError(t, NewMangaRepository(testDB).Create(context.Background(), manga))
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM rentals WHERE manga_id = $1", manga.ID)
		_, _ = testDB.Exec("DELETE FROM mangas WHERE id = $1", manga.ID)
	})

	return manga
}

func insertTestRental(t *testing.T, customerID uuid.UUID, manga *domain.Manga) *domain.Rental {
	t.Helper()

	rental := &domain.Rental{
		ID:         uuid.New(),
		CustomerID: customerID,
		MangaID:    manga.ID,
		Customer: domain.CustomerSnapshot{
			ID:        customerID,
			FirstName: "Hana",
			LastName:  "Mori",
			Phone:     "555-0101",
		},
		Manga:    manga.Snapshot(),
		RentedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, NewRentalRepository(testDB).Insert(context.Background(), rental))
	return rental
}

func mangaUnits(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var units int
	require.NoError(t, testDB.QueryRow("SELECT units_available FROM mangas WHERE id = $1", id).Scan(&units))
	return units
}

func TestInventoryRepository_Reserve(t *testing.T) {
	repo := NewInventoryRepository(testDB)
	ctx := context.Background()

	t.Run("decrements available units", func(t *testing.T) {
		manga := insertTestManga(t, 2, 2, 3)

		require.NoError(t, repo.Reserve(ctx, manga.ID))
		assert.Equal(t, 1, mangaUnits(t, manga.ID))
	})

	t.Run("fails when no units are available", func(t *testing.T) {
		manga := insertTestManga(t, 0, 2, 3)

		err := repo.Reserve(ctx, manga.ID)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.Equal(t, 0, mangaUnits(t, manga.ID))
	})

	t.Run("unknown manga", func(t *testing.T) {
		err := repo.Reserve(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrMangaNotFound)
	})

	t.Run("concurrent reservations never go negative", func(t *testing.T) {
		const units = 3
		const attempts = 12

		manga := insertTestManga(t, units, units, 3)

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = repo.Reserve(ctx, manga.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrOutOfStock)
			}
		}

		assert.Equal(t, units, succeeded)
		assert.Equal(t, 0, mangaUnits(t, manga.ID))
	})
}

func TestInventoryRepository_Release(t *testing.T) {
	repo := NewInventoryRepository(testDB)
	ctx := context.Background()

	t.Run("increments available units", func(t *testing.T) {
		manga := insertTestManga(t, 1, 2, 3)

		require.NoError(t, repo.Release(ctx, manga.ID))
		assert.Equal(t, 2, mangaUnits(t, manga.ID))
	})

	t.Run("refuses to exceed capacity", func(t *testing.T) {
		manga := insertTestManga(t, 2, 2, 3)

		err := repo.Release(ctx, manga.ID)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 2, mangaUnits(t, manga.ID))
	})

	t.Run("unknown manga", func(t *testing.T) {
		err := repo.Release(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrMangaNotFound)
	})
}

func TestRentalRepository_Insert(t *testing.T) {
	repo := NewRentalRepository(testDB)
	ctx := context.Background()

	t.Run("round trips the rental with its snapshots", func(t *testing.T) {
		manga := insertTestManga(t, 1, 1, 2.5)
		rental := insertTestRental(t, uuid.New(), manga)

		found, err := repo.FindByID(ctx, rental.ID)
		require.NoError(t, err)

		assert.Equal(t, rental.ID, found.ID)
		assert.Equal(t, rental.CustomerID, found.CustomerID)
		assert.Equal(t, rental.MangaID, found.MangaID)
		assert.Equal(t, rental.Customer, found.Customer)
		assert.Equal(t, rental.Manga, found.Manga)
		assert.True(t, found.Open())
		assert.Nil(t, found.Fee)
	})

	t.Run("rejects a second open rental for the same customer and manga", func(t *testing.T) {
		manga := insertTestManga(t, 2, 2, 2.5)
		customerID := uuid.New()
		first := insertTestRental(t, customerID, manga)

		duplicate := &domain.Rental{
			ID:         uuid.New(),
			CustomerID: customerID,
			MangaID:    manga.ID,
			Customer:   first.Customer,
			Manga:      manga.Snapshot(),
			RentedAt:   time.Now().UTC(),
		}
		err := repo.Insert(ctx, duplicate)
		assert.ErrorIs(t, err, ErrRentalAlreadyOpen)
	})

	t.Run("allows a new rental after the previous one was returned", func(t *testing.T) {
		manga := insertTestManga(t, 2, 2, 2.5)
		customerID := uuid.New()
		first := insertTestRental(t, customerID, manga)

		require.NoError(t, repo.Close(ctx, first.ID, time.Now().UTC(), 5))

		second := &domain.Rental{
			ID:         uuid.New(),
			CustomerID: customerID,
			MangaID:    manga.ID,
			Customer:   first.Customer,
			Manga:      manga.Snapshot(),
			RentedAt:   time.Now().UTC(),
		}
		assert.NoError(t, repo.Insert(ctx, second))
	})
}

func TestRentalRepository_FindOpenByCustomerAndManga(t *testing.T) {
	repo := NewRentalRepository(testDB)
	ctx := context.Background()

	t.Run("finds the open rental", func(t *testing.T) {
		manga := insertTestManga(t, 1, 1, 2)
		rental := insertTestRental(t, uuid.New(), manga)

		found, err := repo.FindOpenByCustomerAndManga(ctx, rental.CustomerID, rental.MangaID)
		require.NoError(t, err)
		assert.Equal(t, rental.ID, found.ID)
	})

	t.Run("skips closed historical rentals of the same pair", func(t *testing.T) {
		manga := insertTestManga(t, 2, 2, 2)
		customerID := uuid.New()

		closed := insertTestRental(t, customerID, manga)
		require.NoError(t, repo.Close(ctx, closed.ID, time.Now().UTC(), 4))

		open := insertTestRental(t, customerID, manga)

		found, err := repo.FindOpenByCustomerAndManga(ctx, customerID, manga.ID)
		require.NoError(t, err)
		assert.Equal(t, open.ID, found.ID)
	})

	t.Run("not found when every rental is closed", func(t *testing.T) {
		manga := insertTestManga(t, 1, 1, 2)
		rental := insertTestRental(t, uuid.New(), manga)

		require.NoError(t, repo.Close(ctx, rental.ID, time.Now().UTC(), 2))

		_, err := repo.FindOpenByCustomerAndManga(ctx, rental.CustomerID, rental.MangaID)
		assert.ErrorIs(t, err, ErrRentalNotFound)
	})
}

func TestRentalRepository_Close(t *testing.T) {
	repo := NewRentalRepository(testDB)
	ctx := context.Background()

	t.Run("sets returned_at and fee", func(t *testing.T) {
		manga := insertTestManga(t, 1, 1, 3)
		rental := insertTestRental(t, uuid.New(), manga)

		returnedAt := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.Close(ctx, rental.ID, returnedAt, 9))

		found, err := repo.FindByID(ctx, rental.ID)
		require.NoError(t, err)
		assert.False(t, found.Open())
		require.NotNil(t, found.Fee)
		assert.Equal(t, 9.0, *found.Fee)
		require.NotNil(t, found.ReturnedAt)
		assert.WithinDuration(t, returnedAt, *found.ReturnedAt, time.Second)
	})

	t.Run("closing twice fails", func(t *testing.T) {
		manga := insertTestManga(t, 1, 1, 3)
		rental := insertTestRental(t, uuid.New(), manga)

		require.NoError(t, repo.Close(ctx, rental.ID, time.Now().UTC(), 3))

		err := repo.Close(ctx, rental.ID, time.Now().UTC(), 3)
		assert.ErrorIs(t, err, ErrRentalAlreadyReturned)
	})

	t.Run("unknown rental", func(t *testing.T) {
		err := repo.Close(ctx, uuid.New(), time.Now().UTC(), 3)
		assert.ErrorIs(t, err, ErrRentalNotFound)
	})

	t.Run("concurrent closes have exactly one winner", func(t *testing.T) {
		const attempts = 8

		manga := insertTestManga(t, 1, 1, 3)
		rental := insertTestRental(t, uuid.New(), manga)

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = repo.Close(ctx, rental.ID, time.Now().UTC(), 3)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrRentalAlreadyReturned)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestRentalRepository_List(t *testing.T) {
	repo := NewRentalRepository(testDB)
	ctx := context.Background()

	manga := insertTestManga(t, 3, 3, 2)

	older := insertTestRental(t, uuid.New(), manga)
	_, err := testDB.Exec("UPDATE rentals SET rented_at = $2 WHERE id = $1",
		older.ID, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)

	newer := insertTestRental(t, uuid.New(), manga)

	rentals, err := repo.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rentals), 2)

	// Most recently rented first
	olderIdx, newerIdx := -1, -1
	for i, r := range rentals {
		switch r.ID {
		case older.ID:
			olderIdx = i
		case newer.ID:
			newerIdx = i
		}
	}
	require.NotEqual(t, -1, olderIdx)
	require.NotEqual(t, -1, newerIdx)
	assert.Less(t, newerIdx, olderIdx)
}
