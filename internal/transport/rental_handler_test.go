package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"
	"github.com/GerwinBaula/renga-api/internal/repository"
	"github.com/GerwinBaula/renga-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRentalService returns canned results per method, recording the last
// arguments it was called with.
type mockRentalService struct {
	createRental *domain.Rental
	createErr    error
	returnRental *domain.Rental
	returnErr    error
	getRental    *domain.Rental
	getErr       error
	listRentals  []*domain.Rental
	listErr      error

	lastCustomerID uuid.UUID
	lastMangaID    uuid.UUID
}

func (m *mockRentalService) CreateRental(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error) {
	m.lastCustomerID = customerID
	m.lastMangaID = mangaID
	return m.createRental, m.createErr
}

func (m *mockRentalService) ProcessReturn(ctx context.Context, customerID, mangaID uuid.UUID) (*domain.Rental, error) {
	m.lastCustomerID = customerID
	m.lastMangaID = mangaID
	return m.returnRental, m.returnErr
}

func (m *mockRentalService) GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	return m.getRental, m.getErr
}

func (m *mockRentalService) ListRentals(ctx context.Context) ([]*domain.Rental, error) {
	return m.listRentals, m.listErr
}

func passthroughAuth(next http.Handler) http.Handler {
	return next
}

func newRentalTestServer(svc service.RentalService) *chi.Mux {
	router := chi.NewRouter()
	handler := NewRentalHandler(svc, zap.NewNop())
	handler.RegisterRoutes(router, passthroughAuth)
	return router
}

func sampleRental(open bool) *domain.Rental {
	rental := &domain.Rental{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		MangaID:    uuid.New(),
		Customer:   domain.CustomerSnapshot{ID: uuid.New(), FirstName: "Aiko", LastName: "Tanaka"},
		Manga: domain.MangaSnapshot{
			ID:        uuid.New(),
			Title:     "One Piece Vol. 1",
			DailyRate: 2,
		},
		RentedAt: time.Now().UTC().Add(-72 * time.Hour),
	}
	if !open {
		returnedAt := time.Now().UTC()
		fee := 6.0
		rental.ReturnedAt = &returnedAt
		rental.Fee = &fee
	}
	return rental
}

func postJSON(t *testing.T, router *chi.Mux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRentalHandler_Create(t *testing.T) {
	t.Run("returns 201 with the created rental", func(t *testing.T) {
		rental := sampleRental(true)
		svc := &mockRentalService{createRental: rental}
		router := newRentalTestServer(svc)

		rec := postJSON(t, router, "/api/rentals", RentalRequest{
			CustomerID: rental.CustomerID.String(),
			MangaID:    rental.MangaID.String(),
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, rental.CustomerID, svc.lastCustomerID)
		assert.Equal(t, rental.MangaID, svc.lastMangaID)

		var got domain.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, rental.ID, got.ID)
		assert.Nil(t, got.Fee)
	})

	t.Run("rejects malformed ids before touching the service", func(t *testing.T) {
		svc := &mockRentalService{}
		router := newRentalTestServer(svc)

		rec := postJSON(t, router, "/api/rentals", RentalRequest{
			CustomerID: "not-a-uuid",
			MangaID:    uuid.NewString(),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, uuid.Nil, svc.lastCustomerID)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		router := newRentalTestServer(&mockRentalService{})

		rec := postJSON(t, router, "/api/rentals", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"invalid customer", service.ErrInvalidCustomer, http.StatusBadRequest},
			{"invalid manga", service.ErrInvalidManga, http.StatusBadRequest},
			{"out of stock", repository.ErrOutOfStock, http.StatusBadRequest},
			{"already open", repository.ErrRentalAlreadyOpen, http.StatusConflict},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newRentalTestServer(&mockRentalService{createErr: tt.err})

				rec := postJSON(t, router, "/api/rentals", RentalRequest{
					CustomerID: uuid.NewString(),
					MangaID:    uuid.NewString(),
				})
				assert.Equal(t, tt.want, rec.Code)
			})
		}
	})
}

func TestRentalHandler_Return(t *testing.T) {
	t.Run("returns 200 with the closed rental", func(t *testing.T) {
		rental := sampleRental(false)
		svc := &mockRentalService{returnRental: rental}
		router := newRentalTestServer(svc)

		rec := postJSON(t, router, "/api/returns", RentalRequest{
			CustomerID: rental.CustomerID.String(),
			MangaID:    rental.MangaID.String(),
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var got domain.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.Fee)
		assert.Equal(t, 6.0, *got.Fee)
		assert.NotNil(t, got.ReturnedAt)
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"no open rental", repository.ErrRentalNotFound, http.StatusNotFound},
			{"already returned", repository.ErrRentalAlreadyReturned, http.StatusBadRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newRentalTestServer(&mockRentalService{returnErr: tt.err})

				rec := postJSON(t, router, "/api/returns", RentalRequest{
					CustomerID: uuid.NewString(),
					MangaID:    uuid.NewString(),
				})
				assert.Equal(t, tt.want, rec.Code)
			})
		}
	})
}

func TestRentalHandler_Get(t *testing.T) {
	t.Run("returns the rental", func(t *testing.T) {
		rental := sampleRental(true)
		router := newRentalTestServer(&mockRentalService{getRental: rental})

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/"+rental.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("404 for unknown rental", func(t *testing.T) {
		router := newRentalTestServer(&mockRentalService{getErr: repository.ErrRentalNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("400 for malformed id", func(t *testing.T) {
		router := newRentalTestServer(&mockRentalService{})

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/banana", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRentalHandler_List(t *testing.T) {
	rentals := []*domain.Rental{sampleRental(false), sampleRental(true)}
	router := newRentalTestServer(&mockRentalService{listRentals: rentals})

	req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []*domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
