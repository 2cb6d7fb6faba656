package transport

import (
	"net/http"

	"github.com/GerwinBaula/renga-api/internal/middleware"
	"github.com/GerwinBaula/renga-api/internal/repository"
	"github.com/GerwinBaula/renga-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RentalRequest identifies the customer and manga for a rental or a return
type RentalRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	MangaID    string `json:"manga_id" validate:"required,uuid"`
}

// RentalHandler handles HTTP requests for rentals and returns
type RentalHandler struct {
	rentalService service.RentalService
	logger        *zap.Logger
}

// NewRentalHandler creates a new RentalHandler
func NewRentalHandler(rentalService service.RentalService, logger *zap.Logger) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		logger:        logger,
	}
}

// RegisterRoutes registers rental and return routes
func (h *RentalHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/rentals", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
		})
	})

	r.Route("/api/returns", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Return)
	})
}

// Create handles rental creation
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	mangaID, _ := uuid.Parse(req.MangaID)

	rental, err := h.rentalService.CreateRental(r.Context(), customerID, mangaID)
	if err != nil {
		switch err {
		case service.ErrInvalidCustomer:
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid customer id")
		case service.ErrInvalidManga:
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid manga id")
		case repository.ErrOutOfStock:
			middleware.RespondWithError(w, http.StatusBadRequest, "manga is out of stock")
		case repository.ErrRentalAlreadyOpen:
			middleware.RespondWithError(w, http.StatusConflict, "customer already has an open rental of this manga")
		default:
			h.logger.Error("Rental creation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create rental")
		}
		return
	}

	h.logger.Info("Rental created",
		zap.String("rental_id", rental.ID.String()),
		zap.String("customer_id", req.CustomerID),
		zap.String("manga_id", req.MangaID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, rental)
}

// Return handles rental returns
func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	mangaID, _ := uuid.Parse(req.MangaID)

	rental, err := h.rentalService.ProcessReturn(r.Context(), customerID, mangaID)
	if err != nil {
		switch err {
		case repository.ErrRentalNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "rental not found")
		case repository.ErrRentalAlreadyReturned:
			middleware.RespondWithError(w, http.StatusBadRequest, "rental has already been returned")
		default:
			h.logger.Error("Return processing failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to process return")
		}
		return
	}

	h.logger.Info("Rental returned",
		zap.String("rental_id", rental.ID.String()),
		zap.Float64("fee", *rental.Fee),
	)
	middleware.RespondWithJSON(w, http.StatusOK, rental)
}

// Get handles retrieving a single rental by ID
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	rental, err := h.rentalService.GetRental(r.Context(), id)
	if err != nil {
		if err == repository.ErrRentalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "rental not found")
			return
		}
		h.logger.Error("Failed to get rental", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get rental")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rental)
}

// List handles listing all rentals
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalService.ListRentals(r.Context())
	if err != nil {
		h.logger.Error("Failed to list rentals", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list rentals")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (RentalRequest, bool) {
	var req RentalRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Rental request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	return req, true
}
