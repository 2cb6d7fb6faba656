package transport

import (
	"net/http"
	"time"

	"github.com/GerwinBaula/renga-api/internal/domain"
	"github.com/GerwinBaula/renga-api/internal/middleware"
	"github.com/GerwinBaula/renga-api/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerRequest represents the create/update customer payload
type CustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	IsGold    bool   `json:"is_gold"`
	Phone     string `json:"phone" validate:"required,min=2,max=50"`
}

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerRepo repository.CustomerRepository, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/customers", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)

			r.Group(func(r chi.Router) {
				r.Use(adminMiddleware)
				r.Delete("/{id}", h.Delete)
			})
		})
	})
}

// Create handles customer creation
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	customer := &domain.Customer{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsGold:    req.IsGold,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.customerRepo.Create(r.Context(), customer); err != nil {
		h.logger.Error("Customer creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, customer)
}

// Update handles customer updates
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req CustomerRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	customer := &domain.Customer{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsGold:    req.IsGold,
		Phone:     req.Phone,
		UpdatedAt: time.Now(),
	}

	if err := h.customerRepo.Update(r.Context(), customer); err != nil {
		if err == repository.ErrCustomerNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("Customer update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

// Delete handles customer deletion
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.customerRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrCustomerNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("Customer deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}

// Get handles retrieving a single customer by ID
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.customerRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("Failed to get customer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

// List handles listing all customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customers)
}
