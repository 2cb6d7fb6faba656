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

// PublisherRequest represents the create/update publisher payload
type PublisherRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Website string `json:"website" validate:"omitempty,min=7,max=50"`
}

// PublisherHandler handles HTTP requests for publishers
type PublisherHandler struct {
	publisherRepo repository.PublisherRepository
	logger        *zap.Logger
}

// NewPublisherHandler creates a new PublisherHandler
func NewPublisherHandler(publisherRepo repository.PublisherRepository, logger *zap.Logger) *PublisherHandler {
	return &PublisherHandler{
		publisherRepo: publisherRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers all publisher routes
func (h *PublisherHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/publishers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)

			r.Group(func(r chi.Router) {
				r.Use(adminMiddleware)
				r.Delete("/{id}", h.Delete)
			})
		})
	})
}

// Create handles publisher creation
func (h *PublisherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PublisherRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	publisher := &domain.Publisher{
		ID:        uuid.New(),
		Name:      req.Name,
		Website:   req.Website,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.publisherRepo.Create(r.Context(), publisher); err != nil {
		h.logger.Error("Publisher creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create publisher")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, publisher)
}

// Update handles publisher updates
func (h *PublisherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid publisher id")
		return
	}

	var req PublisherRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	publisher := &domain.Publisher{
		ID:        id,
		Name:      req.Name,
		Website:   req.Website,
		UpdatedAt: time.Now(),
	}

	if err := h.publisherRepo.Update(r.Context(), publisher); err != nil {
		if err == repository.ErrPublisherNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "publisher not found")
			return
		}
		h.logger.Error("Publisher update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update publisher")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, publisher)
}

// Delete handles publisher deletion
func (h *PublisherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid publisher id")
		return
	}

	if err := h.publisherRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrPublisherNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "publisher not found")
			return
		}
		h.logger.Error("Publisher deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete publisher")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "publisher deleted"})
}

// Get handles retrieving a single publisher by ID
func (h *PublisherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid publisher id")
		return
	}

	publisher, err := h.publisherRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrPublisherNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "publisher not found")
			return
		}
		h.logger.Error("Failed to get publisher", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get publisher")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, publisher)
}

// List handles listing all publishers
func (h *PublisherHandler) List(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.publisherRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list publishers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list publishers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, publishers)
}
