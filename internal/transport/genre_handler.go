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

// GenreRequest represents the create/update genre payload
type GenreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// GenreHandler handles HTTP requests for genres
type GenreHandler struct {
	genreRepo repository.GenreRepository
	logger    *zap.Logger
}

// NewGenreHandler creates a new GenreHandler
func NewGenreHandler(genreRepo repository.GenreRepository, logger *zap.Logger) *GenreHandler {
	return &GenreHandler{
		genreRepo: genreRepo,
		logger:    logger,
	}
}

// RegisterRoutes registers all genre routes
func (h *GenreHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/genres", func(r chi.Router) {
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

// Create handles genre creation
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	genre := &domain.Genre{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.genreRepo.Create(r.Context(), genre); err != nil {
		if err == repository.ErrGenreAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "genre with this name already exists")
			return
		}
		h.logger.Error("Genre creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create genre")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, genre)
}

// Update handles genre updates
func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	var req GenreRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	genre := &domain.Genre{
		ID:        id,
		Name:      req.Name,
		UpdatedAt: time.Now(),
	}

	if err := h.genreRepo.Update(r.Context(), genre); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "genre not found")
		case repository.ErrGenreAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "genre with this name already exists")
		default:
			h.logger.Error("Genre update failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update genre")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, genre)
}

// Delete handles genre deletion
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	if err := h.genreRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrGenreNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "genre not found")
			return
		}
		h.logger.Error("Genre deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete genre")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "genre deleted"})
}

// Get handles retrieving a single genre by ID
func (h *GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	genre, err := h.genreRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "genre not found")
			return
		}
		h.logger.Error("Failed to get genre", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get genre")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, genre)
}

// List handles listing all genres
func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list genres", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list genres")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, genres)
}
