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

// AuthorRequest represents the create/update author payload
type AuthorRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email,max=50"`
}

// AuthorHandler handles HTTP requests for authors
type AuthorHandler struct {
	authorRepo repository.AuthorRepository
	logger     *zap.Logger
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(authorRepo repository.AuthorRepository, logger *zap.Logger) *AuthorHandler {
	return &AuthorHandler{
		authorRepo: authorRepo,
		logger:     logger,
	}
}

// RegisterRoutes registers all author routes
func (h *AuthorHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/authors", func(r chi.Router) {
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

// Create handles author creation
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AuthorRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	author := &domain.Author{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.authorRepo.Create(r.Context(), author); err != nil {
		if err == repository.ErrAuthorAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "author with this email already exists")
			return
		}
		h.logger.Error("Author creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create author")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, author)
}

// Update handles author updates
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid author id")
		return
	}

	var req AuthorRequest
	if !decodeAndRespond(w, r, &req, h.logger) {
		return
	}

	author := &domain.Author{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		UpdatedAt: time.Now(),
	}

	if err := h.authorRepo.Update(r.Context(), author); err != nil {
		switch err {
		case repository.ErrAuthorNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "author not found")
		case repository.ErrAuthorAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "author with this email already exists")
		default:
			h.logger.Error("Author update failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update author")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, author)
}

// Delete handles author deletion
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid author id")
		return
	}

	if err := h.authorRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrAuthorNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "author not found")
			return
		}
		h.logger.Error("Author deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete author")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "author deleted"})
}

// Get handles retrieving a single author by ID
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid author id")
		return
	}

	author, err := h.authorRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrAuthorNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "author not found")
			return
		}
		h.logger.Error("Failed to get author", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get author")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, author)
}

// List handles listing all authors
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authorRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list authors", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list authors")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, authors)
}

// decodeAndRespond decodes and validates a request body, writing the error
// response itself when validation fails.
func decodeAndRespond(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}
