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

// MangaRequest represents the create/update manga payload. Units and the
// daily rate carry the catalog's 0..255 bounds.
type MangaRequest struct {
	Title       string  `json:"title" validate:"required,min=2,max=50"`
	AuthorID    string  `json:"author_id" validate:"required,uuid"`
	GenreID     string  `json:"genre_id" validate:"required,uuid"`
	PublisherID string  `json:"publisher_id" validate:"required,uuid"`
	Units       int     `json:"units" validate:"gte=0,lte=255"`
	DailyRate   float64 `json:"daily_rate" validate:"gte=0,lte=255"`
}

// MangaHandler handles HTTP requests for the manga catalog
type MangaHandler struct {
	mangaService service.MangaService
	logger       *zap.Logger
}

// NewMangaHandler creates a new MangaHandler
func NewMangaHandler(mangaService service.MangaService, logger *zap.Logger) *MangaHandler {
	return &MangaHandler{
		mangaService: mangaService,
		logger:       logger,
	}
}

// RegisterRoutes registers all manga routes
func (h *MangaHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/mangas", func(r chi.Router) {
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

// Create handles manga creation
func (h *MangaHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	manga, err := h.mangaService.CreateManga(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err, "failed to create manga")
		return
	}

	h.logger.Info("Manga created", zap.String("manga_id", manga.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, manga)
}

// Update handles manga updates
func (h *MangaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid manga id")
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	manga, err := h.mangaService.UpdateManga(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, err, "failed to update manga")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, manga)
}

// Delete handles manga deletion
func (h *MangaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid manga id")
		return
	}

	if err := h.mangaService.DeleteManga(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "failed to delete manga")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "manga deleted"})
}

// Get handles retrieving a single manga by ID
func (h *MangaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid manga id")
		return
	}

	manga, err := h.mangaService.GetManga(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get manga")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, manga)
}

// List handles listing all mangas
func (h *MangaHandler) List(w http.ResponseWriter, r *http.Request) {
	mangas, err := h.mangaService.ListMangas(r.Context())
	if err != nil {
		h.logger.Error("Failed to list mangas", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list mangas")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, mangas)
}

func (h *MangaHandler) decodeInput(w http.ResponseWriter, r *http.Request) (service.MangaInput, bool) {
	var req MangaRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Manga request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.MangaInput{}, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.MangaInput{}, false
	}

	authorID, _ := uuid.Parse(req.AuthorID)
	genreID, _ := uuid.Parse(req.GenreID)
	publisherID, _ := uuid.Parse(req.PublisherID)

	return service.MangaInput{
		Title:       req.Title,
		AuthorID:    authorID,
		GenreID:     genreID,
		PublisherID: publisherID,
		Units:       req.Units,
		DailyRate:   req.DailyRate,
	}, true
}

func (h *MangaHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case service.ErrInvalidAuthor:
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid author id")
	case service.ErrInvalidGenre:
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid genre id")
	case service.ErrInvalidPublisher:
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid publisher id")
	case repository.ErrMangaNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "manga not found")
	default:
		h.logger.Error("Manga operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
