package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/GerwinBaula/renga-api/internal/config"
	custommiddleware "github.com/GerwinBaula/renga-api/internal/middleware"
	"github.com/GerwinBaula/renga-api/internal/repository"
	"github.com/GerwinBaula/renga-api/internal/service"
	"github.com/GerwinBaula/renga-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Rate limiting backed by redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	publisherRepo := repository.NewPublisherRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	mangaRepo := repository.NewMangaRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	mangaService := service.NewMangaService(mangaRepo, authorRepo, genreRepo, publisherRepo)
	rentalService := service.NewRentalService(customerRepo, mangaRepo, inventoryRepo, rentalRepo, logger)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	authorHandler := transport.NewAuthorHandler(authorRepo, logger)
	genreHandler := transport.NewGenreHandler(genreRepo, logger)
	publisherHandler := transport.NewPublisherHandler(publisherRepo, logger)
	customerHandler := transport.NewCustomerHandler(customerRepo, logger)
	mangaHandler := transport.NewMangaHandler(mangaService, logger)
	rentalHandler := transport.NewRentalHandler(rentalService, logger)

	// Create middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	authorHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	genreHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	publisherHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	customerHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	mangaHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	rentalHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
