package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"inventory-api/internal/config"
	custommiddleware "inventory-api/internal/middleware"
	"inventory-api/internal/repository"
	"inventory-api/internal/service"
	"inventory-api/internal/storage"
	"inventory-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
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

// NewServer wires repositories, services, handlers and middleware into
// the router. CORS and rate limiting come from explicit configuration;
// redisClient may be nil, which disables rate limiting and token
// revocation.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, store storage.PhotoStorage) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env != "production"))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	optionRepo := repository.NewOptionRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, redisClient, cfg.JWT.Secret,
		time.Duration(cfg.JWT.Expiry)*time.Minute)
	itemService := service.NewItemService(itemRepo, photoRepo, store, logger)
	uploadService := service.NewUploadService(itemRepo, photoRepo, store,
		cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles, logger)
	optionService := service.NewOptionService(optionRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	itemHandler := transport.NewItemHandler(itemService, logger)
	uploadHandler := transport.NewUploadHandler(uploadService, cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles, logger)
	optionHandler := transport.NewOptionHandler(optionService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware)
	itemHandler.RegisterRoutes(router, authMiddleware)
	uploadHandler.RegisterRoutes(router, authMiddleware)
	optionHandler.RegisterRoutes(router)

	// The local driver's files are served straight from disk; photos in
	// S3 carry absolute URLs instead.
	if local, ok := store.(*storage.LocalStorage); ok {
		router.Get("/uploads/*", uploadsFileServer(local.Dir()))
	}

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

// uploadsFileServer serves stored photos. Images are embedded in pages
// on other origins, so the response is marked readable from anywhere.
func uploadsFileServer(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		fs.ServeHTTP(w, r)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
