package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-board-backend/internal/cache"
	"media-board-backend/internal/config"
	"media-board-backend/internal/handlers"
	"media-board-backend/internal/middleware"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"
	"media-board-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to cache (optional side-channel)
	var cacheClient *cache.Client
	if cfg.Cache.Enabled {
		cacheClient, err = cache.New(context.Background(),
			cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to cache")
		}
		defer cacheClient.Close()
		log.Info().Str("addr", cfg.Cache.Addr).Msg("Cache connection established")
	}

	// Media storage backend
	mediaStore, err := newMediaStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up media storage")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenTTL())
	relationService := services.NewRelationService(db, postRepo, categoryRepo, cacheClient)
	categoryService := services.NewCategoryService(categoryRepo, relationService)
	postService := services.NewPostService(postRepo, mediaStore, cacheClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	postHandler := handlers.NewPostHandler(postService, relationService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	requireAuth := middleware.AuthMiddleware(authService)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.With(requireAuth).Get("/auth/me", authHandler.Me)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/search", categoryHandler.Search)
			r.Get("/{category_id}", categoryHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", categoryHandler.Create)
				r.Put("/{category_id}", categoryHandler.Update)
				r.Delete("/{category_id}", categoryHandler.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/with-category", postHandler.ListWithCategory)
			r.Get("/without-category", postHandler.ListWithoutCategory)
			r.Get("/media/{media_id}", postHandler.GetByMedia)
			r.Get("/category/{category_id}", postHandler.ListByCategory)
			r.Get("/category/{category_id}/with-category", postHandler.ListByCategoryWithCategory)
			r.Get("/stats/count", postHandler.Count)
			r.Get("/stats/count/category/{category_id}", postHandler.CountByCategory)
			r.Post("/search", postHandler.Search)
			r.Get("/{post_id}", postHandler.Get)
			r.Get("/{post_id}/with-category", postHandler.GetWithCategory)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", postHandler.Create)
				r.Post("/bulk", postHandler.BulkCreate)
				r.Post("/bulk/assign-category", postHandler.BulkAssignCategory)
				r.Put("/{post_id}", postHandler.Update)
				r.Delete("/{post_id}", postHandler.Delete)
				r.Patch("/{post_id}/assign-category", postHandler.AssignCategory)
				r.Patch("/{post_id}/remove-category", postHandler.RemoveCategory)
			})
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newMediaStore selects the media storage backend from config
func newMediaStore(cfg config.StorageConfig) (storage.MediaStore, error) {
	switch cfg.Backend {
	case "s3":
		return storage.NewS3Store(context.Background(),
			cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Endpoint)
	case "local":
		return storage.NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
