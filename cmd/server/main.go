package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lectern/internal/auth"
	"lectern/internal/config"
	"lectern/internal/handler"
	"lectern/internal/layout"
	"lectern/internal/middleware"
	serviceLesson "lectern/internal/service/lesson"
	"lectern/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Token verification is optional in development
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
	} else {
		logger.Warn("JWKS_URL not set - identity taken from X-User-ID header (NEVER use in production!)")
	}

	repos, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.Close()

	catalog, err := layout.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load layout catalog: %v", err)
	}
	logger.Info("layout catalog loaded", "layouts", len(catalog.Layouts()))

	svc := serviceLesson.SetupServices(repos, catalog, serviceLesson.VersionPolicy{
		RequireLayoutType: cfg.RequireLayoutType,
	}, logger)

	layoutHandler := handler.NewLayoutHandler(catalog, logger)
	lessonHandler := handler.NewLessonHandler(svc.Lesson, logger)
	versionHandler := handler.NewVersionHandler(svc.Version, logger)
	contentHandler := handler.NewContentHandler(svc.Content, logger)
	progressHandler := handler.NewProgressHandler(svc.Progress, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Layout catalog
	mux.HandleFunc("GET /api/layouts", layoutHandler.ListLayouts)
	mux.HandleFunc("GET /api/layouts/{type}", layoutHandler.GetLayout)

	// Lessons
	mux.HandleFunc("POST /api/sections/{id}/lessons", lessonHandler.CreateLesson)
	mux.HandleFunc("GET /api/sections/{id}/lessons", lessonHandler.ListSectionLessons)
	mux.HandleFunc("GET /api/lessons/{id}", lessonHandler.GetLesson)
	mux.HandleFunc("PATCH /api/lessons/{id}", lessonHandler.UpdateLesson)
	mux.HandleFunc("DELETE /api/lessons/{id}", lessonHandler.DeleteLesson)

	// Versions
	mux.HandleFunc("GET /api/lessons/{id}/versions", versionHandler.ListVersions)
	mux.HandleFunc("POST /api/lessons/{id}/versions", versionHandler.CreateVersion)
	mux.HandleFunc("PATCH /api/versions/{id}", versionHandler.UpdateVersion)
	mux.HandleFunc("POST /api/versions/{id}/publish", versionHandler.PublishVersion)

	// Blocks and assets
	mux.HandleFunc("POST /api/versions/{id}/blocks", contentHandler.AddBlock)
	mux.HandleFunc("PATCH /api/blocks/{id}", contentHandler.UpdateBlock)
	mux.HandleFunc("DELETE /api/blocks/{id}", contentHandler.DeleteBlock)
	mux.HandleFunc("PUT /api/versions/{id}/slots/{slot}/order", contentHandler.ReorderBlocks)
	mux.HandleFunc("POST /api/versions/{id}/assets", contentHandler.AttachAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", contentHandler.DetachAsset)

	// Assembled content and progress
	mux.HandleFunc("GET /api/lessons/{id}/content", contentHandler.GetContent)
	mux.HandleFunc("PUT /api/lessons/{id}/progress", progressHandler.RecordProgress)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RateLimit → Auth → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.Auth(verifier, cfg.DevUserID, logger)(h)
	h = middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DevUserHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
