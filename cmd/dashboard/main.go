package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"content-dashboard/internal/audit"
	"content-dashboard/internal/config"
	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/http"
	"content-dashboard/internal/infra/cache"
	"content-dashboard/internal/orchard"
	"content-dashboard/internal/repository/postgres"
	"content-dashboard/internal/storage/s3"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	sessions, err := cache.NewSessionStore(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to session store: %v", err)
	}
	defer sessions.Close()

	log.Println("Session store connected")

	mediaStorage, err := s3.NewClient(&cfg.AWS, cfg.App.MediaBucket)
	if err != nil {
		log.Fatalf("Failed to create media storage client: %v", err)
	}

	log.Println("Media storage client initialized")

	tokenClient := orchard.NewTokenClient(cfg.OAuth, nil, logger)
	contentStore := orchard.NewClient(cfg.Orchard, tokenClient, nil, logger)
	mediaClient := orchard.NewMediaClient(cfg.Orchard.MediaAPIURL, tokenClient, nil, logger)

	prefsRepo := postgres.NewPreferenceRepository(db)
	activity := audit.NewRecorder(db.Pool, logger)

	queries := dashboard.NewQueryService(contentStore, cfg.App.QueryPageSize, logger)
	breadcrumbs := dashboard.NewPathResolver(contentStore, logger)
	attacher := dashboard.NewAttachService(contentStore, mediaClient, logger)

	serverDeps := &http.ServerDependencies{
		Config:          cfg,
		Authenticator:   tokenClient,
		Queries:         queries,
		Breadcrumbs:     breadcrumbs,
		Attacher:        attacher,
		MediaStorage:    mediaStorage,
		StateStore:      sessions,
		PreferenceStore: prefsRepo,
		Activity:        activity,
		Logger:          logger,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
