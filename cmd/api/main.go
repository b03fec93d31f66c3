package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/catalog"
	"tapecrate-api/internal/handlers"
	"tapecrate-api/internal/httpserver"
	"tapecrate-api/internal/metrics"
	"tapecrate-api/internal/resolve"
	"tapecrate-api/internal/setlist"
	"tapecrate-api/pkg/logging/logging"
)

type Config struct {
	Port           string
	CacheBackend   string // "memory" or "redis"
	RedisAddr      string
	ArchiveBaseURL string
	SetlistBaseURL string

	ArtistCollection string
	ArtistAliases    []string
}

func LoadConfig() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		CacheBackend:     getenv("CACHE_BACKEND", "memory"),
		RedisAddr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
		ArchiveBaseURL:   getenv("ARCHIVE_BASE_URL", "https://archive.org"),
		SetlistBaseURL:   getenv("SETLIST_BASE_URL", "https://setlists.tapecrate.net"),
		ArtistCollection: os.Getenv("ARTIST_COLLECTION"),
		ArtistAliases:    splitList(os.Getenv("ARTIST_ALIASES")),
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("api exited with error: %v", err)
	}
}

func run() error {
	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg := LoadConfig()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("archive_base_url", cfg.ArchiveBaseURL),
		zap.String("setlist_base_url", cfg.SetlistBaseURL),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.CacheBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)
	}

	// ----- Cache -----
	store := cache.NewStore(cache.Config{
		Backend: cfg.CacheBackend,
		Prefix:  "tapecrate",
	}, redisClient)
	store = cache.NewLoggingStore(store)

	// ----- Artist profile -----
	profile := resolve.DefaultProfile()
	if cfg.ArtistCollection != "" {
		profile.CollectionSlug = cfg.ArtistCollection
	}
	if len(cfg.ArtistAliases) > 0 {
		profile.Aliases = cfg.ArtistAliases
	}
	engine := resolve.NewEngine(profile)

	// ----- Upstream clients -----
	archiveClient, err := archive.NewClient(archive.Config{
		BaseURL: cfg.ArchiveBaseURL,
	}, logger)
	if err != nil {
		return err
	}
	if closer, ok := archiveClient.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	setlistClient, err := setlist.NewClient(setlist.Config{
		BaseURL: cfg.SetlistBaseURL,
	}, logger)
	if err != nil {
		return err
	}

	// ----- Catalog service -----
	svc := catalog.NewService(archiveClient, setlistClient, engine, store, catalog.Options{}, logger)

	// ----- Tag cache warmer -----
	// Keeps the long-TTL special-event tag entries hot so the request path
	// never blocks on the setlist database.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1h", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		svc.WarmTagCache(ctx)
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// ----- Handlers -----
	showsHandler := handlers.NewShowsHandler(svc)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, showsHandler)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting api",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("artist_collection", profile.CollectionSlug),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
