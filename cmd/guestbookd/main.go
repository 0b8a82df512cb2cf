package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/neo/guestbook/internal/api"
	"github.com/neo/guestbook/internal/clock"
	"github.com/neo/guestbook/internal/db"
	"github.com/neo/guestbook/internal/ratelimit"
)

type config struct {
	ListenAddr string
	DBPath     string
	AdminToken string
	CORSOrigin string
	RateRPS    float64
	RateBurst  int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "guestbookd ", log.LstdFlags|log.LUTC)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Fatalf("failed to create data dir: %v", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatalf("failed to migrate database: %v", err)
	}

	if cfg.AdminToken == "" {
		logger.Println("GB_ADMIN_TOKEN not set, /admin endpoints are disabled")
	}

	server := api.NewServer(api.ServerConfig{
		Store:      store,
		Clock:      clock.System{},
		Limiter:    ratelimit.NewPerKey(cfg.RateRPS, cfg.RateBurst),
		AdminToken: cfg.AdminToken,
		CORSOrigin: cfg.CORSOrigin,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Printf("guestbook listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func loadConfig() config {
	_ = godotenv.Load()
	return config{
		ListenAddr: envDefault("GB_LISTEN_ADDR", "127.0.0.1:3000"),
		DBPath:     envDefault("GB_DB_PATH", filepath.Join("data", "guestbook.db")),
		AdminToken: envDefault("GB_ADMIN_TOKEN", ""),
		CORSOrigin: envDefault("GB_CORS_ORIGIN", "*"),
		RateRPS:    envFloat("GB_RATE_RPS", 1),
		RateBurst:  envInt("GB_RATE_BURST", 3),
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
