package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/statscache"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("FlashDeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load timezone %q: %v", cfg.Timezone, err)
		os.Exit(1)
	}

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("stats_cache_ttl=%s", cfg.StatsCacheTTL)
	log.Debug("timezone=%s", loc)
	log.Debug("redis_addr=%s", cfg.RedisAddr)

	ctx := context.Background()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	if cfg.SeedDemo {
		if err := database.SeedDemo(ctx); err != nil {
			log.Error("failed to seed demo data: %v", err)
			os.Exit(1)
		}
	}

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Services
	statsService := services.NewStatsService(statsRepo, sessionRepo, loc, time.Now)

	cacheOpts := []statscache.Option{statscache.WithWindow(cfg.StatsCacheTTL)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable at %s, keeping stats cache in memory: %v", cfg.RedisAddr, err)
		} else {
			log.Info("sharing stats cache through redis at %s", cfg.RedisAddr)
			cacheOpts = append(cacheOpts, statscache.WithSlot(
				statscache.NewRedisSlot(rdb, statscache.DefaultRedisKey, 2*cfg.StatsCacheTTL)))
		}
		cancel()
	}

	srv := &api.Server{
		AuthService:    services.NewAuthService(userRepo, bcrypt.DefaultCost),
		DeckService:    services.NewDeckService(deckRepo, cardRepo, userRepo),
		CardService:    services.NewCardService(cardRepo, deckRepo),
		SessionService: services.NewSessionService(sessionRepo, deckRepo, time.Now),
		StatsService:   statsService,
		AdminService:   services.NewAdminService(userRepo, deckRepo, statsRepo),
		PlatformStats:  statscache.New(statsService, cacheOpts...),
		Tokens:         auth.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
		DB:             database,
		CookieSecure:   cfg.CookieSecure,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("FlashDeck Server Stopped")
	log.Info("===========================================")
}
