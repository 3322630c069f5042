package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sungwon/contact-relay/internal/api"
	"github.com/sungwon/contact-relay/internal/config"
	"github.com/sungwon/contact-relay/internal/contact"
	"github.com/sungwon/contact-relay/internal/logger"
	"github.com/sungwon/contact-relay/internal/mailer"
	"github.com/sungwon/contact-relay/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromConfig(logger.Config{
		Level:     cfg.Logging.Level,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	log.Info().Str("environment", cfg.Environment).Msg("starting contact relay")
	if !cfg.IsProduction() {
		log.Warn().Msg("development mode: error details are included in responses")
	}

	ctx, stopVerify := context.WithCancel(context.Background())
	defer stopVerify()

	// Connect to Redis when configured; otherwise rate limit state stays
	// in process memory.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; falling back to in-process rate limiting")
			redisClient.Close()
			redisClient = nil
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
			defer redisClient.Close()
		}
	}

	limiter := ratelimit.New(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	// Initialize the SMTP connection pool once and share it by reference.
	pool := mailer.NewPool(mailer.PoolConfig{
		Host:           cfg.SMTP.Host,
		Port:           cfg.SMTP.Port,
		Username:       cfg.SMTP.Username,
		Password:       cfg.SMTP.Password,
		MaxConnections: cfg.SMTP.PoolMaxConnections,
		MaxMessages:    cfg.SMTP.PoolMaxMessages,
		CommandTimeout: cfg.SMTP.CommandTimeout,
	}, log)
	defer pool.Close()

	// Verify transport connectivity in the background; submissions are
	// accepted regardless of its outcome.
	go mailer.VerifyWithRetry(ctx, pool, cfg.SMTP.VerifyInterval, log)

	service := contact.NewService(pool, contact.ComposeConfig{
		FromName:    cfg.SMTP.FromName,
		FromAddress: cfg.SMTP.FromAddress,
		Recipient:   cfg.Contact.Recipient,
	}, log)

	router := api.NewRouter(api.RouterConfig{
		Service:        service,
		Limiter:        limiter,
		Log:            log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Environment:    cfg.Environment,
		StartTime:      time.Now(),
	})

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("contact relay listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	// Graceful shutdown with 30-second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
