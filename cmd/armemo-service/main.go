package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yoyowasi/ar-memo-backend/internal/api"
	"github.com/yoyowasi/ar-memo-backend/internal/auth"
	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/platform/logger"
	mongostore "github.com/yoyowasi/ar-memo-backend/internal/store/mongo"
)

func main() {
	log := logger.New("armemo-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Msg("AR memo service starting…")

	ctx := context.Background()

	// -------- Storage layer -----------------
	client, err := mongostore.Open(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("MongoDB unavailable")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure indexes")
	}
	st := mongostore.New(db)

	// -------- Object storage ----------------
	signer, err := blob.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile,
		time.Duration(cfg.SignedURLTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("GCS unavailable")
	}
	defer func() { _ = signer.Close() }()

	// -------- Router & Server --------------
	authorizer := auth.NewJWTAuthorizer(cfg.JWTSecret)
	router := api.NewRouter(cfg, st, signer, authorizer, mongostore.Pinger(client))
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
