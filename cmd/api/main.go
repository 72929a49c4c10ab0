package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"pet-patients-service/internal/adapters/auth/jwths256"
	"pet-patients-service/internal/adapters/directory/authsvc"
	"pet-patients-service/internal/adapters/storage/postgres"
	"pet-patients-service/internal/platform/config"
	"pet-patients-service/internal/platform/logger"
	"pet-patients-service/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx := context.Background()

	// Orden de arranque: conectar (con reintentos) -> sincronizar esquema
	// -> escuchar. Cualquier fallo acá corta el proceso.
	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error("database connection failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("schema sync failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("database ready", nil)

	dir, err := authsvc.NewClient(authsvc.Config{BaseURL: cfg.AuthServiceURL}, log)
	if err != nil {
		log.Error("auth service client failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{
		Verifier:  jwths256.NewVerifier(cfg.JWTSecret),
		Directory: dir,
		DB:        db,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
