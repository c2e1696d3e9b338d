package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-restaurant-api/config"
	"smart-restaurant-api/handlers"
	"smart-restaurant-api/logger"
	"smart-restaurant-api/metrics"
	"smart-restaurant-api/middleware"
	"smart-restaurant-api/repository"
	"smart-restaurant-api/routes"
	"smart-restaurant-api/statemachine"
	"smart-restaurant-api/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Production(), cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Error("database", "error", err)
		os.Exit(1)
	}

	r, err := newRouter(cfg, db, log, metrics.New())
	if err != nil {
		log.Error("router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", "addr", "http://localhost:"+cfg.Port,
			"db_driver", cfg.DBDriver, "strict_transitions", cfg.StrictTransitions)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server stopped")
}

// newRouter wires the stores, the upload disk and every route onto a gin engine.
func newRouter(cfg config.Config, db *gorm.DB, log *slog.Logger, m *metrics.Metrics) (*gin.Engine, error) {
	disk, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}

	orders := repository.NewOrderRepository(db,
		repository.WithPolicy(statemachine.ForMode(cfg.StrictTransitions)),
		repository.WithRecorder(m),
	)
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	h := handlers.New(handlers.Deps{
		Orders:         orders,
		Catalog:        repository.NewCatalogStore(db),
		Disk:           disk,
		Tokens:         tokens,
		Policy:         statemachine.ForMode(cfg.StrictTransitions),
		UploadMaxBytes: cfg.UploadMaxBytes,
	})

	r := gin.New()
	r.MaxMultipartMemory = cfg.UploadMaxBytes
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(m.Middleware())

	opts := routes.Options{Tokens: tokens, Metrics: m, UploadURL: cfg.UploadURL}
	if cfg.StorageDisk == "" || cfg.StorageDisk == "local" {
		opts.UploadDir = cfg.UploadDir
	}
	routes.SetupRoutes(r, h, opts)
	return r, nil
}
