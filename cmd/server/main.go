package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nogthings/befosa-software/internal/auth"
	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/logger"
	"github.com/Nogthings/befosa-software/internal/router"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.IsDevelopment()))
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	for _, w := range cfg.Warnings() {
		baseLogger.Warn(w)
	}

	db, err := database.Open(cfg.DatabaseDSN, baseLogger.Named("database"))
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}

	var sessions auth.SessionStore = auth.NewMemoryStore()
	if cfg.Redis.Host != "" {
		rdb, err := config.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			baseLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		sessions = auth.NewRedisStore(rdb)
		baseLogger.Info("redis session store enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	app, err := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Log:      baseLogger,
	})
	if err != nil {
		baseLogger.Fatal("failed to build router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
