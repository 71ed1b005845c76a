package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"quizhub/internal/config"
	"quizhub/internal/httpapi"
	"quizhub/internal/logger"
	"quizhub/internal/quiz"
	"quizhub/internal/quiz/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	store, err := sqlite.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		zlog.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	service := quiz.NewService(store, store)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(service, zlog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	zlog.Info("quizhub-service listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
