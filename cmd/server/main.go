package main

import (
	"log/slog"
	"net/http"
	"os"

	"ourapp/internal/auth"
	"ourapp/internal/config"
	"ourapp/internal/db"
	"ourapp/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("db open", "err", err)
		os.Exit(1)
	}
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("token service", "err", err)
		os.Exit(1)
	}
	hasher := auth.NewHasher(cfg.BcryptCost)

	srv, err := server.New(database, hasher, tokens, logger, cfg.TemplateDir)
	if err != nil {
		logger.Error("server", "err", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		logger.Error("serve", "err", err)
		os.Exit(1)
	}
}
