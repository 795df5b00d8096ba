package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/whoami-game/backend/internal/config"
	"github.com/whoami-game/backend/internal/handler"
	"github.com/whoami-game/backend/internal/model/words"
	gameService "github.com/whoami-game/backend/internal/service/game"
	"github.com/whoami-game/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogging()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open session storage: %v", err)
	}
	defer store.Close()

	bank := words.Load(cfg.Words.Dir)
	log.Printf("word bank loaded: %d characters, %d contexts", len(bank.Characters), len(bank.Contexts))

	assigner := gameService.NewAssigner(cfg.Game.Seed)
	gameSvc := gameService.NewService(store, bank, assigner, cfg.Game.IDLength)
	if err := gameSvc.LoadAll(ctx); err != nil {
		log.Fatalf("failed to load sessions from storage: %v", err)
	}

	router := handler.NewRouter(gameSvc)

	startServer(ctx, cfg.Server, router)
}

// setupLogging mirrors process logs to stdout and a size-rotated file.
func setupLogging() {
	rotated := &lumberjack.Logger{
		Filename:   "logs/whoami.log",
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageDriverSQLite:
		return storage.NewSQLiteStore(cfg.DSN)
	default:
		return storage.NewFileStore(cfg.Dir)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Who Am I backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
