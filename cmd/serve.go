package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rteja/assessly/internal/api"
	"github.com/rteja/assessly/internal/config"
	"github.com/rteja/assessly/internal/evaluation"
	"github.com/rteja/assessly/internal/hybrid"
	"github.com/rteja/assessly/internal/llm"
	"github.com/rteja/assessly/internal/question"
	"github.com/rteja/assessly/internal/session"
	"github.com/rteja/assessly/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func runServer(cmd *cobra.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	// The store always opens: the provider call log lives there even when
	// sessions are kept in memory.
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	var sessions session.Store
	switch cfg.StoreBackend {
	case "sqlite":
		sessions = s.Sessions()
	default:
		sessions = session.NewMemoryStore()
	}

	ctx := cmd.Context()
	primary, err := llm.NewProvider(ctx, cfg.PrimaryProvider, cfg.LLM, s.Events())
	if err != nil {
		return fmt.Errorf("primary provider: %w", err)
	}
	secondary, err := llm.NewProvider(ctx, cfg.SecondaryProvider, cfg.LLM, s.Events())
	if err != nil {
		return fmt.Errorf("secondary provider: %w", err)
	}

	client := hybrid.New(primary, secondary)
	handler := api.NewHandler(sessions, question.NewService(client), evaluation.NewService(client))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"primary", cfg.PrimaryProvider,
			"secondary", cfg.SecondaryProvider,
			"store", cfg.StoreBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-shutdownCtx.Done():
	}

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
