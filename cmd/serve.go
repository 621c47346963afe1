package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tougaku/sensei/internal/api"
	"github.com/tougaku/sensei/internal/config"
	"github.com/tougaku/sensei/internal/extract"
	"github.com/tougaku/sensei/internal/grade"
	"github.com/tougaku/sensei/internal/llm"
	"github.com/tougaku/sensei/internal/pipeline"
	"github.com/tougaku/sensei/internal/practice"
	"github.com/tougaku/sensei/internal/store"
	"github.com/tougaku/sensei/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP grading service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	usage := store.NopUsage()
	if cfg.Store.Path != "" {
		if err := store.EnsureDir(cfg.Store.Path); err != nil {
			return fmt.Errorf("prepare store path: %w", err)
		}
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()
		usage = s.Usage()
	}

	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, cfg.EngineConfig(), log, usage)
	if err != nil {
		return fmt.Errorf("initialize grading engine: %w", err)
	}

	p := pipeline.New(
		extract.New(provider, extract.DefaultConfig()),
		grade.New(provider, grade.DefaultConfig()),
		practice.New(provider, practice.DefaultConfig(), log),
		log,
		pipeline.WithDummyMode(cfg.Engine.Mode == "dummy"),
	)

	handler := api.NewHandler(p, log, cfg.Server.MaxUploadSize)
	router := api.NewRouter(handler, cfg.CORS, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", cfg.Server.Address).
			Str("provider", cfg.Engine.Provider).
			Str("mode", cfg.Engine.Mode).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
