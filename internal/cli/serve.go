package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/api"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
)

func newServeCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and fire reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), stdout)
		},
	}
}

func runServe(ctx context.Context, stdout io.Writer) error {
	a, err := openApp(ctx, stdout, reminder.LogNotifier)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	a.restoreReminders(ctx)

	var center reminder.Center
	if a.center != nil {
		center = a.center
	}
	router := api.NewRouter(a.svc, a.kv, a.cfg.StoreKey, center, a.cfg.APIKey, logger)

	addr := fmt.Sprintf(":%d", a.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("getitdone server starting", "addr", addr, "store", a.cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
