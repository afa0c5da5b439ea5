package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/config"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/logging"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// app is the wiring every command shares.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	kv        store.KV
	store     *store.BlobStore
	center    *reminder.TimerCenter
	scheduler *reminder.Scheduler
	svc       *tasks.Service
}

// notifierFunc builds the reminder sink once the logger exists.
type notifierFunc func(logger *slog.Logger) reminder.Notifier

// openApp loads config and opens the store, logging to logOut. With notify
// nil (or reminders disabled) no reminder center is started; short-lived
// commands leave reminders to the next serve or tui run, which restores them.
func openApp(ctx context.Context, logOut io.Writer, notify notifierFunc) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logOut, cfg.LogFormat, cfg.LogLevel)

	kv, err := store.OpenKV(ctx, store.Backend{
		Driver:      cfg.StoreDriver,
		DBPath:      cfg.DBPath,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		kv:     kv,
		store:  store.NewBlobStore(kv, cfg.StoreKey, logger),
	}

	var rescheduler reminder.Rescheduler
	if notify != nil && cfg.RemindersEnabled {
		a.center = reminder.NewTimerCenter(notify(logger))
		a.scheduler = reminder.NewScheduler(a.center, logger)
		rescheduler = a.scheduler
	}
	a.svc = tasks.NewService(a.store, rescheduler, logger)
	return a, nil
}

// restoreReminders re-registers reminders for every incomplete task.
func (a *app) restoreReminders(ctx context.Context) {
	if a.scheduler == nil {
		return
	}
	n := a.scheduler.Restore(a.store.LoadAll(ctx))
	a.logger.Info("reminders restored", "scheduled", n)
}

func (a *app) Close() error {
	if a.center != nil {
		a.center.Close()
	}
	return a.kv.Close()
}
