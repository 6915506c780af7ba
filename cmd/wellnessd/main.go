package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandeepkv93/wellnessd/internal/account"
	"github.com/sandeepkv93/wellnessd/internal/api"
	"github.com/sandeepkv93/wellnessd/internal/engine"
	"github.com/sandeepkv93/wellnessd/internal/lockfile"
	"github.com/sandeepkv93/wellnessd/internal/notify"
	"github.com/sandeepkv93/wellnessd/internal/scheduler"
	"github.com/sandeepkv93/wellnessd/internal/settings"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"github.com/sandeepkv93/wellnessd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wellnessd failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()
	cfg := parseFlags(update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig()), os.Args[1:]).Resolve()

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	lock, err := lockfile.Acquire(cfg.StateDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}()

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := settings.Load(ctx, repo, logger)
	if cfg.SettingsFile != "" {
		importSettings(ctx, store, cfg.SettingsFile, logger)
	}

	var platform notify.Platform = notify.NoopPlatform{}
	if cfg.DesktopNotifications {
		platform = notify.NewExecPlatform()
	}
	dispatcher := notify.NewDispatcher(
		notify.WithPlatform(platform),
		notify.WithDisplayDuration(cfg.ToastDuration()),
		notify.WithLogger(logger),
	)

	sched := scheduler.NewEngine(cfg.SchedulerBuffer)
	sched.Start()
	defer sched.Stop()

	eng := engine.New(store, repo, engine.WithLogger(logger), engine.WithNotifier(dispatcher))
	resume := eng.Restore(ctx)
	defer eng.Flush(context.Background())
	detach := update.Wire(ctx, store, eng, dispatcher)
	defer detach()

	accountStore, closeAccounts, err := openAccountStore(cfg, repo)
	if err != nil {
		return err
	}
	defer closeAccounts()
	accounts := account.NewService(accountStore, account.WithLogger(logger))
	accounts.Restore(ctx)

	program := tea.NewProgram(update.NewModel(update.Deps{
		Context:   ctx,
		Engine:    eng,
		Settings:  store,
		Notifier:  dispatcher,
		Scheduler: sched,
		Accounts:  accounts,
		Stats:     repo,
		Config:    cfg,
		Resume:    resume,
	}), tea.WithAltScreen())

	if cfg.APIAddr != "" {
		srv := api.NewServer(cfg.APIAddr, api.BridgeFuncs{
			LatestFunc: eng.Latest,
			SendFunc: func(action string) {
				program.Send(update.RemoteCommandMsg{Action: action})
			},
		}, logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start local api: %w", err)
		}
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Warn("local api shutdown failed", "error", err)
			}
		}()
	}

	logger.Info("wellnessd started", "state_dir", cfg.StateDir, "db", cfg.DBPath)
	if _, err := program.Run(); err != nil {
		return err
	}
	logger.Info("wellnessd stopped")
	return nil
}

func parseFlags(cfg update.RuntimeConfig, args []string) update.RuntimeConfig {
	fs := flag.NewFlagSet("wellnessd", flag.ExitOnError)
	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the database, lock and log files")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "local sqlite database path")
	fs.StringVar(&cfg.AccountDSN, "account-dsn", cfg.AccountDSN, "account store DSN (postgres URL or sqlite path)")
	fs.StringVar(&cfg.APIAddr, "api-addr", cfg.APIAddr, "serve the local HTTP API on this address")
	fs.BoolVar(&cfg.DesktopNotifications, "desktop-notifications", cfg.DesktopNotifications, "mirror notifications to the desktop")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.SettingsFile, "settings-file", cfg.SettingsFile, "import settings from a YAML file at startup")
	_ = fs.Parse(args)
	return cfg
}

// setupLogger writes to a file because the terminal belongs to the TUI.
func setupLogger(cfg update.RuntimeConfig) (*slog.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	return slog.New(handler), closeFn, nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openAccountStore uses the local database unless a separate DSN is set.
func openAccountStore(cfg update.RuntimeConfig, local *storage.SQLRepository) (account.Store, func(), error) {
	dsn := strings.TrimSpace(cfg.AccountDSN)
	if dsn == "" {
		return local, func() {}, nil
	}
	var (
		repo *storage.SQLRepository
		err  error
	)
	if storage.DetectDSNType(dsn) == "postgres" {
		repo, err = storage.OpenPostgres(dsn)
	} else {
		repo, err = storage.OpenSQLite(dsn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open account store: %w", err)
	}
	return repo, func() { _ = repo.Close() }, nil
}

func importSettings(ctx context.Context, store *settings.Store, path string, logger *slog.Logger) {
	next, skipped, err := settings.ImportYAML(path, store.Snapshot())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("settings file not found", "path", path)
			return
		}
		logger.Warn("failed to import settings file", "path", path, "error", err)
		return
	}
	if len(skipped) > 0 {
		logger.Warn("settings file had invalid fields, kept current values", "fields", skipped)
	}
	if _, err := store.Replace(ctx, next); err != nil {
		logger.Warn("imported settings rejected", "error", err)
	}
}
