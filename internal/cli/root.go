// Package cli wires configuration, logging and storage into the taskboard
// commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	tuiapp "github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/logging"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/theme"
)

// App holds the persistent flags shared by every command.
type App struct {
	ConfigPath string
	Backend    string
	LogLevel   string

	// openCredentials opens the keyring; replaced in tests.
	openCredentials func() (*credential.Store, error)
}

// NewRootCmd builds the taskboard command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{openCredentials: credential.Open})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Kanban boards in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskboard

  # Dump the saved board as JSON
  taskboard export --pretty

  # Keep the redis password in the system keyring
  taskboard credential set
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKBOARD_CONFIG", model.DefaultConfigPath()), "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (sqlite|redis); overrides storage.backend")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error); overrides log.level")

	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newInfoCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newCredentialCmd(app))

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(app *App) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if app.Backend != "" {
		cfg.Storage.Backend = app.Backend
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSlot opens the configured storage backend.
func openSlot(ctx context.Context, app *App, cfg *model.AppConfig, logger *log.Logger) (store.Slot, error) {
	sc := cfg.Storage

	switch sc.Backend {
	case model.BackendRedis:
		password, err := redisPassword(app, sc.Redis)
		if err != nil {
			return nil, err
		}
		logger.Debug("opening redis slot", "addr", sc.Redis.Addr, "db", sc.Redis.DB, "key", sc.SlotKey)
		return store.DialRedisSlot(ctx, sc.Redis.Addr, password, sc.Redis.DB, sc.SlotKey)

	default:
		path := sc.SQLite.Path
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		logger.Debug("opening sqlite slot", "path", path, "key", sc.SlotKey)
		return store.NewSQLiteSlot(path, sc.SlotKey)
	}
}

func redisPassword(app *App, rc model.RedisConfig) (string, error) {
	if !rc.UseKeyring {
		return "", nil
	}
	creds, err := app.openCredentials()
	if err != nil {
		return "", err
	}
	password, err := creds.Get(credential.RedisPasswordKey)
	if errors.Is(err, credential.ErrNotFound) {
		return "", errors.New("storage.redis.use_keyring is set but no password is stored; run `taskboard credential set`")
	}
	return password, err
}

// cliLogger logs to stderr for the non-interactive commands.
func cliLogger(cmd *cobra.Command, cfg *model.AppConfig) (*log.Logger, error) {
	return logging.New(cfg.Log, cmd.ErrOrStderr())
}

// openPersister loads config and opens the slot for a one-shot command.
// The caller closes the returned slot.
func openPersister(cmd *cobra.Command, app *App) (*store.Persister, store.Slot, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cliLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	slot, err := openSlot(cmd.Context(), app, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPersister(slot), slot, nil
}

func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if f, err := logging.OpenFile(cfg.Log); err == nil {
		defer f.Close()
		out = f
	} else {
		fmt.Fprintf(os.Stderr, "warning: %v; logging disabled\n", err)
	}
	logger, err := logging.New(cfg.Log, out)
	if err != nil {
		return err
	}

	slot, err := openSlot(ctx, app, cfg, logger)
	if err != nil {
		return err
	}
	defer slot.Close()

	persister := store.NewPersister(slot)
	initial, err := persister.Load(ctx)
	switch {
	case err == nil:
		saved, _ := lastSaved(ctx, slot)
		logger.Info("board restored", "workspaces", len(initial.Workspaces), "saved", saved)
	case store.IsFirstRun(err):
		logger.Info("no saved board, starting empty")
	default:
		logger.Warn("could not restore board, starting empty", "err", err)
	}

	ctrl := board.NewController(initial, board.Options{
		Persister:    persister,
		Logger:       logger,
		WriteTimeout: cfg.Storage.WriteTimeout,
	})
	ctrl.Subscribe(func(b *model.BoardState) {
		logger.Debug("board changed", "workspaces", len(b.Workspaces), "active", b.ActiveWorkspaceID != nil)
	})

	p := tea.NewProgram(tuiapp.New(ctrl, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
