package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grintel/grconsole/internal/admin"
	"github.com/grintel/grconsole/internal/config"
	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/database/repository"
	"github.com/grintel/grconsole/internal/fixtures"
	"github.com/grintel/grconsole/internal/tui"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "grconsole",
		Short: "Admin console for the media monitoring platform",
		Long: `grconsole browses companies, users, tickets, stakeholders and the audit
log of the demo store in a paginated, sortable terminal table.

Run without arguments to start the interactive console.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log, err = newLogger(cfg.Log, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log.Debug("config loaded", zap.String("db", cfg.Database.Path), zap.Int("page_size", cfg.Table.PageSize))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/grconsole/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSeedCmd(a),
		newMigrateCmd(a),
		newListCmd(a),
		newConfigCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	// the terminal belongs to the TUI
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}
	return zc.Build()
}

// openStore applies migrations and opens the demo store.
func (a *app) openStore() (*sql.DB, repository.Repos, error) {
	path := a.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, repository.Repos{}, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, repository.Repos{}, fmt.Errorf("migrate: %w", err)
	}
	a.log.Debug("migrations applied", zap.String("db", path))
	db, err := database.Open(path)
	if err != nil {
		return nil, repository.Repos{}, fmt.Errorf("open db: %w", err)
	}
	return db, repository.New(db), nil
}

// seedIfEmpty loads the demo fixtures into a store without companies.
func (a *app) seedIfEmpty(ctx context.Context, repos repository.Repos) error {
	empty, err := fixtures.Empty(ctx, repos)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !empty {
		return nil
	}
	n, err := fixtures.Seed(ctx, repos, rand.New(rand.NewSource(1)))
	if err != nil {
		return err
	}
	a.log.Info("demo store seeded", zap.Int("companies", n.Companies), zap.Int("users", n.Users), zap.Int("tickets", n.Tickets))
	return nil
}

func (a *app) workspace(repos repository.Repos) *admin.Workspace {
	return admin.NewWorkspace(repos, a.cfg, a.log)
}

func (a *app) runConsole(ctx context.Context) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("stdout is not a terminal; use \"grconsole list <screen>\" for plain output")
	}
	db, repos, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := a.seedIfEmpty(ctx, repos); err != nil {
		return err
	}

	model, err := tui.New(ctx, a.workspace(repos))
	if err != nil {
		return err
	}
	a.log.Info("console started", zap.String("operator", a.cfg.UI.Operator))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		a.log.Error("console stopped", zap.Error(err))
		return err
	}
	return nil
}
