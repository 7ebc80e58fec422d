package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/duocode/internal/catalog"
	"github.com/p-n-ai/duocode/internal/content"
	"github.com/p-n-ai/duocode/internal/platform/config"
	"github.com/p-n-ai/duocode/internal/platform/database"
)

// app carries the resolved configuration shared by all subcommands.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "duocode",
		Short:         "Inspect the duocode lesson catalog",
		Long:          "duocode loads the lesson catalog for Python, JavaScript, C++ and Java, validates it, and computes lesson XP rewards.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Log))
			return nil
		},
	}

	root.PersistentFlags().String("source", "", "Catalog source: embedded, dir or postgres (overrides DUOCODE_CATALOG_SOURCE)")
	root.PersistentFlags().String("path", "", "Lesson directory for the dir source (overrides DUOCODE_CATALOG_PATH)")
	root.PersistentFlags().String("database-url", "", "PostgreSQL URL (overrides DUOCODE_DATABASE_URL)")
	root.PersistentFlags().String("log-level", "", "Log level (overrides DUOCODE_LOG_LEVEL)")

	root.AddCommand(
		newValidateCmd(a),
		newLessonsCmd(a),
		newStatsCmd(a),
		newXPCmd(),
		newAwardCmd(a),
		newExportCmd(a),
		newPublishCmd(a),
	)
	return root
}

// resolveConfig loads the environment configuration and applies flag
// overrides, flags taking priority.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("source"); v != "" {
		cfg.Catalog.Source = v
	}
	if v, _ := flags.GetString("path"); v != "" {
		cfg.Catalog.Path = v
		if !flags.Changed("source") {
			cfg.Catalog.Source = config.SourceDir
		}
	}
	if v, _ := flags.GetString("database-url"); v != "" {
		cfg.Database.URL = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	level, err := lc.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openCatalog loads the catalog from the configured source. The returned
// cleanup func releases any database pool and is always non-nil.
func (a *app) openCatalog(ctx context.Context) (*catalog.Catalog, func(), error) {
	noop := func() {}

	switch a.cfg.Catalog.Source {
	case config.SourceDir:
		if _, err := os.Stat(a.cfg.Catalog.Path); err != nil {
			return nil, noop, fmt.Errorf("catalog path: %w", err)
		}
		c, err := catalog.Load(ctx, catalog.FSSource{FS: os.DirFS(a.cfg.Catalog.Path)})
		return c, noop, err

	case config.SourcePostgres:
		db, err := database.New(ctx, a.cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		src, err := catalog.NewPostgresSource(db.Pool)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		c, err := catalog.Load(ctx, src)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return c, db.Close, nil

	default:
		c, err := content.Load(ctx)
		return c, noop, err
	}
}
