package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vibecode-law/vibecode-law-sub004/internal/app"
	"github.com/vibecode-law/vibecode-law-sub004/internal/assets"
	"github.com/vibecode-law/vibecode-law-sub004/internal/bootstrap"
	"github.com/vibecode-law/vibecode-law-sub004/internal/clipboard"
	"github.com/vibecode-law/vibecode-law-sub004/internal/config"
	"github.com/vibecode-law/vibecode-law-sub004/internal/logging"
	"github.com/vibecode-law/vibecode-law-sub004/internal/store"
)

const defaultConfigPath = "transcripts.yaml"

var errDatabaseDisabled = errors.New("database disabled in config (database.enabled)")

// cli holds what the root command prepares for its sub commands.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "transcripts",
		Short: "Import WebVTT lesson transcripts",
		Long: `transcripts parses WebVTT caption files into timed transcript lines
and stores them per lesson, ready to be shown next to the video player.

A source is a file path, an http(s) URL, or "-" for stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath, "path to config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		c.parseCmd(),
		c.importCmd(),
		c.linesCmd(),
		c.historyCmd(),
		c.exportCmd(),
		c.initCmd(),
	)
	return root
}

// setup loads the config (creating it from the embedded default if missing)
// and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	created, err := bootstrap.EnsureConfigPresent(c.configPath, assets.Embedded, assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("ensure config: %w", err)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, c.verbose)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.stdin = cmd.InOrStdin()
	c.logger = logger.With(zap.String("cmd", cmd.Name()))

	if created {
		c.logger.Info("default config written", zap.String("path", c.configPath))
	}
	if b := cfg.BackupPath(); b != "" {
		c.logger.Info("config upgraded", zap.String("backup", b))
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		c.logger.Warn(w)
	}
	if err != nil {
		return fmt.Errorf("invalid config %s: %w", cfg.Path(), err)
	}
	return nil
}

func (c *cli) openStore() (*store.Store, error) {
	if !c.cfg.Database.Enabled {
		return nil, errDatabaseDisabled
	}
	return store.Open(c.cfg.Database.Path)
}

// newApp opens the store when enabled; close must be called when done.
func (c *cli) newApp(needStore bool) (a *app.App, closeFn func(), err error) {
	closeFn = func() {}

	var st *store.Store
	if c.cfg.Database.Enabled {
		st, err = store.Open(c.cfg.Database.Path)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() {
			if err := st.Close(); err != nil {
				c.logger.Warn("close database", zap.Error(err))
			}
		}
	} else if needStore {
		return nil, closeFn, errDatabaseDisabled
	}

	var clip app.Clipboard
	if c.cfg.CopyToClipboard {
		if clipboard.Available() {
			clip = clipboard.System{}
		} else {
			c.logger.Warn("copy_to_clipboard is set but no clipboard is available")
		}
	}

	// a nil *store.Store must not become a non-nil interface
	var ts app.TranscriptStore
	if st != nil {
		ts = st
	}
	a = app.New(c.cfg, c.logger, ts, clip)
	a.SetStdin(c.stdin)
	return a, closeFn, nil
}

func main() {
	// root context cancelled on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
