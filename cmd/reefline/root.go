package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/reefline/internal/app"
	"github.com/dshills/reefline/internal/config"
)

// App holds the persistent flags and what PersistentPreRunE builds from
// them.
type App struct {
	ConfigPath string
	LogLevel   string
	LogFile    string

	cfg      *config.Config
	log      *app.Logger
	closeLog func() error
}

// NewRootCmd builds the reefline command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:           "reefline",
		Short:         "Fish-style prompt and completion pager renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Draw a frame described in JSON and exit
  reefline render frame.json

  # Pick one of several completions interactively
  reefline pager --token ch checkout cherry-pick

  # Measure escape sequences
  reefline escape-len '\e[31m' '\e]0;title\a'

  # Dump the completion grid as JSON
  reefline snapshot --width 40 alpha beta gamma
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.teardown()
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("REEFLINE_CONFIG", ""), "Path to config file (default: $XDG_CONFIG_HOME/reefline/config.toml)")
	cmd.PersistentFlags().StringVar(&a.LogLevel, "log-level", "", "Log level (debug, info, warn, error, off); overrides the config")
	cmd.PersistentFlags().StringVar(&a.LogFile, "log-file", "", "Append logs to this file; overrides the config")

	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newPagerCmd(a))
	cmd.AddCommand(newEscapeLenCmd(a))
	cmd.AddCommand(newSnapshotCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads the config and installs the global logger.
func (a *App) setup() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.LogLevel != "" {
		cfg.Logging.Level = a.LogLevel
	}
	if a.LogFile != "" {
		cfg.Logging.File = a.LogFile
	}

	out, closeLog, err := app.OpenLogFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.closeLog = closeLog
	a.log = app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Logging.Level),
		Output: out,
		Prefix: "reefline",
	})
	app.SetLogger(a.log)
	return nil
}

func (a *App) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	return closeLog()
}

// configPath is the file to watch for changes, or "" when none exists.
func (a *App) configPath() string {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
