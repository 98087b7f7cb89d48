package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"manga_tracker/filter"
	"manga_tracker/flow"
	"manga_tracker/lang"
	"manga_tracker/library"
	"manga_tracker/render"
	"manga_tracker/ui"
	"manga_tracker/utils"
)

var (
	// Global flags
	verbose    bool
	configFile string
	baseURL    string
	style      string

	// Set up by bootstrap before any command runs
	logger  *zap.Logger
	session *utils.SessionStore
	client  *library.Client
	runner  *flow.Runner
)

var rootCmd = &cobra.Command{
	Use:   "manga_tracker",
	Short: "Terminal client for a self-hosted manga tracker",
	Long: `manga_tracker browses and edits a manga tracker through its REST API.

Run without arguments to open the full-screen client. The subcommands
do the same jobs one at a time, for scripts and quick lookups.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ~/.config/manga_tracker/config.toml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Backend URL, overrides the config file")
	rootCmd.Flags().StringVar(&style, "style", "dark", "Markdown style for descriptions (dark, light, notty)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the config, then wires logger, session, client and runner.
func bootstrap(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = utils.DefaultConfigPath()
	}
	if err := utils.LoadConfig(path); err != nil {
		return err
	}
	if baseURL != "" {
		utils.AppConfig.Server.BaseURL = baseURL
	}
	cfg := utils.AppConfig

	logPath, err := utils.LogFile()
	if err != nil {
		logPath = ""
	}
	logger, err = utils.NewLogger(logPath, verbose)
	if err != nil {
		return err
	}
	if !lang.SetLocale(lang.Locale(cfg.UI.Language)) {
		logger.Warn("unknown interface language, using English", zap.String("language", cfg.UI.Language))
	}

	session, err = utils.OpenSession()
	if err != nil {
		logger.Warn("session file unreadable, starting fresh", zap.Error(err))
		session = utils.NewMemorySession()
	}

	client, err = library.NewClient(library.Options{
		BaseURL:   cfg.Server.BaseURL,
		APIPrefix: cfg.Server.APIPrefix,
		Timeout:   cfg.Server.Timeout.Duration,
		Cookies:   session,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	runner = flow.New(client, logger)
	logger.Debug("client ready",
		zap.String("command", cmd.Name()),
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", cfg.Server.Timeout.Duration))
	return nil
}

// requestContext bounds one CLI request by the configured timeout.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), utils.AppConfig.Server.Timeout.Duration)
}

// ping warns early when the backend is down; the screens still open so
// the user sees the failure in place.
func ping() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		logger.Warn("backend not reachable", zap.String("base_url", client.BaseURL()), zap.Error(err))
		fmt.Fprintf(os.Stderr, "warning: %s is not reachable: %v\n", client.BaseURL(), err)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ping()

	ctl := filter.NewController(session, logger)
	if err := ctl.Restore(filter.Overrides{}); err != nil {
		logger.Warn("failed to save restored filter", zap.Error(err))
	}

	logger.Info("starting ui")
	return ui.RunApp(ui.Deps{
		Runner:  runner,
		Filter:  ctl,
		Term:    render.NewTermRenderer(style),
		Log:     logger,
		Timeout: utils.AppConfig.Server.Timeout.Duration,
	})
}
