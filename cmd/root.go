package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kamusis/zearch/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagHome     string
	flagDebug    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "zearch",
	Short:        "zearch — index file paths once, search them fast",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `zearch walks a directory into a plain-text index of file paths
(one per line) and searches it by substring or regular expression.

Named indexes live in ~/.zearch/indexes/; the single drive index used by
'zearch index' and 'zearch search' lives in ~/.zearch/data/.`,
	PersistentPreRunE: setupApp,
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
			a.close()
		}
	},
	Args: cobra.NoArgs,
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "zearch home directory (default $ZEARCH_HOME or ~/.zearch)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Verbose logging to stderr and to <home>/logs/zearch.log")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level for stderr: debug, info, warn, error")
}

type appKey struct{}

// setupApp builds the per-invocation app and stores it in the command context.
func setupApp(cmd *cobra.Command, _ []string) error {
	home := flagHome
	if home == "" {
		h, err := config.HomeDir()
		if err != nil {
			return err
		}
		home = h
	}
	home, err := config.ExpandPath(home)
	if err != nil {
		return err
	}

	a, err := newApp(home, appOptions{debug: flagDebug, logLevel: flagLogLevel})
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, a))
	return nil
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, fmt.Errorf("internal error: app not initialised")
	}
	return a, nil
}

// runRoot starts the menu or prints help, depending on startup_mode.
func runRoot(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	if a.cfg.StartupMode == config.StartupMenu {
		return runMenu(cmd, nil)
	}
	return cmd.Help()
}

// Execute is called by main.go. Ctrl-C cancels long walks and searches
// through the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}
