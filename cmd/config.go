package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/kamusis/zearch/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagCfgDefaultDir  string
	flagCfgStartupMode string
	flagCfgExclude     []string
	flagCfgClearExcl   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Without flags, print the current settings as YAML. With flags, change
them and save <home>/config.json.

Example:
  zearch config
  zearch config --set-default-dir ~/Documents
  zearch config --startup-mode help
  zearch config --exclude 'node_modules/' --exclude '*.tmp'`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagCfgDefaultDir, "set-default-dir", "", "Directory used when add/update get none")
	configCmd.Flags().StringVar(&flagCfgStartupMode, "startup-mode", "", "What bare 'zearch' does: menu or help")
	configCmd.Flags().StringArrayVar(&flagCfgExclude, "exclude", nil, "Add a glob pattern skipped while walking (repeatable)")
	configCmd.Flags().BoolVar(&flagCfgClearExcl, "clear-excludes", false, "Remove all exclude patterns")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	changed := false
	if flagCfgDefaultDir != "" {
		if err := a.setDefaultDir(flagCfgDefaultDir); err != nil {
			return err
		}
		changed = true
	}
	if flagCfgStartupMode != "" {
		if !config.ValidStartupMode(flagCfgStartupMode) {
			return fmt.Errorf("unknown startup mode %q (expected %s or %s)",
				flagCfgStartupMode, config.StartupMenu, config.StartupHelp)
		}
		a.cfg.StartupMode = flagCfgStartupMode
		changed = true
	}
	if flagCfgClearExcl {
		a.cfg.Excludes = nil
		changed = true
	}
	for _, p := range flagCfgExclude {
		if !slices.Contains(a.cfg.Excludes, p) {
			a.cfg.Excludes = append(a.cfg.Excludes, p)
			changed = true
		}
	}

	if changed {
		// Validates the exclude patterns before anything is written.
		if err := a.rebuild(); err != nil {
			return err
		}
		if err := a.saveConfig(); err != nil {
			return err
		}
		printOK("", "settings saved: "+a.cfgPath)
	}
	return printConfig(a.cfg)
}

// setDefaultDir expands and checks dir before storing it.
func (a *app) setDefaultDir(dir string) error {
	dir, err := config.ExpandPath(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	a.cfg.DefaultDirectory = dir
	return nil
}

func printConfig(cfg *config.Config) error {
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
