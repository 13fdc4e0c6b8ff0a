package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/zearch/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the zearch home and default settings",
	Long: `Create <home>/ (default ~/.zearch), the indexes/ and data/ folders and a
default config.json. Existing settings are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	for _, dir := range []string{a.home, config.IndexDir(a.home), config.DataDir(a.home)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}
	printOK("", fmt.Sprintf("zearch directory ready: %s", a.home))

	if fileExists(a.cfgPath) {
		printSkip("", fmt.Sprintf("config.json already exists: %s", a.cfgPath))
		return nil
	}
	if err := config.Save(a.cfgPath, config.Default()); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("config.json created: %s", a.cfgPath))
	return nil
}
