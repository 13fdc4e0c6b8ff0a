package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <name> [directory]",
	Short: "Rescan a directory and replace a named index",
	Long: `Walk [directory] (default: default_directory from the settings) again
and replace the whole content of index <name>. Nothing is merged: the new
scan fully supersedes the old one.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	name := args[0]
	if !a.store.Exists(name) {
		return a.notFound(name)
	}
	dir, err := a.resolveDir(optionalArg(args, 1))
	if err != nil {
		return err
	}
	path, err := a.store.Update(cmd.Context(), dir, name)
	if err != nil {
		return err
	}
	printOK(name, fmt.Sprintf("index updated: %s", path))
	return nil
}
