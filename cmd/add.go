package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> [directory]",
	Short: "Create a named index of a directory",
	Long: `Walk [directory] (default: default_directory from the settings) and
save every file path as the index <name>. Names are reduced to lowercase
letters, digits, '-' and '_'; names that reduce to the same text collide.

Example:
  zearch add docs ~/Documents`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	dir, err := a.resolveDir(optionalArg(args, 1))
	if err != nil {
		return err
	}
	path, err := a.store.Create(cmd.Context(), dir, args[0])
	if err != nil {
		return err
	}
	printOK(args[0], fmt.Sprintf("index created: %s", path))
	return nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
