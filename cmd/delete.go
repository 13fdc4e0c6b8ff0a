package cmd

import (
	"github.com/spf13/cobra"
)

var flagDeleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a named index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	name := args[0]
	if !a.store.Exists(name) {
		return a.notFound(name)
	}
	if !flagDeleteYes {
		p := newPrompter(cmd.Context(), a.home, cmd.InOrStdin())
		defer p.Close()
		ok, err := confirm(p, "Delete index '"+name+"'?")
		if err != nil || !ok {
			printSkip(name, "not deleted")
			return nil
		}
	}
	if err := a.store.Delete(cmd.Context(), name); err != nil {
		return err
	}
	printOK(name, "deleted")
	return nil
}
