package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search the drive index (case-insensitive substring)",
	Long: `Print every path in the drive index containing <pattern>, ignoring
case, followed by the number of matches. Run 'zearch index' first.

Use 'zearch find' to search a named index with regular expressions.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	res, err := a.drive.Search(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, m := range res.Matches {
		fmt.Fprintln(stdout, m)
	}
	fmt.Fprintf(stdout, "%d match(es) found.\n", len(res.Matches))
	if res.Degraded > 0 {
		a.logger.Debug("lossy lines in drive index", slog.Int("lines", res.Degraded))
	}
	return nil
}
