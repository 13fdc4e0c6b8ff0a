package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kamusis/zearch/internal/search"
	"github.com/spf13/cobra"
)

var (
	flagFindLiteral       bool
	flagFindCaseSensitive bool
	flagFindLimit         int
	flagFindOpen          int
)

var findCmd = &cobra.Command{
	Use:   "find <name> <pattern>",
	Short: "Search a named index by regular expression or substring",
	Long: `Print every path in index <name> that matches <pattern>, in index order.
<pattern> is a regular expression unless --literal is given. Matching
ignores case unless --case-sensitive is given.

Example:
  zearch find docs '2023.*\.pdf$'
  zearch find docs report --literal --open 1`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVarP(&flagFindLiteral, "literal", "l", false, "Treat <pattern> as plain text")
	findCmd.Flags().BoolVarP(&flagFindCaseSensitive, "case-sensitive", "c", false, "Match case exactly")
	findCmd.Flags().IntVarP(&flagFindLimit, "limit", "n", 0, "Print at most N matches (0 = all)")
	findCmd.Flags().IntVar(&flagFindOpen, "open", 0, "Reveal match number N in the file manager")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	q := search.Query{Term: args[1], CaseSensitive: flagFindCaseSensitive}
	if flagFindLiteral {
		q.Mode = search.ModeSubstring
	}
	res, err := a.find(cmd.Context(), args[0], q)
	if err != nil {
		return err
	}
	a.logger.Debug("find done",
		slog.String("index", args[0]),
		slog.String("mode", q.Mode.String()),
		slog.Int("lines", res.Lines),
		slog.Int("matches", len(res.Matches)))

	shown := res.Matches
	if flagFindLimit > 0 && len(shown) > flagFindLimit {
		shown = shown[:flagFindLimit]
	}
	for i, m := range shown {
		fmt.Fprintf(stdout, "%4d  %s\n", i+1, m)
	}
	if len(shown) < len(res.Matches) {
		printInfo("", fmt.Sprintf("%d more not shown (raise --limit)", len(res.Matches)-len(shown)))
	}
	fmt.Fprintf(stdout, "%d match(es) found.\n", len(res.Matches))
	if res.Degraded > 0 {
		printWarn("", fmt.Sprintf("%d line(s) were not valid UTF-8 and were searched with bad bytes dropped", res.Degraded))
	}

	if flagFindOpen != 0 {
		return openMatch(a, res.Matches, flagFindOpen)
	}
	return nil
}

// openMatch reveals the n-th (1-based) match.
func openMatch(a *app, matches []string, n int) error {
	if n < 1 || n > len(matches) {
		return errors.New("no match number " + strconv.Itoa(n))
	}
	path := matches[n-1]
	if err := a.revealer.Reveal(path); err != nil {
		return err
	}
	printOK("", "opened "+path)
	return nil
}
