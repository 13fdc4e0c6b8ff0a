package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kamusis/zearch/internal/config"
	"github.com/kamusis/zearch/internal/search"
	"github.com/spf13/cobra"
)

// menuDisplayLimit caps how many results one menu search prints.
const menuDisplayLimit = 200

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start the interactive menu: load and search, add, update or delete
named indexes, and edit settings. Quit with Q, Ctrl-D or Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd.Context(), a.home, cmd.InOrStdin())
	defer p.Close()
	m := &menu{a: a, p: p}
	return m.run(cmd.Context())
}

type menu struct {
	a *app
	p prompter
}

// run loops until the user quits or input ends. Errors from one action are
// printed and the loop goes on.
func (m *menu) run(ctx context.Context) error {
	for {
		printSection("Zearch!")
		fmt.Fprintln(stdout, "[L]oad & search index")
		fmt.Fprintln(stdout, "[A]dd new index")
		fmt.Fprintln(stdout, "[U]pdate existing index")
		fmt.Fprintln(stdout, "[D]elete index")
		fmt.Fprintln(stdout, "[S]ettings")
		fmt.Fprintln(stdout, "[Q]uit")

		choice, err := m.p.Prompt("Choose option: ")
		if err != nil {
			return quitOn(err)
		}

		var actErr error
		switch strings.ToLower(choice) {
		case "l":
			actErr = m.load(ctx)
		case "a":
			actErr = m.add(ctx)
		case "u":
			actErr = m.update(ctx)
		case "d":
			actErr = m.remove(ctx)
		case "s":
			actErr = m.settings()
		case "q":
			return nil
		default:
			fmt.Fprintln(stdout, "Unknown option.")
		}
		if actErr != nil {
			if errors.Is(actErr, errInputClosed) || errors.Is(actErr, context.Canceled) {
				return quitOn(actErr)
			}
			printErr("", describeError(actErr))
		}
	}
}

// quitOn turns the end of input into a clean exit.
func quitOn(err error) error {
	if errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// chooseIndex lists the indexes and reads a 1-based selection. It returns ""
// when there is nothing to choose or the answer is not a valid number.
func (m *menu) chooseIndex() (string, error) {
	names, err := m.a.store.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No indexes available.")
		return "", nil
	}
	recent := ""
	if m.a.cfg.RecentIndex != nil {
		recent = *m.a.cfg.RecentIndex
	}
	for i, n := range names {
		if n == recent {
			fmt.Fprintf(stdout, "[%d] %s (recent)\n", i+1, n)
		} else {
			fmt.Fprintf(stdout, "[%d] %s\n", i+1, n)
		}
	}
	ans, err := m.p.Prompt("Select index number: ")
	if err != nil {
		return "", err
	}
	n, ok := pick(ans, len(names))
	if !ok {
		fmt.Fprintln(stdout, "Invalid selection.")
		return "", nil
	}
	return names[n], nil
}

// pick parses a 1-based choice and returns the 0-based index.
func pick(ans string, n int) (int, bool) {
	i, err := strconv.Atoi(ans)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func (m *menu) load(ctx context.Context) error {
	name, err := m.chooseIndex()
	if err != nil || name == "" {
		return err
	}
	// Remembered for this session; written only when settings are saved.
	m.a.cfg.RecentIndex = &name

	term, err := m.p.Prompt("Enter search term (regex ok): ")
	if err != nil {
		return err
	}
	res, err := m.a.find(ctx, name, search.Query{Term: term, Mode: search.ModeRegex})
	if err != nil {
		return err
	}
	if len(res.Matches) == 0 {
		fmt.Fprintln(stdout, "No matches.")
		return nil
	}
	shown := res.Matches
	if len(shown) > menuDisplayLimit {
		shown = shown[:menuDisplayLimit]
	}
	for i, match := range shown {
		fmt.Fprintf(stdout, "[%d] %s\n", i+1, match)
	}
	if len(shown) < len(res.Matches) {
		printInfo("", fmt.Sprintf("showing %d of %d matches; narrow the pattern to see the rest",
			len(shown), len(res.Matches)))
	}
	if res.Degraded > 0 {
		printWarn("", fmt.Sprintf("%d line(s) were not valid UTF-8", res.Degraded))
	}

	sel, err := m.p.Prompt("Result number to open (blank to cancel): ")
	if err != nil || sel == "" {
		return err
	}
	i, ok := pick(sel, len(shown))
	if !ok {
		fmt.Fprintln(stdout, "Invalid selection.")
		return nil
	}
	return m.a.revealer.Reveal(shown[i])
}

func (m *menu) add(ctx context.Context) error {
	dir, err := m.p.Prompt(fmt.Sprintf("Directory to index (default: %s): ", m.a.cfg.DefaultDirectory))
	if err != nil {
		return err
	}
	dir, err = m.a.resolveDir(dir)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintln(stdout, "Invalid directory.")
		return nil
	}
	name, err := m.p.Prompt("Friendly name for index: ")
	if err != nil {
		return err
	}
	if _, err := m.a.store.Create(ctx, dir, name); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Index created.")
	return nil
}

func (m *menu) update(ctx context.Context) error {
	name, err := m.chooseIndex()
	if err != nil || name == "" {
		return err
	}
	dir, err := m.p.Prompt(fmt.Sprintf("Directory to re-index (default: %s): ", m.a.cfg.DefaultDirectory))
	if err != nil {
		return err
	}
	dir, err = m.a.resolveDir(dir)
	if err != nil {
		return err
	}
	if _, err := m.a.store.Update(ctx, dir, name); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Index updated.")
	return nil
}

func (m *menu) remove(ctx context.Context) error {
	name, err := m.chooseIndex()
	if err != nil || name == "" {
		return err
	}
	ok, err := confirm(m.p, fmt.Sprintf("Delete index '%s'?", name))
	if err != nil || !ok {
		return err
	}
	ok, err = confirm(m.p, "Really delete? This cannot be undone.")
	if err != nil || !ok {
		return err
	}
	if err := m.a.store.Delete(ctx, name); err != nil {
		return err
	}
	if r := m.a.cfg.RecentIndex; r != nil && *r == name {
		m.a.cfg.RecentIndex = nil
	}
	fmt.Fprintln(stdout, "Deleted.")
	return nil
}

func (m *menu) settings() error {
	fmt.Fprintln(stdout, "Current settings:")
	if err := printConfig(m.a.cfg); err != nil {
		return err
	}

	changed := false
	ok, err := confirm(m.p, "Edit default directory?")
	if err != nil {
		return err
	}
	if ok {
		dir, err := m.p.Prompt("Enter new default directory: ")
		if err != nil {
			return err
		}
		if err := m.a.setDefaultDir(dir); err != nil {
			printWarn("", err.Error())
		} else {
			changed = true
		}
	}

	ok, err = confirm(m.p, "Change startup mode?")
	if err != nil {
		return err
	}
	if ok {
		mode, err := m.p.Prompt(fmt.Sprintf("Startup mode (%s/%s): ", config.StartupMenu, config.StartupHelp))
		if err != nil {
			return err
		}
		mode = strings.ToLower(mode)
		if config.ValidStartupMode(mode) {
			m.a.cfg.StartupMode = mode
			changed = true
		} else {
			printWarn("", fmt.Sprintf("unknown startup mode %q", mode))
		}
	}

	if !changed {
		return nil
	}
	if err := m.a.saveConfig(); err != nil {
		return err
	}
	printOK("", "settings saved")
	return nil
}
