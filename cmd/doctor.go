package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kamusis/zearch/internal/config"
	"github.com/kamusis/zearch/internal/drive"
	"github.com/kamusis/zearch/internal/index"
	"github.com/kamusis/zearch/internal/walk"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run environment checks",
	Long: `Check that the zearch home, settings, indexes and file manager are
usable. Run this command when something seems wrong.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("zearch doctor")
	fmt.Fprintln(stdout)

	// ── Check 1: home directory ───────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Home ]")
	if info, err := os.Stat(a.home); err != nil || !info.IsDir() {
		failD("%s not found — run 'zearch init' first", a.home)
	} else {
		printOK("", a.home)
	}
	fmt.Fprintln(stdout)

	// ── Check 2: config.json ──────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ config.json ]")
	if !fileExists(a.cfgPath) {
		printMiss("", "not found — defaults in use")
	} else if _, err := config.Load(a.cfgPath); err != nil {
		failD("%v", err)
	} else {
		printOK("", "valid JSON")
	}
	if !config.ValidStartupMode(a.cfg.StartupMode) {
		printWarn("", fmt.Sprintf("unknown startup_mode %q — expected %s or %s",
			a.cfg.StartupMode, config.StartupMenu, config.StartupHelp))
	}
	if info, err := os.Stat(a.cfg.DefaultDirectory); err != nil || !info.IsDir() {
		printWarn("", fmt.Sprintf("default_directory is not a directory: %s", a.cfg.DefaultDirectory))
	}
	if _, err := walk.New(walk.Options{Excludes: a.cfg.Excludes}, nil); err != nil {
		failD("%v", err)
	} else if len(a.cfg.Excludes) > 0 {
		printInfo("", fmt.Sprintf("excludes: %s", strings.Join(a.cfg.Excludes, ", ")))
	}
	fmt.Fprintln(stdout)

	// ── Check 3: named indexes ────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Indexes ]")
	if err := checkWritable(a.store.Dir()); err != nil {
		failD("%s is not writable: %v", a.store.Dir(), err)
	}
	names, err := a.store.List()
	switch {
	case err != nil:
		failD("%v", err)
	case len(names) == 0:
		printMiss("", "no named indexes")
	default:
		for _, n := range names {
			info, err := a.store.Info(n)
			if err != nil {
				failD("[%s] %v", n, err)
				continue
			}
			printOK(n, statusLine(info))
		}
	}
	fmt.Fprintln(stdout)

	// ── Check 4: drive index ──────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Drive index ]")
	if info, err := index.Stat(a.drive.ArtifactPath()); err != nil {
		printMiss("", "not built — run 'zearch index'")
	} else {
		printOK("", statusLine(info))
		if meta, err := a.drive.Metadata(); err != nil {
			if errors.Is(err, drive.ErrNoIndex) {
				printWarn("", "metadata sidecar missing")
			} else {
				failD("%v", err)
			}
		} else if meta.Files != info.Files {
			printWarn("", fmt.Sprintf("metadata records %d file(s), artifact holds %d", meta.Files, info.Files))
		}
	}
	fmt.Fprintln(stdout)

	// ── Check 5: file manager ─────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ File manager ]")
	bin, _ := a.revealer.Command(a.home)
	if p, err := exec.LookPath(bin); err != nil {
		printWarn("", fmt.Sprintf("%s not found in PATH — opening results will fail", bin))
	} else {
		printOK("", p)
	}
	fmt.Fprintln(stdout)

	if !allOK {
		return fmt.Errorf("some checks failed")
	}
	printOK("", "all checks passed")
	return nil
}

// checkWritable creates and removes a probe file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
