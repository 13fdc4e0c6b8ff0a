package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kamusis/zearch/internal/config"
	"github.com/kamusis/zearch/internal/drive"
	"github.com/kamusis/zearch/internal/index"
)

// resetFlags restores every package-level flag variable; cobra keeps them
// between Execute calls.
func resetFlags() {
	flagHome, flagDebug, flagLogLevel = "", false, ""
	flagIndexDrive = drive.DefaultRoot()
	flagDeleteYes = false
	flagFindLiteral, flagFindCaseSensitive, flagFindLimit, flagFindOpen = false, false, 0, 0
	flagInspectDrive = false
	flagCfgDefaultDir, flagCfgStartupMode, flagCfgExclude, flagCfgClearExcl = "", "", nil, false
}

// runZearch executes the root command against home with the given stdin and
// returns what was written to stdout and stderr.
func runZearch(t *testing.T, home, in string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })

	resetFlags()
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestEndToEnd_AddFindDeleteList(t *testing.T) {
	home := t.TempDir()
	root := makeTree(t, "invoice_2023.pdf", "notes.txt")

	if _, _, err := runZearch(t, home, "", "add", "docs", root); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, _, err := runZearch(t, home, "", "find", "docs", "2023")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, filepath.Join(root, "invoice_2023.pdf")) {
		t.Errorf("find output missing invoice:\n%s", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("find output should not list notes.txt:\n%s", out)
	}
	if !strings.Contains(out, "1 match(es) found.") {
		t.Errorf("missing match count:\n%s", out)
	}

	if _, _, err := runZearch(t, home, "", "delete", "docs", "--yes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, _, err = runZearch(t, home, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "docs") {
		t.Errorf("docs still listed:\n%s", out)
	}
}

func TestAdd_CollisionIsAnError(t *testing.T) {
	home := t.TempDir()
	root := makeTree(t, "a.txt")
	if _, _, err := runZearch(t, home, "", "add", "Docs", root); err != nil {
		t.Fatal(err)
	}
	_, _, err := runZearch(t, home, "", "add", "docs!", root)
	if !errors.Is(err, index.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestFind_UnknownIndexSuggestsName(t *testing.T) {
	home := t.TempDir()
	if _, _, err := runZearch(t, home, "", "add", "documents", makeTree(t, "a.txt")); err != nil {
		t.Fatal(err)
	}
	_, _, err := runZearch(t, home, "", "find", "documnets", "a")
	if !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), `did you mean "documents"`) {
		t.Errorf("no suggestion in %q", err.Error())
	}
}

func TestFind_LiteralCaseSensitiveAndLimit(t *testing.T) {
	home := t.TempDir()
	root := makeTree(t, "A[1].txt", "a[1].log", "a[1].md")
	if _, _, err := runZearch(t, home, "", "add", "t", root); err != nil {
		t.Fatal(err)
	}

	out, _, err := runZearch(t, home, "", "find", "t", "a[1]", "--literal", "--case-sensitive")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2 match(es) found.") {
		t.Errorf("want 2 case-sensitive literal matches:\n%s", out)
	}

	out, _, err = runZearch(t, home, "", "find", "t", "a[1]", "--literal", "--limit", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3 match(es) found.") || !strings.Contains(out, "2 more not shown") {
		t.Errorf("limit output:\n%s", out)
	}
}

func TestFind_InvalidRegex(t *testing.T) {
	home := t.TempDir()
	if _, _, err := runZearch(t, home, "", "add", "t", makeTree(t, "a.txt")); err != nil {
		t.Fatal(err)
	}
	_, _, err := runZearch(t, home, "", "find", "t", "[unterminated")
	if err == nil || !strings.Contains(err.Error(), "invalid") {
		t.Fatalf("err = %v, want invalid pattern", err)
	}
}

func TestFind_OpenUsesFileManager(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the true(1) binary")
	}
	home := t.TempDir()
	t.Setenv(config.EnvFileManager, "true")
	root := makeTree(t, "report.pdf")
	if _, _, err := runZearch(t, home, "", "add", "t", root); err != nil {
		t.Fatal(err)
	}
	out, _, err := runZearch(t, home, "", "find", "t", "report", "--open", "1")
	if err != nil {
		t.Fatalf("find --open: %v", err)
	}
	if !strings.Contains(out, "opened ") {
		t.Errorf("missing open confirmation:\n%s", out)
	}

	if _, _, err := runZearch(t, home, "", "find", "t", "report", "--open", "5"); err == nil {
		t.Error("expected an error for an out-of-range match number")
	}
}

func TestUpdate_ReplacesContent(t *testing.T) {
	home := t.TempDir()
	first := makeTree(t, "old.txt")
	second := makeTree(t, "new.txt")
	if _, _, err := runZearch(t, home, "", "add", "t", first); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runZearch(t, home, "", "update", "t", second); err != nil {
		t.Fatal(err)
	}
	out, _, err := runZearch(t, home, "", "find", "t", "txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "old.txt") || !strings.Contains(out, "new.txt") {
		t.Errorf("update did not replace content:\n%s", out)
	}

	if _, _, err := runZearch(t, home, "", "update", "ghost", second); !errors.Is(err, index.ErrNotFound) {
		t.Errorf("update ghost: err = %v, want ErrNotFound", err)
	}
}

func TestDelete_DeclinedKeepsIndex(t *testing.T) {
	home := t.TempDir()
	if _, _, err := runZearch(t, home, "", "add", "t", makeTree(t, "a")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runZearch(t, home, "n\n", "delete", "t"); err != nil {
		t.Fatal(err)
	}
	out, _, _ := runZearch(t, home, "", "list")
	if !strings.Contains(out, "t\n") {
		t.Errorf("declined delete removed the index:\n%s", out)
	}
	if _, _, err := runZearch(t, home, "yes\n", "delete", "t"); err != nil {
		t.Fatal(err)
	}
	out, _, _ = runZearch(t, home, "", "list")
	if !strings.Contains(out, "no indexes yet") {
		t.Errorf("confirmed delete kept the index:\n%s", out)
	}
}

func TestDriveIndexAndSearch(t *testing.T) {
	home := t.TempDir()
	root := makeTree(t, "Music/Song.MP3", "docs/readme.md")

	_, _, err := runZearch(t, home, "", "search", "song")
	if !errors.Is(err, drive.ErrNoIndex) {
		t.Fatalf("search before index: err = %v, want ErrNoIndex", err)
	}
	if got := describeError(err); got != "Index not found. Run 'zearch index' first." {
		t.Errorf("describeError = %q", got)
	}

	out, _, err := runZearch(t, home, "", "index", "--drive", root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Index built: 2 files recorded.") {
		t.Errorf("index output:\n%s", out)
	}

	out, _, err = runZearch(t, home, "", "search", "SONG")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Song.MP3") || !strings.Contains(out, "1 match(es) found.") {
		t.Errorf("search output:\n%s", out)
	}

	out, _, err = runZearch(t, home, "", "inspect", "--drive")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "recorded_files: 2") || !strings.Contains(out, "drive: "+root) {
		t.Errorf("inspect --drive output:\n%s", out)
	}
}

func TestInspect_NamedIndex(t *testing.T) {
	home := t.TempDir()
	if _, _, err := runZearch(t, home, "", "add", "Docs", makeTree(t, "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	out, _, err := runZearch(t, home, "", "inspect", "docs")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name: docs", "files: 3", "digest: "} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
	if _, _, err := runZearch(t, home, "", "inspect"); err == nil {
		t.Error("inspect without a name should fail")
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	home := t.TempDir()
	dir := t.TempDir()

	out, _, err := runZearch(t, home, "", "config",
		"--set-default-dir", dir, "--startup-mode", "help", "--exclude", "*.tmp")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "settings saved") {
		t.Errorf("config output:\n%s", out)
	}

	cfg, err := config.Load(config.ConfigPath(home))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultDirectory != dir || cfg.StartupMode != config.StartupHelp {
		t.Errorf("saved config = %+v", cfg)
	}
	if len(cfg.Excludes) != 1 || cfg.Excludes[0] != "*.tmp" {
		t.Errorf("excludes = %v", cfg.Excludes)
	}

	// add without a directory uses the new default and honours the excludes.
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "drop.tmp"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runZearch(t, home, "", "add", "def"); err != nil {
		t.Fatal(err)
	}
	out, _, err = runZearch(t, home, "", "find", "def", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "keep.txt") || strings.Contains(out, "drop.tmp") {
		t.Errorf("find output:\n%s", out)
	}
}

func TestConfig_RejectsBadValues(t *testing.T) {
	home := t.TempDir()
	if _, _, err := runZearch(t, home, "", "config", "--startup-mode", "gui"); err == nil {
		t.Error("expected error for unknown startup mode")
	}
	if _, _, err := runZearch(t, home, "", "config", "--set-default-dir", filepath.Join(home, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
	if _, _, err := runZearch(t, home, "", "config", "--exclude", "[bad"); err == nil {
		t.Error("expected error for invalid exclude pattern")
	}
	if fileExists(config.ConfigPath(home)) {
		t.Error("config.json written despite errors")
	}
}

func TestInit_CreatesLayoutOnce(t *testing.T) {
	home := filepath.Join(t.TempDir(), "zh")
	out, _, err := runZearch(t, home, "", "init")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{config.IndexDir(home), config.DataDir(home), config.ConfigPath(home)} {
		if !fileExists(p) {
			t.Errorf("%s not created", p)
		}
	}
	if !strings.Contains(out, "config.json created") {
		t.Errorf("init output:\n%s", out)
	}
	out, _, err = runZearch(t, home, "", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("second init output:\n%s", out)
	}
}

func TestDoctor_ReportsIndexes(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvFileManager, "true")
	if _, _, err := runZearch(t, home, "", "add", "docs", makeTree(t, "a")); err != nil {
		t.Fatal(err)
	}
	out, _, _ := runZearch(t, home, "", "doctor")
	for _, want := range []string{"[ Indexes ]", "[docs] 1 file(s)", "not built"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_CorruptConfigStillRuns(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(config.ConfigPath(home), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := runZearch(t, home, "q\n")
	if err != nil {
		t.Fatalf("root with corrupt config: %v", err)
	}
	if !strings.Contains(errOut, "using default settings") {
		t.Errorf("no warning on stderr:\n%s", errOut)
	}
}

func TestBadExcludesDoNotLockOut(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(config.ConfigPath(home), []byte(`{"excludes":["[bad"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, errOut, err := runZearch(t, home, "", "list")
	if err != nil {
		t.Fatalf("list with bad excludes: %v", err)
	}
	if !strings.Contains(errOut, "ignoring excludes") {
		t.Errorf("no warning on stderr:\n%s", errOut)
	}

	root := makeTree(t, "a.txt")
	if _, _, err := runZearch(t, home, "", "add", "docs", root); err != nil {
		t.Fatalf("add with bad excludes: %v", err)
	}

	_, errOut, err = runZearch(t, home, "", "doctor")
	if err == nil {
		t.Error("doctor should report the bad exclude as a failed check")
	}
	if !strings.Contains(errOut, "invalid exclude pattern") {
		t.Errorf("doctor did not report the pattern:\n%s", errOut)
	}

	if _, _, err := runZearch(t, home, "", "config", "--clear-excludes"); err != nil {
		t.Fatalf("config --clear-excludes: %v", err)
	}
	cfg, err := config.Load(config.ConfigPath(home))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Excludes) != 0 {
		t.Errorf("excludes not cleared: %v", cfg.Excludes)
	}
	_, errOut, err = runZearch(t, home, "", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(errOut, "ignoring excludes") {
		t.Errorf("warning after the excludes were cleared:\n%s", errOut)
	}
}

func TestRoot_HelpStartupMode(t *testing.T) {
	home := t.TempDir()
	cfg := config.Default()
	cfg.StartupMode = config.StartupHelp
	if err := config.Save(config.ConfigPath(home), cfg); err != nil {
		t.Fatal(err)
	}
	out, _, err := runZearch(t, home, "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Choose option") {
		t.Errorf("help mode started the menu:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runZearch(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Version:") {
		t.Errorf("version output:\n%s", out)
	}
}
