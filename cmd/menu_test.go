package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamusis/zearch/internal/config"
	"github.com/kamusis/zearch/internal/reveal"
)

type revealRecorder struct{ paths []string }

func (r *revealRecorder) launch(_ string, args ...string) error {
	r.paths = append(r.paths, args[len(args)-1])
	return nil
}

// newTestMenu builds a menu over a fresh home, reading answers from input.
func newTestMenu(t *testing.T, input string) (*menu, *bytes.Buffer, *revealRecorder) {
	t.Helper()
	var out bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &out
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })

	a, err := newApp(t.TempDir(), appOptions{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.close)
	rec := &revealRecorder{}
	a.revealer = reveal.New(reveal.WithGOOS("darwin"), reveal.WithLauncher(rec.launch))

	p := newPlainPrompter(context.Background(), strings.NewReader(input))
	t.Cleanup(func() { _ = p.Close() })
	return &menu{a: a, p: p}, &out, rec
}

func TestMenu_AddSearchOpenDelete(t *testing.T) {
	root := makeTree(t, "invoice_2023.pdf", "notes.txt")
	input := strings.Join([]string{
		"a", root, "docs", // add
		"l", "1", "2023", "1", // search and open the first result
		"d", "1", "y", "y", // delete with double confirmation
		"l", // nothing left to load
		"q",
	}, "\n") + "\n"

	m, out, rec := newTestMenu(t, input)
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Index created.", "[1] " + filepath.Join(root, "invoice_2023.pdf"), "Deleted.", "No indexes available."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if len(rec.paths) != 1 || filepath.Base(rec.paths[0]) != "invoice_2023.pdf" {
		t.Errorf("revealed %v", rec.paths)
	}
	if m.a.cfg.RecentIndex != nil {
		t.Errorf("recent index should be cleared after delete, got %q", *m.a.cfg.RecentIndex)
	}
}

func TestMenu_RecentIndexIsNotSavedImplicitly(t *testing.T) {
	root := makeTree(t, "a.txt")
	m, out, _ := newTestMenu(t, "a\n"+root+"\nx\nl\n1\nzzz\nl\n1\n\n\nq\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.a.cfg.RecentIndex == nil || *m.a.cfg.RecentIndex != "x" {
		t.Fatalf("recent index = %v, want x", m.a.cfg.RecentIndex)
	}
	if !strings.Contains(out.String(), "[1] x (recent)") {
		t.Errorf("recent index not marked:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "No matches.") {
		t.Errorf("expected no matches for zzz:\n%s", out.String())
	}
	if fileExists(m.a.cfgPath) {
		t.Error("config.json written without a settings save")
	}
}

func TestMenu_DeclinedDeleteKeepsIndex(t *testing.T) {
	root := makeTree(t, "a.txt")
	m, out, _ := newTestMenu(t, "a\n"+root+"\nkeep\nd\n1\ny\nn\nq\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !m.a.store.Exists("keep") {
		t.Error("index deleted after second confirmation was declined")
	}
	if strings.Contains(out.String(), "Deleted.") {
		t.Errorf("unexpected delete:\n%s", out.String())
	}
}

func TestMenu_ErrorsDoNotEndTheLoop(t *testing.T) {
	root := makeTree(t, "a.txt")
	input := strings.Join([]string{
		"a", root, "docs",
		"a", root, "DOCS", // collides
		"a", filepath.Join(root, "missing"),
		"l", "1", "[bad", // invalid regex
		"l", "9", // invalid selection
		"?",
		"q",
	}, "\n") + "\n"
	m, out, _ := newTestMenu(t, input)
	if err := m.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"already exists", "Invalid directory.", "invalid pattern", "Invalid selection.", "Unknown option."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMenu_UpdateReplacesContent(t *testing.T) {
	first := makeTree(t, "old.txt")
	second := makeTree(t, "new.txt")
	m, out, _ := newTestMenu(t, "a\n"+first+"\nt\nu\n1\n"+second+"\nl\n1\ntxt\n\nq\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Index updated.") || !strings.Contains(got, "new.txt") || strings.Contains(got, "old.txt") {
		t.Errorf("output:\n%s", got)
	}
}

func TestMenu_SettingsSaved(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := newTestMenu(t, "s\ny\n"+dir+"\ny\nhelp\nq\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(m.a.cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultDirectory != dir || cfg.StartupMode != config.StartupHelp {
		t.Errorf("saved settings = %+v", cfg)
	}
}

func TestMenu_EOFQuitsCleanly(t *testing.T) {
	m, _, _ := newTestMenu(t, "l\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("EOF should end the menu without error, got %v", err)
	}
}

func TestMenu_CancelledContextQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, _, _ := newTestMenu(t, "")
	m.p = newPlainPrompter(ctx, strings.NewReader("l\n"))
	if err := m.run(ctx); err != nil {
		t.Fatalf("cancelled menu returned %v", err)
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	oldOut := stdout
	stdout = &out
	defer func() { stdout = oldOut }()

	p := newPlainPrompter(context.Background(), strings.NewReader("Y\nno\n\nyes\n"))
	defer p.Close()
	for i, want := range []bool{true, false, false, true} {
		got, err := confirm(p, "ok?")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("answer %d: got %v, want %v", i, got, want)
		}
	}
	if _, err := confirm(p, "ok?"); err != errInputClosed {
		t.Errorf("after EOF: err = %v, want errInputClosed", err)
	}
}
