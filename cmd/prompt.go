package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// errInputClosed is returned by a prompter when input ends (EOF or Ctrl-C).
var errInputClosed = errors.New("input closed")

// prompter reads one trimmed answer per call.
type prompter interface {
	Prompt(msg string) (string, error)
	Close() error
}

// newPrompter returns a line editor with history when in is a terminal and a
// plain line reader otherwise.
func newPrompter(ctx context.Context, home string, in io.Reader) prompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newLinePrompter(home)
	}
	return newPlainPrompter(ctx, in)
}

// ── Terminal ──────────────────────────────────────────────────────────────────

type linePrompter struct {
	state   *liner.State
	history string
}

func newLinePrompter(home string) *linePrompter {
	s := liner.NewLiner()
	s.SetCtrlCAborts(true)
	p := &linePrompter{state: s, history: filepath.Join(home, "history")}
	if f, err := os.Open(p.history); err == nil {
		_, _ = s.ReadHistory(f)
		_ = f.Close()
	}
	return p
}

func (p *linePrompter) Prompt(msg string) (string, error) {
	line, err := p.state.Prompt(msg)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

func (p *linePrompter) Close() error {
	if err := os.MkdirAll(filepath.Dir(p.history), 0o755); err == nil {
		if f, err := os.Create(p.history); err == nil {
			_, _ = p.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return p.state.Close()
}

// ── Pipes and tests ───────────────────────────────────────────────────────────

// plainPrompter reads lines on a background goroutine so a cancelled context
// ends a pending prompt.
type plainPrompter struct {
	ctx    context.Context
	cancel context.CancelFunc
	in     io.Reader
	once   sync.Once
	lines  chan string
}

func newPlainPrompter(ctx context.Context, in io.Reader) *plainPrompter {
	ctx, cancel := context.WithCancel(ctx)
	return &plainPrompter{ctx: ctx, cancel: cancel, in: in, lines: make(chan string)}
}

func (p *plainPrompter) read() {
	defer close(p.lines)
	r := bufio.NewReader(p.in)
	for {
		line, err := r.ReadString('\n')
		if line != "" || err == nil {
			select {
			case p.lines <- line:
			case <-p.ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (p *plainPrompter) Prompt(msg string) (string, error) {
	fmt.Fprint(stdout, msg)
	p.once.Do(func() { go p.read() })
	select {
	case line, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(stdout)
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	case <-p.ctx.Done():
		fmt.Fprintln(stdout)
		return "", p.ctx.Err()
	}
}

func (p *plainPrompter) Close() error {
	p.cancel()
	return nil
}

// confirm asks a yes/no question; only "y" and "yes" count as yes.
func confirm(p prompter, msg string) (bool, error) {
	ans, err := p.Prompt(msg + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
