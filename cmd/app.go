package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	edlib "github.com/hbollon/go-edlib"

	"github.com/kamusis/zearch/internal/config"
	"github.com/kamusis/zearch/internal/drive"
	"github.com/kamusis/zearch/internal/index"
	"github.com/kamusis/zearch/internal/logging"
	"github.com/kamusis/zearch/internal/reveal"
	"github.com/kamusis/zearch/internal/search"
	"github.com/kamusis/zearch/internal/walk"
)

// app holds everything one invocation needs. It is built once per process and
// passed explicitly; nothing below cmd reads globals.
type app struct {
	home    string
	cfgPath string
	cfg     *config.Config

	logger   *slog.Logger
	walker   *walk.Walker
	store    *index.Store
	drive    *drive.Index
	revealer *reveal.Revealer

	cleanup func()
}

type appOptions struct {
	debug    bool
	logLevel string
}

func newApp(home string, opts appOptions) (*app, error) {
	logCfg := logging.DefaultConfig()
	if lvl := config.Lookup(home, config.EnvLogLevel); lvl != "" {
		logCfg.Level = lvl
	}
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.debug {
		logCfg.Level = "debug"
		logCfg.FilePath = logging.DefaultLogPath(home)
	}
	logCfg.Stderr = stderr
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, err
	}

	cfgPath := config.ConfigPath(home)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Corrupt settings never stop the tool.
		logger.Warn("using default settings", slog.String("error", err.Error()))
	}

	a := &app{
		home:    home,
		cfgPath: cfgPath,
		cfg:     cfg,
		logger:  logger,
		cleanup: cleanup,
	}
	if err := a.rebuild(); err != nil {
		if !errors.Is(err, walk.ErrBadPattern) {
			cleanup()
			return nil, err
		}
		// Walk without excludes; the bad list stays in cfg so 'config
		// --clear-excludes' and 'doctor' can still see and fix it.
		logger.Warn("ignoring excludes", slog.String("error", err.Error()))
		w, _ := walk.New(walk.Options{}, logger)
		if err := a.install(w); err != nil {
			cleanup()
			return nil, err
		}
	}

	var revealOpts []reveal.Option
	if fm := config.Lookup(home, config.EnvFileManager); fm != "" {
		revealOpts = append(revealOpts, reveal.WithCommand(fm))
	}
	a.revealer = reveal.New(revealOpts...)
	return a, nil
}

// rebuild recreates the walker and stores from the current settings.
func (a *app) rebuild() error {
	w, err := walk.New(walk.Options{Excludes: a.cfg.Excludes}, a.logger)
	if err != nil {
		return fmt.Errorf("invalid excludes in %s: %w", a.cfgPath, err)
	}
	return a.install(w)
}

// install swaps in w and the stores built on it.
func (a *app) install(w *walk.Walker) error {
	store, err := index.New(config.IndexDir(a.home), w, a.logger)
	if err != nil {
		return err
	}
	a.walker = w
	a.store = store
	a.drive = drive.New(config.DataDir(a.home), w, a.logger)
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// saveConfig persists the in-memory settings. Only explicit user edits call it.
func (a *app) saveConfig() error {
	return config.Save(a.cfgPath, a.cfg)
}

// resolveDir returns dir, or the configured default directory when dir is
// empty.
func (a *app) resolveDir(dir string) (string, error) {
	if dir == "" {
		dir = a.cfg.DefaultDirectory
	}
	return config.ExpandPath(dir)
}

// find runs a general search over the named index.
func (a *app) find(ctx context.Context, name string, q search.Query) (*search.Result, error) {
	if !a.store.Exists(name) {
		return nil, a.notFound(name)
	}
	return search.Search(ctx, a.store.PathFor(name), q)
}

// notFound builds an ErrNotFound error with a "did you mean" hint when an
// existing index name is close to name.
func (a *app) notFound(name string) error {
	err := fmt.Errorf("%w: %q", index.ErrNotFound, name)
	if s := a.suggest(name); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}

func (a *app) suggest(name string) string {
	names, err := a.store.List()
	if err != nil || len(names) == 0 {
		return ""
	}
	key := index.Sanitize(name)
	best := ""
	var bestScore float32
	for _, n := range names {
		score, err := edlib.StringsSimilarity(key, n, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = n, score
		}
	}
	if bestScore < 0.5 {
		return ""
	}
	return best
}

// describeError turns core errors into the message shown to the user. Most
// core errors already read well; only the drive tool's missing index and
// interrupts get their own wording.
func describeError(err error) string {
	switch {
	case errors.Is(err, drive.ErrNoIndex):
		return "Index not found. Run 'zearch index' first."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	default:
		return err.Error()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
