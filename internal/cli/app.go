package cli

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/homebase/internal/config"
	"github.com/calvinalkan/homebase/internal/household"
	"github.com/calvinalkan/homebase/internal/kv"
	"github.com/calvinalkan/homebase/internal/store"
)

// App is the state shared by the commands of one invocation (or one shell
// session): resolved config, logger, and the lazily mounted page.
type App struct {
	cfg config.Config
	env map[string]string
	in  io.Reader
	log *zap.Logger
	now func() time.Time

	// prompter is set inside the shell; add commands without flags ask
	// for each field through it.
	prompter Prompter

	kv   kv.Store
	page *household.Page
}

func newApp(cfg config.Config, env map[string]string, in io.Reader, log *zap.Logger) *App {
	return &App{cfg: cfg, env: env, in: in, log: log, now: time.Now}
}

// newLogger writes JSON lines to w at level, the way zap's production
// config does.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return zap.New(core)
}

// Page opens storage and mounts the page on first use. Modules that fail
// to mount become warnings; the rest of the page stays usable.
func (a *App) Page(ctx context.Context, o *IO) (*household.Page, error) {
	if a.page != nil {
		return a.page, nil
	}

	backing, err := kv.Open(ctx, kv.Driver(a.cfg.Backend), a.cfg.DataDirAbs, kv.Options{})
	if err != nil {
		return nil, err
	}

	page, err := household.NewPage(store.New(backing, a.log), household.PageOptions{
		Members:     a.cfg.HouseholdMembers(),
		Disabled:    a.cfg.DisabledModules,
		ThemePolicy: a.cfg.ThemeDefault,
		Now:         a.now,
		Log:         a.log,
	})
	if err != nil {
		_ = backing.Close()

		return nil, err
	}

	a.kv = backing
	a.page = page

	a.mount(ctx, o)

	return page, nil
}

// mount (re)renders the page from storage.
func (a *App) mount(ctx context.Context, o *IO) {
	if err := a.page.Mount(ctx); err != nil {
		o.Warn("some modules failed to load: "+err.Error(), "check the data directory or rerun with --verbose")
	}
}

// Close releases storage and flushes the logger.
func (a *App) Close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn("closing storage", zap.Error(err))
		}
	}

	_ = a.log.Sync()
}
