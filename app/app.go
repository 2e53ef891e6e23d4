package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/benchd/app/config"
	actx "go.hackfix.me/benchd/app/context"
	"go.hackfix.me/benchd/cli"
)

// App is the application.
type App struct {
	name           string
	ctx            *actx.Context
	cli            *cli.CLI
	configFilePath string
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Env:     actx.OSEnv{},
		Logger:  slog.Default(),
		Clock:   clockwork.NewRealClock(),
		Version: version,
	}
	app := &App{
		name:           name,
		ctx:            defaultCtx,
		configFilePath: filepath.Join(xdg.ConfigHome, name, "config.json"),
	}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(app.configFilePath, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	app.cli.SetOutput(app.ctx.Stdout, app.ctx.Stderr)
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if err := app.loadConfig(); err != nil {
		return err
	}

	app.ctx.Logger.Debug("running command",
		"command", app.cli.Command(), "config_file", app.ctx.Config.Path())

	if err := app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

func (app *App) loadConfig() error {
	cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	if err := cfg.Load(); err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}
	cfg.SetDefaults()

	app.ctx.Config = cfg
	app.cli.ApplyConfig(cfg)

	return nil
}
