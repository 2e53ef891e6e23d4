package cli

import (
	"fmt"

	actx "go.hackfix.me/benchd/app/context"
	aerrors "go.hackfix.me/benchd/app/errors"
)

// The Init command writes the configuration file, populated with the current
// configuration values and defaults for everything else.
type Init struct {
	Force bool `help:"Overwrite the configuration file if it already exists."`
}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config

	exists, err := cfg.Exists()
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}
	if exists && !c.Force {
		return aerrors.NewWith("configuration file already exists",
			"path", cfg.Path(), "hint", "use --force to overwrite it")
	}

	cfg.SetDefaults()
	if err = cfg.Save(); err != nil {
		return aerrors.NewWithCause("failed initializing configuration", err, "path", cfg.Path())
	}

	appCtx.Logger.Info("wrote configuration file", "path", cfg.Path())
	_, _ = fmt.Fprintln(appCtx.Stdout, cfg.Path())

	return nil
}
