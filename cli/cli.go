package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/benchd/app/config"
	actx "go.hackfix.me/benchd/app/context"
)

// CLI is the command line interface of benchd.
type CLI struct {
	Serve  Serve  `kong:"cmd,help='Start the web server.'"`
	Init   Init   `kong:"cmd,help='Write a configuration file populated with default values.'"`
	Routes Routes `kong:"cmd,help='List the HTTP endpoints served by the web server.'"`
	Probe  Probe  `kong:"cmd,help='Check that a running web server is alive.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: kong.ConfigFlag isn't used, since configuration is managed
	// independently from the CLI.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the benchd configuration file.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(configFilePath, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("benchd"),
		kong.Description("HTTP server exposing synthetic workloads for benchmarking."),
		kong.UsageOnError(),
		kong.DefaultEnvars("BENCHD"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile": configFilePath,
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// SetOutput sets the writers used for help, version and usage output. It
// should be called before Parse.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.kong.Stdout = stdout
	c.kong.Stderr = stderr
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if cfg.Server.Address.Valid {
		if c.Serve.Address == "" {
			c.Serve.Address = cfg.Server.Address.V
		}
		if c.Probe.Address == "" {
			c.Probe.Address = cfg.Server.Address.V
		}
	}
	if c.Serve.ShutdownTimeout == 0 && cfg.Server.ShutdownTimeout.Valid {
		c.Serve.ShutdownTimeout = cfg.Server.ShutdownTimeout.V
	}
}
