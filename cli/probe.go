package cli

import (
	"context"
	"fmt"
	"time"

	actx "go.hackfix.me/benchd/app/context"
	aerrors "go.hackfix.me/benchd/app/errors"
	"go.hackfix.me/benchd/web/client"
)

// Probe checks the liveness endpoint of a running server, and fails unless it
// responds with "ok". It's meant to be used as a container health check.
type Probe struct {
	//nolint:lll // Long struct tags are unavoidable.
	Address string        `arg:"" optional:"" help:"[host]:port or URL of the server. Resolved the same way as the serve address."`
	Timeout time.Duration `default:"5s" help:"Maximum time to wait for a response."`
}

// Run the probe command.
func (c *Probe) Run(appCtx *actx.Context) error {
	addr := c.Address
	if addr == "" {
		addr = envAddress(appCtx.Env)
	}

	clt, err := client.New(addr, appCtx.Logger)
	if err != nil {
		return err //nolint:wrapcheck // Already a structured error.
	}

	ctx, cancel := context.WithTimeout(appCtx.Ctx, c.Timeout)
	defer cancel()

	body, err := clt.Health(ctx)
	if err != nil {
		return aerrors.WithCause(fmt.Errorf("server at %s is not healthy", clt.BaseURL()), err)
	}
	if body != "ok" {
		return aerrors.NewWith("unexpected health response", "url", clt.BaseURL(), "body", body)
	}

	_, _ = fmt.Fprintf(appCtx.Stdout, "%s ok\n", clt.BaseURL())

	return nil
}
