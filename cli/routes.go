package cli

import (
	"fmt"

	actx "go.hackfix.me/benchd/app/context"
	"go.hackfix.me/benchd/web/server/api"
)

// Routes prints the table of HTTP endpoints.
type Routes struct{}

// Run the routes command.
func (c *Routes) Run(appCtx *actx.Context) error {
	routes := api.Routes()
	data := make([][]string, 0, len(routes))
	for _, rt := range routes {
		data = append(data, []string{rt.Method, rt.Path, rt.Description})
	}

	if err := renderTable([]string{"Method", "Path", "Description"}, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering routes table: %w", err)
	}

	return nil
}
