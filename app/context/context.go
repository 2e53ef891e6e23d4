package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/benchd/app/config"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx    context.Context // global context
	FS     vfs.FileSystem  // filesystem
	Env    Environment     // process environment
	Logger *slog.Logger    // global logger
	Clock  clockwork.Clock // time source for timers and timestamps
	Config *config.Config

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Metadata
	Version *VersionInfo
}
