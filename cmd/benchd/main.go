package main

import (
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/benchd/app"
	actx "go.hackfix.me/benchd/app/context"
	aerrors "go.hackfix.me/benchd/app/errors"
)

func main() {
	a, err := app.New("benchd",
		app.WithClock(clockwork.NewRealClock()),
		app.WithEnv(actx.OSEnv{}),
		app.WithFDs(
			os.Stdin,
			colorable.NewColorable(os.Stdout),
			colorable.NewColorable(os.Stderr),
		),
		app.WithFS(osfs.New()),
		app.WithLogger(isatty.IsTerminal(os.Stderr.Fd())),
	)
	if err != nil {
		aerrors.Log(nil, err)
		os.Exit(1)
	}
	if err = a.Run(os.Args[1:]); err != nil {
		aerrors.Log(nil, err)
		os.Exit(1)
	}
}
