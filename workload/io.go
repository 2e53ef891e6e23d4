package workload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// FileRoundTrip writes generated lines to a temporary file, reads them back
// and removes the file.
type FileRoundTrip struct {
	FS    vfs.FileSystem
	Dir   string
	Lines int
}

// Path returns the path of the temporary file used by the round-trip with the
// given ID.
func (rt FileRoundTrip) Path(id string) string {
	return filepath.Join(rt.Dir, fmt.Sprintf("benchd-io-%s.txt", id))
}

// Run performs the round-trip and returns the number of lines read back. The
// id must be unique among concurrent calls, since it's part of the file name.
// The file is removed on every return path.
func (rt FileRoundTrip) Run(ctx context.Context, id string) (n int, rerr error) {
	if err := ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck // Context errors are passed through.
	}

	path := rt.Path(id)
	f, err := rt.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed creating temporary file: %w", err)
	}
	defer func() {
		if err := rt.FS.Remove(path); err != nil {
			n = 0
			rerr = errors.Join(rerr, fmt.Errorf("failed removing temporary file: %w", err))
		}
	}()

	if err = writeLines(f, rt.Lines); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed writing temporary file: %w", err)
	}
	if err = f.Close(); err != nil {
		return 0, fmt.Errorf("failed closing temporary file: %w", err)
	}

	rf, err := rt.FS.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed opening temporary file: %w", err)
	}
	defer rf.Close()

	scanner := bufio.NewScanner(rf)
	for scanner.Scan() {
		n++
	}
	if err = scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed reading temporary file: %w", err)
	}

	return n, nil
}

func writeLines(w io.Writer, lines int) error {
	bw := bufio.NewWriter(w)
	for i := 1; i <= lines; i++ {
		if _, err := fmt.Fprintf(bw, "line %d\n", i); err != nil {
			return err //nolint:wrapcheck // Wrapped by the caller.
		}
	}

	return bw.Flush() //nolint:wrapcheck // Wrapped by the caller.
}
