package app

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/benchd/web/client"
)

// newTestFS returns an in-memory filesystem with a /tmp directory and, if
// configJSON isn't empty, a /config.json file.
func newTestFS(t *testing.T, configJSON string) vfs.FileSystem {
	t.Helper()

	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll("/tmp", 0o755))
	if configJSON != "" {
		require.NoError(t, vfs.WriteFile(fs, "/config.json", []byte(configJSON), 0o644))
	}

	return fs
}

func TestAppRoutes(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 5*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, nil)
	h(assert.NoError(t, err))

	err = tapp.Run("routes")
	h(assert.NoError(t, err))

	out := tapp.stdout.String()
	for _, want := range []string{
		"/health", "Liveness check", "/cpu", "/io", "/json", "/stream", "/metrics", "GET",
	} {
		assert.Contains(t, out, want)
	}
}

func TestAppInit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		config    string
		args      []string
		expErr    string
		expUsers  float64
		expChunks float64
	}{
		{
			name:      "ok/new",
			args:      []string{"init"},
			expUsers:  1000,
			expChunks: 20,
		},
		{
			name:      "ok/force_keeps_values",
			config:    `{"workload": {"json": {"users": 5}}}`,
			args:      []string{"init", "--force"},
			expUsers:  5,
			expChunks: 20,
		},
		{
			name:   "err/exists",
			config: `{}`,
			args:   []string{"init"},
			expErr: "configuration file already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel, h := newTestContext(t, 5*time.Second)
			defer cancel()

			tapp, err := newTestApp(ctx, newTestFS(t, tt.config))
			h(assert.NoError(t, err))

			err = tapp.Run(tt.args...)
			if tt.expErr != "" {
				assert.ErrorContains(t, err, tt.expErr)
				return
			}
			h(assert.NoError(t, err))
			assert.Contains(t, tapp.stdout.String(), "/config.json")
			assert.Contains(t, tapp.stderr.String(), "wrote configuration file")

			data, err := vfs.ReadFile(tapp.fs, "/config.json")
			h(assert.NoError(t, err))

			var got struct {
				Server   map[string]any `json:"server"`
				Workload struct {
					JSON   map[string]any `json:"json"`
					Stream map[string]any `json:"stream"`
				} `json:"workload"`
			}
			h(assert.NoError(t, json.Unmarshal(data, &got)))
			assert.Equal(t, "10s", got.Server["shutdown_timeout"])
			assert.NotContains(t, got.Server, "address")
			assert.Equal(t, tt.expUsers, got.Workload.JSON["users"])
			assert.Equal(t, tt.expChunks, got.Workload.Stream["chunks"])
			assert.Equal(t, "100ms", got.Workload.Stream["interval"])
		})
	}
}

func TestAppInvalidConfig(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 5*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, newTestFS(t, `{"workload": `))
	h(assert.NoError(t, err))

	err = tapp.Run("routes")
	assert.ErrorContains(t, err, "failed parsing configuration file")
}

func TestAppLogLevel(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 5*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, nil)
	h(assert.NoError(t, err))

	err = tapp.Run("--log-level", "DEBUG", "routes")
	h(assert.NoError(t, err))

	stderr := tapp.stderr.String()
	assert.Contains(t, stderr, "running command")
	assert.Contains(t, stderr, "command=routes")
	assert.Contains(t, stderr, "config_file=/config.json")
}

func TestAppProbeUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 10*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, nil)
	h(assert.NoError(t, err))

	err = tapp.Run("probe", "--timeout", "1s", "127.0.0.1:1")
	assert.ErrorContains(t, err, "server at http://127.0.0.1:1 is not healthy")
}

const serveConfig = `{
	"server": {"shutdown_timeout": "200ms"},
	"workload": {
		"io": {"dir": "/tmp", "lines": 50},
		"json": {"users": 20},
		"stream": {"chunks": 3, "interval": "10ms"}
	}
}`

// startServer runs the serve command in the background and returns the
// address it listens on, and a channel that receives the command result.
func startServer(t *testing.T, tapp *testApp, h func(bool), args ...string) (string, <-chan error) {
	t.Helper()

	addrCh := make(chan string)
	tapp.stderr.waitFor(`address=(\S+)`, 1, addrCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- tapp.Run(append([]string{"serve"}, args...)...)
	}()

	select {
	case addr := <-addrCh:
		return addr, errCh
	case err := <-errCh:
		h(assert.NoError(t, err))
	case <-time.After(5 * time.Second):
		h(assert.Fail(t, "timed out waiting for the server to start"))
	}

	return "", errCh
}

func waitServerDone(t *testing.T, errCh <-chan error) error {
	t.Helper()

	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the server to stop")
	}

	return nil
}

func TestAppServe(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 10*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, newTestFS(t, serveConfig))
	h(assert.NoError(t, err))

	addr, errCh := startServer(t, tapp, h, "127.0.0.1:0")

	clt, err := client.New(addr, slog.New(slog.DiscardHandler))
	h(assert.NoError(t, err))

	health, err := clt.Health(t.Context())
	h(assert.NoError(t, err))
	assert.Equal(t, "ok", health)

	cpu, err := clt.CPU(t.Context(), 5)
	h(assert.NoError(t, err))
	assert.Equal(t, "Completed 5 SHA256 hashes", cpu.Message)

	io, err := clt.IO(t.Context())
	h(assert.NoError(t, err))
	assert.Equal(t, 50, io.LinesWritten)
	entries, err := vfs.ReadDir(tapp.fs, "/tmp")
	h(assert.NoError(t, err))
	assert.Empty(t, entries)

	doc, err := clt.JSON(t.Context())
	h(assert.NoError(t, err))
	assert.Len(t, doc["users"], 20)

	var chunks []string
	n, err := clt.Stream(t.Context(), func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	h(assert.NoError(t, err))
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"chunk 1", "chunk 2", "chunk 3"}, chunks)

	papp, err := newTestApp(ctx, nil)
	h(assert.NoError(t, err))
	err = papp.Run("probe", addr)
	h(assert.NoError(t, err))
	assert.Contains(t, papp.stdout.String(), "ok")

	cancel()
	err = waitServerDone(t, errCh)
	assert.NoError(t, err)

	stderr := tapp.stderr.String()
	assert.Contains(t, stderr, "shutting down web server")
	assert.Contains(t, stderr, "GET /cpu?iterations=5")
	assert.Contains(t, stderr, "response_code=200")
}

func TestAppServeEnvAddress(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 10*time.Second)
	defer cancel()

	tapp, err := newTestApp(ctx, nil)
	h(assert.NoError(t, err))
	h(assert.NoError(t, tapp.env.Set("HOST", "127.0.0.1")))
	h(assert.NoError(t, tapp.env.Set("PORT", "0")))

	addr, errCh := startServer(t, tapp, h)
	assert.Regexp(t, `^127\.0\.0\.1:\d+$`, addr)

	cancel()
	assert.NoError(t, waitServerDone(t, errCh))
}

func TestAppServeShutdownTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel, h := newTestContext(t, 10*time.Second)
	defer cancel()

	cfg := `{"server": {"shutdown_timeout": "100ms"}, "workload": {"stream": {"chunks": 2, "interval": "1h"}}}`
	tapp, err := newTestApp(ctx, newTestFS(t, cfg))
	h(assert.NoError(t, err))

	addr, errCh := startServer(t, tapp, h, "127.0.0.1:0")

	clt, err := client.New(addr, slog.New(slog.DiscardHandler))
	h(assert.NoError(t, err))

	firstChunk := make(chan struct{})
	streamDone := make(chan int, 1)
	go func() {
		n, _ := clt.Stream(t.Context(), func(string) error {
			close(firstChunk)
			return nil
		})
		streamDone <- n
	}()

	select {
	case <-firstChunk:
	case <-time.After(5 * time.Second):
		h(assert.Fail(t, "timed out waiting for the first chunk"))
	}

	start := time.Now()
	cancel()
	assert.NoError(t, waitServerDone(t, errCh))
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case n := <-streamDone:
		assert.Equal(t, 1, n)
	case <-time.After(5 * time.Second):
		t.Fatal("stream wasn't aborted")
	}
	assert.Contains(t, tapp.stderr.String(), "shutdown timeout reached")
}
