package config

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server   Server
	Workload Workload

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// A missing or empty file results in an empty configuration.
func (c *Config) Load() error {
	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Exists returns true if the configuration file exists on the filesystem.
func (c *Config) Exists() (bool, error) {
	ok, err := vfs.Exists(c.fs, c.path)
	if err != nil {
		return false, fmt.Errorf("failed checking configuration file: %w", err)
	}
	return ok, nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o644); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
	// ShutdownTimeout is the maximum amount of time in-flight requests are
	// given to complete once the server is asked to stop.
	ShutdownTimeout sql.Null[time.Duration] `json:"shutdown_timeout"`
}

// Workload defines the parameters of the synthetic workload endpoints.
type Workload struct {
	CPU    CPU
	IO     IO
	JSON   JSON
	Stream Stream
}

// CPU configures the hashing workload.
type CPU struct {
	// DefaultIterations is the number of hashes computed when the request
	// doesn't specify it.
	DefaultIterations sql.Null[int]
	// Workers is the maximum number of hashing jobs running at once.
	Workers sql.Null[int]
}

// IO configures the temporary file workload.
type IO struct {
	// Lines is the number of lines written to and read back from the file.
	Lines sql.Null[int]
	// Dir is the directory temporary files are created in.
	Dir sql.Null[string]
	// Workers is the maximum number of file round-trips running at once.
	Workers sql.Null[int]
}

// JSON configures the serialization workload.
type JSON struct {
	// Users is the number of synthetic user records in the payload.
	Users sql.Null[int]
}

// Stream configures the chunked streaming workload.
type Stream struct {
	// Chunks is the number of chunks sent per response.
	Chunks sql.Null[int]
	// Interval is the minimum delay between two consecutive chunks.
	Interval sql.Null[time.Duration]
}

type cfgWrapper struct {
	Server   srvCfgWrapper      `json:"server"`
	Workload workloadCfgWrapper `json:"workload"`
}
type srvCfgWrapper struct {
	Address         string `json:"address,omitempty"`
	ShutdownTimeout string `json:"shutdown_timeout,omitempty"`
}
type workloadCfgWrapper struct {
	CPU struct {
		DefaultIterations *int `json:"default_iterations,omitempty"`
		Workers           *int `json:"workers,omitempty"`
	} `json:"cpu"`
	IO struct {
		Lines   *int   `json:"lines,omitempty"`
		Dir     string `json:"dir,omitempty"`
		Workers *int   `json:"workers,omitempty"`
	} `json:"io"`
	JSON struct {
		Users *int `json:"users,omitempty"`
	} `json:"json"`
	Stream struct {
		Chunks   *int   `json:"chunks,omitempty"`
		Interval string `json:"interval,omitempty"`
	} `json:"stream"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}
	if c.Server.ShutdownTimeout.Valid {
		w.Server.ShutdownTimeout = c.Server.ShutdownTimeout.V.String()
	}

	wl := c.Workload
	w.Workload.CPU.DefaultIterations = nullPtr(wl.CPU.DefaultIterations)
	w.Workload.CPU.Workers = nullPtr(wl.CPU.Workers)
	w.Workload.IO.Lines = nullPtr(wl.IO.Lines)
	w.Workload.IO.Dir = nullOr(wl.IO.Dir)
	w.Workload.IO.Workers = nullPtr(wl.IO.Workers)
	w.Workload.JSON.Users = nullPtr(wl.JSON.Users)
	w.Workload.Stream.Chunks = nullPtr(wl.Stream.Chunks)
	if wl.Stream.Interval.Valid {
		w.Workload.Stream.Interval = wl.Stream.Interval.V.String()
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types and parse duration strings into time.Duration values.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}
	if w.Server.ShutdownTimeout != "" {
		dur, err := time.ParseDuration(w.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("failed parsing server shutdown timeout: %w", err)
		}
		c.Server.ShutdownTimeout = sql.Null[time.Duration]{V: dur, Valid: true}
	}

	ww := w.Workload
	var err error
	if c.Workload.CPU.DefaultIterations, err = nonNegative("cpu.default_iterations", ww.CPU.DefaultIterations); err != nil {
		return err
	}
	if c.Workload.CPU.Workers, err = nonNegative("cpu.workers", ww.CPU.Workers); err != nil {
		return err
	}
	if c.Workload.IO.Lines, err = nonNegative("io.lines", ww.IO.Lines); err != nil {
		return err
	}
	if ww.IO.Dir != "" {
		c.Workload.IO.Dir = sql.Null[string]{V: ww.IO.Dir, Valid: true}
	}
	if c.Workload.IO.Workers, err = nonNegative("io.workers", ww.IO.Workers); err != nil {
		return err
	}
	if c.Workload.JSON.Users, err = nonNegative("json.users", ww.JSON.Users); err != nil {
		return err
	}
	if c.Workload.Stream.Chunks, err = nonNegative("stream.chunks", ww.Stream.Chunks); err != nil {
		return err
	}
	if ww.Stream.Interval != "" {
		dur, err := time.ParseDuration(ww.Stream.Interval)
		if err != nil {
			return fmt.Errorf("failed parsing stream interval: %w", err)
		}
		if dur < 0 {
			return errors.New("stream interval must not be negative")
		}
		c.Workload.Stream.Interval = sql.Null[time.Duration]{V: dur, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
// The server address is deliberately left alone, since its fallback depends on
// the process environment.
func (c *Config) SetDefaults() {
	setDefault(&c.Server.ShutdownTimeout, 10*time.Second)

	setDefault(&c.Workload.CPU.DefaultIterations, 100)
	setDefault(&c.Workload.CPU.Workers, runtime.NumCPU())
	setDefault(&c.Workload.IO.Lines, 1000)
	setDefault(&c.Workload.IO.Dir, os.TempDir())
	setDefault(&c.Workload.IO.Workers, 4*runtime.NumCPU())
	setDefault(&c.Workload.JSON.Users, 1000)
	setDefault(&c.Workload.Stream.Chunks, 20)
	setDefault(&c.Workload.Stream.Interval, 100*time.Millisecond)
}

func setDefault[T any](field *sql.Null[T], v T) {
	if !field.Valid {
		*field = sql.Null[T]{V: v, Valid: true}
	}
}

func nullOr[T any](v sql.Null[T]) T {
	if v.Valid {
		return v.V
	}
	var zero T
	return zero
}

func nullPtr[T any](v sql.Null[T]) *T {
	if v.Valid {
		return &v.V
	}
	return nil
}

// nonNegative converts an optional wrapper value into a sql.Null. A missing
// key is unset, while an explicit zero is kept.
func nonNegative(key string, v *int) (sql.Null[int], error) {
	if v == nil {
		return sql.Null[int]{}, nil
	}
	if *v < 0 {
		return sql.Null[int]{}, fmt.Errorf("%s must not be negative, got %d", key, *v)
	}
	return sql.Null[int]{V: *v, Valid: true}, nil
}
