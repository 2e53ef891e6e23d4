package context

import "os"

// Environment is the interface to the process environment.
type Environment interface {
	// Get returns the value of the variable, or an empty string if it's unset.
	Get(string) string
	Set(string, string) error
}

// OSEnv is the Environment backed by the real process environment.
type OSEnv struct{}

var _ Environment = OSEnv{}

// Get implements Environment.
func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// Set implements Environment.
func (OSEnv) Set(key, val string) error {
	return os.Setenv(key, val)
}
