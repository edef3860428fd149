package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ImportTimeoutSeconds bounds one import triggered over HTTP.
	ImportTimeoutSeconds int `mapstructure:"import_timeout_seconds" default:"300"`
}

// ImportTimeout returns the import deadline, defaulting to five minutes.
func (c Config) ImportTimeout() time.Duration {
	if c.ImportTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ImportTimeoutSeconds) * time.Second
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}
