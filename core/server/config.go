package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitBytes caps request bodies. Base64 inflates payloads by a third, so it
	// must exceed gateway.max_file_size_bytes.
	BodyLimitBytes int `mapstructure:"body_limit_bytes" default:"73400320"`
}

// Addr returns the listen address for Port, accepting "8080" or ":8080".
func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
