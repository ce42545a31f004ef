package gateway

import "strings"

// Config holds the admission-control settings of the gateway.
type Config struct {
	// MaxFileSizeBytes rejects larger upload payloads before any backend call.
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes" default:"52428800"`
	// AllowedContentTypes is a comma separated allow-list; "image/*" matches any image type.
	AllowedContentTypes string `mapstructure:"allowed_content_types" default:"image/*,video/*,audio/*,application/pdf,application/zip,application/json,text/plain,text/csv"`
	// MetricsNamespace prefixes the Prometheus metrics.
	MetricsNamespace string `mapstructure:"metrics_namespace" default:"storage_gateway"`
}

// DefaultMaxFileSize applies when MaxFileSizeBytes is unset.
const DefaultMaxFileSize int64 = 50 << 20

// allowList splits AllowedContentTypes into lowercased patterns.
func (c Config) allowList() []string {
	var out []string
	for _, p := range strings.Split(c.AllowedContentTypes, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) maxFileSize() int64 {
	if c.MaxFileSizeBytes > 0 {
		return c.MaxFileSizeBytes
	}
	return DefaultMaxFileSize
}
