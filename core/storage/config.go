package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the well-known bucket probed by health checks.
	Bucket string `mapstructure:"bucket" default:"shared-assets"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PresignExpirySeconds is the default lifetime of issued download URLs.
	PresignExpirySeconds int `mapstructure:"presign_expiry_seconds" default:"900"`
	// MultipartThresholdBytes is the payload size at which uploads switch to multipart.
	// It is also used as the part size.
	MultipartThresholdBytes int64 `mapstructure:"multipart_threshold_bytes" default:"5242880"`
	// MultipartConcurrency bounds the number of parts uploaded in parallel.
	MultipartConcurrency int `mapstructure:"multipart_concurrency" default:"4"`
}
