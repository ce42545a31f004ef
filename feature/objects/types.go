package objects

import "time"

// StorageObject describes one stored object. Identity is (Bucket, Key).
type StorageObject struct {
	Bucket       string            `json:"bucket"`
	Key          string            `json:"key"`
	SizeBytes    uint64            `json:"sizeBytes"`
	ContentType  string            `json:"contentType,omitempty"`
	ETag         string            `json:"etag"`
	LastModified time.Time         `json:"lastModified"`
	ChecksumMD5  string            `json:"checksumMd5,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// UploadResult summarizes a completed upload. It is not persisted.
type UploadResult struct {
	Key         string         `json:"key"`
	Bucket      string         `json:"bucket"`
	URL         string         `json:"url"`
	SizeBytes   uint64         `json:"sizeBytes"`
	ETag        string         `json:"etag"`
	ContentType string         `json:"contentType"`
	ChecksumMD5 string         `json:"checksumMd5"`
	Metadata    UploadMetadata `json:"metadata"`
	Multipart   bool           `json:"multipart"`
}

// ListOptions controls one page of ListFiles.
type ListOptions struct {
	Prefix string
	// Limit bounds the page size. Zero means DefaultListLimit.
	Limit int
	// Marker is the first key of the page, as returned in ListResult.NextMarker.
	Marker string
}

// ListResult is one page of objects in lexicographic key order.
type ListResult struct {
	Files      []StorageObject `json:"files"`
	NextMarker string          `json:"nextMarker,omitempty"`
	Truncated  bool            `json:"truncated"`
	Count      int             `json:"count"`
}

// FileURL is a presigned download URL.
type FileURL struct {
	URL       string    `json:"url"`
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Success   bool      `json:"success"`
	DeletedAt time.Time `json:"deletedAt"`
}

// HealthStatus is produced fresh by every CheckHealth call.
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	LatencyMs uint64    `json:"latencyMs"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
