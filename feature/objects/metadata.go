package objects

import (
	"strings"

	"github.com/minio/minio-go/v7"
)

// Object metadata names as stored on the backend.
const (
	MetaUploadedBy       = "uploaded-by"
	MetaEntityScope      = "entity-scope"
	MetaOriginalFilename = "original-filename"
	MetaChecksum         = "md5-checksum"
)

// Defaults written when the caller leaves a metadata value empty.
const (
	DefaultUploadedBy       = "unknown"
	DefaultEntityScope      = "shared"
	DefaultOriginalFilename = "unknown"
)

// UploadMetadata is the caller-supplied metadata echoed in UploadResult.
type UploadMetadata struct {
	UploadedBy       string `json:"uploadedBy"`
	EntityScope      string `json:"entityScope"`
	OriginalFilename string `json:"originalFilename"`
}

// Normalize fills defaults and strips characters that are not safe in HTTP header values.
func (m UploadMetadata) Normalize() UploadMetadata {
	return UploadMetadata{
		UploadedBy:       orDefault(sanitize(m.UploadedBy), DefaultUploadedBy),
		EntityScope:      orDefault(sanitize(m.EntityScope), DefaultEntityScope),
		OriginalFilename: orDefault(sanitize(m.OriginalFilename), DefaultOriginalFilename),
	}
}

// userMetadata returns the full key set written alongside every object.
func (m UploadMetadata) userMetadata(checksum string) map[string]string {
	n := m.Normalize()
	return map[string]string{
		MetaUploadedBy:       n.UploadedBy,
		MetaEntityScope:      n.EntityScope,
		MetaOriginalFilename: n.OriginalFilename,
		MetaChecksum:         checksum,
	}
}

// sanitize keeps printable ASCII only.
func sanitize(v string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(v) {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// metadataFromInfo lowercases the user metadata keys reported by the backend.
// minio-go canonicalizes header names, so "md5-checksum" comes back as "Md5-Checksum".
func metadataFromInfo(info minio.ObjectInfo) map[string]string {
	if len(info.UserMetadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		out[strings.ToLower(strings.TrimPrefix(k, "X-Amz-Meta-"))] = v
	}
	return out
}
