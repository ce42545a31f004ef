package gateway

import (
	"mime"
	"regexp"
	"strings"

	"storage-gateway/feature/objects"
)

var validBucket = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$`)

// ValidateBucket checks bucket against the S3 naming subset accepted by the gateway.
func ValidateBucket(bucket string) error {
	if !validBucket.MatchString(bucket) {
		return &objects.Error{
			Kind:    objects.KindInvalidPayload,
			Bucket:  bucket,
			Message: "bucket must be 3-63 lowercase letters, digits or hyphens",
		}
	}
	return nil
}

// ContentTypeAllowed matches contentType against patterns. A pattern ending in "/*"
// matches every subtype; "*" and "*/*" match everything. Parameters such as
// "; charset=utf-8" are ignored.
func ContentTypeAllowed(contentType string, patterns []string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if mediaType == "" {
		return false
	}

	for _, p := range patterns {
		switch {
		case p == "*" || p == "*/*":
			return true
		case strings.HasSuffix(p, "/*"):
			if strings.HasPrefix(mediaType, strings.TrimSuffix(p, "*")) {
				return true
			}
		case p == mediaType:
			return true
		}
	}
	return false
}

func errTooLarge() error {
	return &objects.Error{Kind: objects.KindInvalidPayload, Message: "payload exceeds the maximum file size"}
}

func (h *Handler) checkUpload(contentType string, size int) error {
	if limit := h.cfg.maxFileSize(); int64(size) > limit {
		return errTooLarge()
	}
	if !ContentTypeAllowed(contentType, h.allowed) {
		return &objects.Error{Kind: objects.KindUnsupportedContentType, Message: "content type " + contentType + " is not allowed"}
	}
	return nil
}
