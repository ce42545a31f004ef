package objects

import (
	"regexp"
	"strings"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9\-_/.]+$`)

// ValidateKey checks key against the allowed character set.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) {
		return &Error{Kind: KindInvalidKey, Key: key, Message: "key may only contain letters, digits, '-', '_', '/' and '.'"}
	}
	return nil
}

// validateContentType only requires a non-empty value; allow-lists are enforced by the gateway.
func validateContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return &Error{Kind: KindUnsupportedContentType, Message: "content type is required"}
	}
	return nil
}
