package gateway

import (
	"encoding/base64"
	"fmt"
	"strings"

	"storage-gateway/core/utils"
	"storage-gateway/feature/objects"
)

// Params is the flat parameter bag of one dispatched call.
type Params map[string]any

// String returns the string parameter name, or "".
func (p Params) String(name string) string {
	s, _ := utils.String(p[name])
	return strings.TrimSpace(s)
}

// Int returns the integer parameter name. ok is false when it is absent; a present
// but non-numeric value is an ErrInvalidPayload.
func (p Params) Int(name string) (int, bool, error) {
	v, present := p[name]
	if !present || v == nil {
		return 0, false, nil
	}
	i, ok := utils.Int(v)
	if !ok {
		return 0, false, invalidPayload("%s must be an integer", name)
	}
	return i, true, nil
}

// Bool returns the boolean parameter name.
func (p Params) Bool(name string) bool {
	return utils.Bool(p[name])
}

// Require returns the string parameter name or an ErrInvalidPayload when it is empty.
func (p Params) Require(name string) (string, error) {
	s := p.String(name)
	if s == "" {
		return "", invalidPayload("%s is required", name)
	}
	return s, nil
}

// Data returns the upload payload. JSON transports carry base64 text; in-process
// callers may pass raw bytes. Base64 text whose decoded size would exceed limit is
// rejected before decoding; a non-positive limit disables the check.
func (p Params) Data(limit int64) ([]byte, error) {
	switch v := p["data"].(type) {
	case []byte:
		if len(v) == 0 {
			return nil, invalidPayload("data is required")
		}
		return v, nil
	case string:
		if v == "" {
			return nil, invalidPayload("data is required")
		}
		// Tolerate data URLs ("data:image/png;base64,....").
		if _, after, ok := strings.Cut(v, ";base64,"); ok && strings.HasPrefix(v, "data:") {
			v = after
		}
		if limit > 0 && decodedLen(v) > limit {
			return nil, errTooLarge()
		}
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, &objects.Error{Kind: objects.KindInvalidPayload, Message: "data is not valid base64", Err: err}
		}
		return data, nil
	case nil:
		return nil, invalidPayload("data is required")
	default:
		return nil, invalidPayload("data must be base64 text, got %T", v)
	}
}

// decodedLen is the exact decoded size of padded base64 text.
func decodedLen(v string) int64 {
	n := base64.StdEncoding.DecodedLen(len(v))
	return int64(n - strings.Count(v[max(len(v)-2, 0):], "="))
}

func invalidPayload(format string, args ...any) error {
	return &objects.Error{Kind: objects.KindInvalidPayload, Message: fmt.Sprintf(format, args...)}
}
