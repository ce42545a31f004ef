package objects

import (
	"errors"
	"fmt"
)

// Kind classifies storage failures.
type Kind string

const (
	KindInvalidKey             Kind = "INVALID_KEY"
	KindInvalidPayload         Kind = "INVALID_PAYLOAD"
	KindUnsupportedContentType Kind = "UNSUPPORTED_CONTENT_TYPE"
	KindBucketNotFound         Kind = "BUCKET_NOT_FOUND"
	KindObjectNotFound         Kind = "OBJECT_NOT_FOUND"
	KindBackendUnavailable     Kind = "BACKEND_UNAVAILABLE"
	KindUploadFailed           Kind = "UPLOAD_FAILED"
	KindThumbnailSkipped       Kind = "THUMBNAIL_GENERATION_SKIPPED"
	KindBackend                Kind = "BACKEND_ERROR"
)

// Error is the error type returned by every storage operation.
type Error struct {
	Kind    Kind
	Op      string
	Bucket  string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s]", e.Kind)
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.Bucket != "" || e.Key != "" {
		msg += fmt.Sprintf(" %s/%s", e.Bucket, e.Key)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so sentinels match with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidKey             = &Error{Kind: KindInvalidKey}
	ErrInvalidPayload         = &Error{Kind: KindInvalidPayload}
	ErrUnsupportedContentType = &Error{Kind: KindUnsupportedContentType}
	ErrBucketNotFound         = &Error{Kind: KindBucketNotFound}
	ErrObjectNotFound         = &Error{Kind: KindObjectNotFound}
	ErrBackendUnavailable     = &Error{Kind: KindBackendUnavailable}
	ErrUploadFailed           = &Error{Kind: KindUploadFailed}
	ErrThumbnailSkipped       = &Error{Kind: KindThumbnailSkipped}
	ErrBackend                = &Error{Kind: KindBackend}
)

// KindOf returns the Kind of err, or an empty Kind if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err was raised by input validation and must not be retried.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindInvalidKey, KindInvalidPayload, KindUnsupportedContentType:
		return true
	default:
		return false
	}
}
