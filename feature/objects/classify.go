package objects

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/minio/minio-go/v7"
)

// isConnectionError reports transport-level failures (DNS, refused, reset, timeouts).
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket")
}

func isNoSuchBucket(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchBucket"
}

func isBucketAlreadyOwned(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return true
	default:
		return false
	}
}

// backendError wraps a backend failure, preferring BackendUnavailable for connection errors.
func backendError(op, bucket, key string, err error, fallback Kind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind := fallback
	switch {
	case isConnectionError(err):
		kind = KindBackendUnavailable
	case isNoSuchBucket(err):
		kind = KindBucketNotFound
	}
	return &Error{Kind: kind, Op: op, Bucket: bucket, Key: key, Err: err}
}
