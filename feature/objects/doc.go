// Package objects is the canonical storage contract of the gateway.
//
// Service implements the primitive operations against the S3-compatible backend
// reached through core/storage.Client:
//
//   - UploadFile: validates the key, ensures the bucket, computes an MD5 checksum over the
//     exact bytes sent, picks a simple PUT or a multipart upload by size, attaches the
//     normalized metadata set and returns a presigned download URL.
//   - ListFiles: one lexicographic page with an inclusive continuation marker.
//   - GetFileURL / DeleteFile / StatFile: existence-checked object access.
//   - CheckHealth: backend reachability probe.
//
// # Upload strategy
//
// Payloads below storage.multipart_threshold_bytes (5 MiB by default) are sent with one
// PutObject. Larger payloads are split into threshold-sized parts uploaded by a bounded
// errgroup; any failed part aborts the multipart upload.
//
// # Errors
//
// Every failure is an *Error carrying a Kind. Sentinels such as ErrObjectNotFound match
// with errors.Is. Validation kinds (InvalidKey, InvalidPayload, UnsupportedContentType)
// are raised before any backend call.
package objects
