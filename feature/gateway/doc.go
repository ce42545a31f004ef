// Package gateway exposes the storage operations behind a single dispatch entry point
// keyed by operation name (upload, list, getUrl, delete, stat, health).
//
// The Handler decorates the canonical objects contract with admission control: bucket
// names are validated, upload payloads are size-limited and matched against a
// content-type allow-list that accepts wildcard subtypes such as "image/*". Every call
// is logged, measured through an Observer and, when a Recorder is configured, audited.
//
// # HTTP
//
//	POST /gateway/:operation     JSON parameter bag, returns a Response envelope
//	GET  /gateway/capabilities   operation catalogue
//	GET  /health                 backend health, 503 when unreachable
//
// Status codes follow the error kind: validation 400 (415 for content types),
// missing bucket or object 404, unreachable backend 503, anything else 500.
package gateway
