// Package middleware groups the HTTP middleware used by the gateway server.
//
//   - auth: API key check (X-API-Key or Bearer token), skipped for public paths.
//   - rayid: per-request trace id, stored in Locals, the response header and the
//     request context so audit entries can carry it.
//
// rayid is registered first so every later log line has the id.
package middleware
