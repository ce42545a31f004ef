// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework.
//
// # Context Awareness
//
// WithRayID extracts the RayID (request id) from a Fiber context and attaches it to the
// log entry, so every line of one gateway request can be correlated. ForObject and
// Elapsed give storage operations a uniform operation/bucket/key/duration_ms shape.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.ForObject(log, "upload", bucket, key)
//	l.Error("Upload failed", zap.Error(err), logger.Elapsed(start))
package logger
