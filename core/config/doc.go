// Package config provides configuration management for the storage gateway.
//
// It uses Viper to read environment variables, optionally seeded from a .env file.
// Defaults live on the partial configuration structs as `default` tags.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and body limit
//   - Storage: S3/MinIO endpoint, credentials, health bucket, presign expiry, multipart tuning
//   - Log: level and format
//   - Database: optional audit database (sqlite or mysql)
//   - Thumbnail: rendition sizes, retries and JPEG quality
//   - Gateway: payload size limit, content-type allow-list, metrics namespace
//
// Keys map to environment variables by upper-casing and replacing dots with
// underscores, e.g. storage.multipart_threshold_bytes is STORAGE_MULTIPART_THRESHOLD_BYTES.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
