// Package thumbnails generates best-effort JPEG renditions of uploaded images.
//
// Each configured size is rendered and uploaded independently with a fixed-delay retry.
// A failing size is logged and skipped; it never fails the upload that triggered it.
// The image engine is a Resizer detected once at start-up, and an unavailable engine
// turns Generate into a logged no-op.
//
// Renditions live next to the original:
//
//	shared-assets/original/photo.png -> shared-assets/thumbnails/200x200.jpg
package thumbnails
