package thumbnails

import (
	"fmt"
	"strings"

	"storage-gateway/feature/objects"
)

const originalSegment = "/original/"

// Path derives the key of a rendition: the /original/ segment and everything after it
// become /thumbnails/{w}x{h}.jpg. Paths without the segment are rejected so a rendition
// can never overwrite its source object.
func Path(originalPath string, width, height int) (string, error) {
	idx := strings.Index(originalPath, originalSegment)
	if idx < 0 {
		return "", &objects.Error{
			Kind:    objects.KindInvalidKey,
			Op:      "thumbnails",
			Key:     originalPath,
			Message: "path has no /original/ segment",
		}
	}
	return fmt.Sprintf("%s/thumbnails/%dx%d.jpg", originalPath[:idx], width, height), nil
}
