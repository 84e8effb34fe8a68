// Package media coordinates the indirect upload flow and resolves playback URLs
// for stored video records.
package media

import (
	"path"
	"strings"
)

// thumbnailSuffix ties upload-time thumbnail naming to read-time resolution.
// Both sides must go through ThumbnailName; the convention lives nowhere else.
const thumbnailSuffix = "-thumb.jpg"

// ThumbnailName derives the companion thumbnail blob name for a primary blob:
// the file extension is stripped and a fixed suffix appended, so "abc.mp4"
// becomes "abc-thumb.jpg".
func ThumbnailName(blobName string) string {
	if blobName == "" {
		return ""
	}
	ext := path.Ext(blobName)
	return strings.TrimSuffix(blobName, ext) + thumbnailSuffix
}
