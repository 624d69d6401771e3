package assets

import (
	"errors"
	"net/http"
	"strings"
)

var allowedMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ErrNotAnImage is returned when the payload does not sniff as a supported raster image.
var ErrNotAnImage = errors.New("payload is not a supported image")

// DetectImageType sniffs the payload head and returns its mime type and file
// extension. HTML, XML and SVG payloads are rejected.
func DetectImageType(head []byte) (string, string, error) {
	detected := http.DetectContentType(head)

	if strings.HasPrefix(detected, "text/") || strings.HasPrefix(detected, "application/xml") ||
		strings.HasPrefix(detected, "application/xhtml") || detected == "image/svg+xml" {
		return "", "", ErrNotAnImage
	}
	if ext, ok := allowedMime[detected]; ok {
		return detected, ext, nil
	}
	return "", "", ErrNotAnImage
}
