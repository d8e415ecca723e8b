package journal

import (
	"encoding/base64"
	"net/http"
	"strings"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// validateImageDataURL accepts base64 png or jpeg data URLs whose payload
// matches the declared media type.
func validateImageDataURL(value string) error {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "data:")
	if !ok {
		return ErrUnsupportedImage
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return ErrUnsupportedImage
	}
	mediaType, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" {
		return ErrUnsupportedImage
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/jpg" {
		mediaType = "image/jpeg"
	}
	if !allowedImageTypes[mediaType] {
		return ErrUnsupportedImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return ErrUnsupportedImage
	}
	if http.DetectContentType(data) != mediaType {
		return ErrUnsupportedImage
	}
	return nil
}
