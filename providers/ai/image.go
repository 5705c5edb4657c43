package ai

import (
	"fmt"
	"net/http"
)

// acceptedImageTypes are the MIME types backends accept as inline image data.
var acceptedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is raw image bytes plus their MIME type. MimeType may be left empty,
// in which case it is sniffed from the data.
type Image struct {
	Data     []byte
	MimeType string
}

// ResolveMimeType returns the explicit MimeType when set, otherwise the type
// detected from the image's magic bytes. Both paths fail with
// ErrUnsupportedImage for anything but png, jpeg, gif and webp.
func (image *Image) ResolveMimeType() (string, error) {
	if image.MimeType != "" {
		if !acceptedImageTypes[image.MimeType] {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, image.MimeType)
		}
		return image.MimeType, nil
	}
	return DetectImageMimeType(image.Data)
}

// DetectImageMimeType sniffs the MIME type of data from its leading bytes.
func DetectImageMimeType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	detected := http.DetectContentType(data)
	if !acceptedImageTypes[detected] {
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedImage, detected)
	}
	return detected, nil
}
