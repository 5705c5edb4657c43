package ai

import (
	"errors"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetectImageMimeType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
		wantErr  bool
	}{
		{name: "png", data: pngHeader, expected: "image/png"},
		{name: "jpeg", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), expected: "image/jpeg"},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00"), expected: "image/gif"},
		{name: "webp", data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), expected: "image/webp"},
		{name: "text", data: []byte("hello world"), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, err := DetectImageMimeType(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedImage) {
					t.Errorf("expected ErrUnsupportedImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mimeType != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, mimeType)
			}
		})
	}
}

func TestImage_ResolveMimeType(t *testing.T) {
	explicit := &Image{Data: []byte("anything"), MimeType: "image/jpeg"}
	if mimeType, err := explicit.ResolveMimeType(); err != nil || mimeType != "image/jpeg" {
		t.Errorf("expected explicit image/jpeg, got %q (%v)", mimeType, err)
	}

	rejected := &Image{Data: pngHeader, MimeType: "image/tiff"}
	if _, err := rejected.ResolveMimeType(); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage for tiff, got %v", err)
	}

	sniffed := &Image{Data: pngHeader}
	if mimeType, err := sniffed.ResolveMimeType(); err != nil || mimeType != "image/png" {
		t.Errorf("expected sniffed image/png, got %q (%v)", mimeType, err)
	}
}
