package storage

import (
	"context"
	"io"
	"net/http"
)

type FileStorage interface {
	// Upload stores a file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	Delete(ctx context.Context, path string) error

	// URL returns the public URL for key
	URL(path string) string
}

// Image content types accepted for profile pictures.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// DetectImage sniffs the first bytes of an upload and returns its extension.
// ok is false for anything but png, jpeg or gif.
func DetectImage(head []byte) (ext string, ok bool) {
	ext, ok = imageExtensions[http.DetectContentType(head)]
	return ext, ok
}
