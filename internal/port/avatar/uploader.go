// Package avatar defines the image host port for profile pictures.
package avatar

import (
	"context"
	"io"
)

// Uploader stores an avatar image with a third-party host and returns its
// public URL. Uploading twice for the same username overwrites the previous
// image.
type Uploader interface {
	Upload(ctx context.Context, username string, file io.Reader) (url string, err error)
}
