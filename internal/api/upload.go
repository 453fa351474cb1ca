package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// UploadAPI groups the ad hoc file upload endpoint.
type UploadAPI struct {
	c *Client
}

// Uploads returns the upload endpoint group.
func (c *Client) Uploads() *UploadAPI {
	return &UploadAPI{c: c}
}

// Image uploads one image file and returns its stored URL.
func (u *UploadAPI) Image(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return u.ImageFrom(ctx, filepath.Base(path), f)
}

// ImageFrom uploads image bytes from a reader under the given filename.
func (u *UploadAPI) ImageFrom(ctx context.Context, filename string, r io.Reader) (string, error) {
	env, err := u.c.Upload(ctx, "/upload/image", "image", filename, r)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure("upload image", env)
	}
	file, err := DataAs[UploadedFile](env)
	if err != nil {
		return "", err
	}
	return file.URL, nil
}
