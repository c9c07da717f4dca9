package service

import (
	"context"
	"errors"
	"io"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/infra"
)

// Public mounts of the image buckets; the router serves them from disk.
const (
	bucketPhotos  = "photos"
	prefixPhotos  = "/static"
	bucketReviews = "reviews"
	prefixReviews = "/review/static"
)

// Upload is one file received from a multipart form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ImageStore persists validated images. *infra.FileStore satisfies it.
type ImageStore interface {
	SaveImage(bucket, urlPrefix, filename string, r io.Reader) (string, error)
}

// Cache is the read-through cache used for hot lookups. *infra.JSONCache
// satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

func saveImage(store ImageStore, bucket, prefix string, u Upload) (string, error) {
	url, err := store.SaveImage(bucket, prefix, u.Filename, u.Body)
	switch {
	case errors.Is(err, infra.ErrImageFormat):
		return "", apierror.BadRequest("Invalid file format. Only JPG and PNG are allowed")
	case errors.Is(err, infra.ErrImageTooBig):
		return "", apierror.BadRequest("File size too large. Max 5MB")
	case errors.Is(err, infra.ErrImageCorrupt):
		return "", apierror.BadRequest("Invalid image file")
	}
	return url, err
}
