package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-address-dispatch/internal/application"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

// GCSUploader writes export files into a single bucket.
type GCSUploader struct {
	Client *gcs.Client
	Bucket string
}

func NewGCSUploader(client *gcs.Client, bucket string) *GCSUploader {
	return &GCSUploader{Client: client, Bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, u.Client, u.Bucket, objectPath, contentType, r)
}

var _ application.ObjectUploader = (*GCSUploader)(nil)
