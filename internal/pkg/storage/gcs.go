package storage

import (
	"context"
	"errors"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	// Client provides an existing GCS client.
	Client *gcs.Client
	// ClientOptions are used when Client is nil.
	ClientOptions []option.ClientOption
}

// NewGCS constructs a GCS adapter.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	if opts.Client != nil {
		return &GCSAdapter{client: opts.Client}, nil
	}

	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	return &GCSAdapter{client: client}, nil
}

func (g *GCSAdapter) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(body); err != nil {
		return errors.Join(err, w.Close())
	}
	return w.Close()
}

func (g *GCSAdapter) Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, gcsError(err)
	}
	defer r.Close()

	return readLimited(r, limit)
}

func (g *GCSAdapter) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	attrs, err := g.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, gcsError(err)
	}
	return ObjectInfo{Size: attrs.Size, UpdatedAt: attrs.Updated}, nil
}

// Close closes the GCS client.
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}

func gcsError(err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}
