package store

import (
	"context"
	"errors"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/storage"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

// Object keeps the seed as one object in a bucket (S3, MinIO or GCS).
type Object struct {
	client storage.Storage
	bucket string
	key    string
	ins    instrument.Instrumentation
}

func NewObject(client storage.Storage, bucket, key string, ins instrument.Instrumentation) *Object {
	return &Object{client: client, bucket: bucket, key: key, ins: ins}
}

func (o *Object) Write(ctx context.Context, seed entity.HexSeed) (err error) {
	ctx, span := startSpan(ctx, o.ins, "Object.Write")
	defer func() { endSpan(span, err) }()

	return o.client.Put(ctx, o.bucket, o.key, []byte(seed), "text/plain; charset=utf-8")
}

func (o *Object) Read(ctx context.Context) (_ entity.HexSeed, err error) {
	ctx, span := startSpan(ctx, o.ins, "Object.Read")
	defer func() { endSpan(span, err) }()

	raw, err := o.client.Get(ctx, o.bucket, o.key, maxSeedBytes)
	if errors.Is(err, storage.ErrObjectNotFound) {
		err = goerror.ErrNotFound
		return "", err
	}
	if err != nil {
		return "", err
	}

	return parseStored(string(raw))
}

func (o *Object) Exists(ctx context.Context) (_ bool, err error) {
	ctx, span := startSpan(ctx, o.ins, "Object.Exists")
	defer func() { endSpan(span, err) }()

	info, err := o.client.Stat(ctx, o.bucket, o.key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return info.Size > 0, nil
}
