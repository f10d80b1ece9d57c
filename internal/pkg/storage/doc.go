// Package storage is a small object storage abstraction over S3, MinIO and
// Google Cloud Storage. Adapters report a missing object as ErrObjectNotFound.
package storage
