package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rpattn/fleetgrid/internal/config"
	"github.com/rpattn/fleetgrid/internal/domain"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore is the object storage surface the import pipeline depends on.
// Remove is idempotent: deleting a key that does not exist is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// minioStore implements ObjectStore against a MinIO bucket.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects to MinIO and ensures the configured bucket
// exists, retrying a few times so the service can start alongside the
// storage container.
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig) (ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &minioStore{client: client, bucket: cfg.Bucket}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *minioStore) ensureBucket(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err == nil {
			if exists {
				return nil
			}
			err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
			if err == nil {
				log.Printf("[storage] created bucket %s", s.bucket)
				return nil
			}
		}
		lastErr = err
		log.Printf("[storage] bucket check attempt %d failed: %v", attempt, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return &domain.StorageError{Op: "ensure bucket", Key: s.bucket, Err: lastErr}
}

func (s *minioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &domain.StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *minioStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return &domain.StorageError{Op: "copy", Key: dstKey, Err: err}
	}
	return nil
}

func (s *minioStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	// GetObject is lazy; Stat forces the first request so a missing key
	// surfaces here instead of on first read.
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, ObjectInfo{}, &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	return obj, ObjectInfo{Key: key, Size: stat.Size, ContentType: stat.ContentType}, nil
}

func (s *minioStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ObjectInfo{}, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return ObjectInfo{}, &domain.StorageError{Op: "stat", Key: key, Err: err}
	}
	return ObjectInfo{Key: key, Size: stat.Size, ContentType: stat.ContentType}, nil
}

// Remove deletes an object, tolerating keys that are already gone so
// compensation paths can call it unconditionally.
func (s *minioStore) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return &domain.StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}
