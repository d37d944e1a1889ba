package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioService stores gallery blobs on a MinIO (or any S3-compatible) server.
type MinioService struct {
	client *minio.Client
	bucket string
	layout Layout
}

func NewMinioService(client *minio.Client, bucket string, layout Layout) *MinioService {
	return &MinioService{
		client: client,
		bucket: bucket,
		layout: layout,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioService) Upload(ctx context.Context, blob Blob) (string, error) {
	if blob.Body == nil {
		return "", fmt.Errorf("blob %q has no body", blob.Name)
	}
	size := blob.Size
	if size <= 0 {
		size = -1
	}

	key := s.layout.newBlobKey(blob.Name)
	_, err := s.client.PutObject(ctx, s.bucket, key, blob.Body, size, minio.PutObjectOptions{
		ContentType: blob.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", blob.Name, err)
	}
	return s.layout.URL(key), nil
}

func (s *MinioService) Delete(ctx context.Context, blobID string) error {
	if strings.TrimSpace(blobID) == "" {
		return fmt.Errorf("blob id is required")
	}

	prefix := s.layout.Key(blobID, "")
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list objects for delete: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", obj.Key, err)
		}
	}
	return nil
}

func (s *MinioService) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.layout.Prefix(), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		info := ObjectInfo{Key: obj.Key, Size: obj.Size}
		if !obj.LastModified.IsZero() {
			modified := obj.LastModified
			info.LastModified = &modified
		}
		objects = append(objects, info)
	}
	return objects, nil
}

var _ Service = (*MinioService)(nil)
