package providers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOGateway implements StorageGateway against MinIO using the native
// minio-go client. The multipart lifecycle goes through the Core API, which
// exposes the raw initiate/complete/abort calls.
type MinIOGateway struct {
	core   *minio.Core
	config *StorageConfig
}

// NewMinIOGateway creates a MinIO-backed gateway.
func NewMinIOGateway(cfg *StorageConfig) (*MinIOGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MinIO storage config: %w", err)
	}

	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, NewStorageError("minio", "configure", "", err)
	}

	return &MinIOGateway{
		core:   core,
		config: cfg,
	}, nil
}

func (g *MinIOGateway) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	signed, err := g.core.Client.PresignedPutObject(ctx, g.config.Bucket, key, expires)
	if err != nil {
		return "", NewStorageError("minio", "presign_put", key, err)
	}
	return signed.String(), nil
}

func (g *MinIOGateway) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	uploadID, err := g.core.NewMultipartUpload(ctx, g.config.Bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", NewStorageError("minio", "create_multipart", key, err)
	}
	return uploadID, nil
}

func (g *MinIOGateway) PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	params := url.Values{}
	params.Set("uploadId", uploadID)
	params.Set("partNumber", strconv.Itoa(int(partNumber)))

	signed, err := g.core.Client.PresignHeader(ctx, "PUT", g.config.Bucket, key, expires, params, nil)
	if err != nil {
		return "", NewStorageError("minio", "presign_part", key, err)
	}
	return signed.String(), nil
}

func (g *MinIOGateway) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error {
	completed := make([]minio.CompletePart, len(parts))
	for i, part := range parts {
		completed[i] = minio.CompletePart{
			PartNumber: int(part.PartNumber),
			ETag:       part.ETag,
		}
	}

	_, err := g.core.CompleteMultipartUpload(ctx, g.config.Bucket, key, uploadID, completed, minio.PutObjectOptions{})
	if err != nil {
		return NewStorageError("minio", "complete_multipart", key, err)
	}
	return nil
}

func (g *MinIOGateway) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := g.core.AbortMultipartUpload(ctx, g.config.Bucket, key, uploadID); err != nil {
		return NewStorageError("minio", "abort_multipart", key, err)
	}
	return nil
}

func (g *MinIOGateway) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	for obj := range g.core.Client.ListObjects(ctx, g.config.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, NewStorageError("minio", "list", prefix, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

func (g *MinIOGateway) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := g.core.Client.GetObject(ctx, g.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, NewStorageError("minio", "get_object", key, err)
	}
	return obj, nil
}

func (g *MinIOGateway) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := g.core.Client.PutObject(ctx, g.config.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return NewStorageError("minio", "put_object", key, err)
	}
	return nil
}

func (g *MinIOGateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := g.core.Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: g.config.Bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: g.config.Bucket, Object: srcKey},
	)
	if err != nil {
		return NewStorageError("minio", "copy", srcKey, err)
	}
	return nil
}

func (g *MinIOGateway) Delete(ctx context.Context, key string) error {
	if err := g.core.Client.RemoveObject(ctx, g.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return NewStorageError("minio", "delete", key, err)
	}
	return nil
}

func (g *MinIOGateway) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	for result := range g.core.Client.RemoveObjects(ctx, g.config.Bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if result.Err != nil {
			return NewStorageError("minio", "delete_batch", result.ObjectName, result.Err)
		}
	}
	return nil
}

func (g *MinIOGateway) HealthCheck(ctx context.Context) error {
	exists, err := g.core.Client.BucketExists(ctx, g.config.Bucket)
	if err != nil {
		return NewStorageError("minio", "health_check", "", err)
	}
	if !exists {
		return NewStorageError("minio", "health_check", "", ErrBucketNotFound)
	}
	return nil
}

func (g *MinIOGateway) Bucket() string {
	return g.config.Bucket
}

func (g *MinIOGateway) Region() string {
	return g.config.Region
}
