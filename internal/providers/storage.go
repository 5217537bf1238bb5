package providers

import (
	"context"
	"io"
	"time"
)

// StorageGateway is the object-store surface the upload protocol runs on:
// presigned authorizations, the multipart lifecycle, and the object
// management calls the concatenation pipeline needs.
type StorageGateway interface {
	// PresignPut issues a time-limited URL authorizing one PUT of the whole
	// object to key.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// CreateMultipartUpload initiates a multipart upload for key and returns
	// the upload identifier.
	CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error)

	// PresignUploadPart issues a time-limited URL authorizing the PUT of one
	// numbered part of an initiated multipart upload.
	PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error)

	// CompleteMultipartUpload commits the upload. parts must be the full
	// contiguous set sorted ascending by part number.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error

	// AbortMultipartUpload discards an initiated upload and its stored parts.
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error

	// List returns every object under prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// GetObject opens the object body for reading. The caller closes it.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// PutObject stores size bytes from body at key.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Copy duplicates srcKey to dstKey within the bucket.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete removes a single object.
	Delete(ctx context.Context, key string) error

	// DeleteBatch removes all keys in one request where the backend supports
	// it.
	DeleteBatch(ctx context.Context, keys []string) error

	// HealthCheck verifies the bucket is reachable with the configured
	// credentials.
	HealthCheck(ctx context.Context) error

	// Bucket returns the configured bucket name.
	Bucket() string

	// Region returns the configured region.
	Region() string
}

// CompletedPart pairs a part number with the entity tag the store returned
// for it. The commit call requires the full set sorted by part number.
type CompletedPart struct {
	PartNumber int32  `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

// ObjectInfo describes one stored object in a listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}

// ProviderType identifies a supported storage backend.
type ProviderType string

const (
	ProviderAWS   ProviderType = "aws"
	ProviderMinIO ProviderType = "minio"
	// S3-compatible services served by the AWS implementation with a custom
	// endpoint.
	ProviderDigitalOcean ProviderType = "digitalocean"
	ProviderWasabi       ProviderType = "wasabi"
)

// StorageConfig configures a StorageGateway implementation.
type StorageConfig struct {
	Provider  ProviderType `json:"provider"`
	Endpoint  string       `json:"endpoint"`
	Region    string       `json:"region"`
	Bucket    string       `json:"bucket"`
	AccessKey string       `json:"access_key"`
	SecretKey string       `json:"secret_key"`
	UseSSL    bool         `json:"use_ssl"`
	PathStyle bool         `json:"path_style"`

	// PresignExpiry is the validity window of issued authorizations.
	PresignExpiry time.Duration `json:"presign_expiry"`
}

// Validate checks required fields and fills defaults.
func (c *StorageConfig) Validate() error {
	if c.Provider == "" {
		return ErrInvalidProvider
	}
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	if c.AccessKey == "" {
		return ErrMissingAccessKey
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Provider == ProviderMinIO && c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = time.Hour
	}
	return nil
}
