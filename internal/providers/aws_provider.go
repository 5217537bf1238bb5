package providers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// AWSGateway implements StorageGateway against AWS S3 or any S3-compatible
// endpoint.
type AWSGateway struct {
	client    *s3.Client
	presigner *s3.PresignClient
	config    *StorageConfig
}

// NewAWSGateway creates a gateway backed by the aws-sdk-go-v2 S3 client.
func NewAWSGateway(cfg *StorageConfig) (*AWSGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AWS storage config: %w", err)
	}

	awsConfig, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, NewStorageError("aws", "configure", "", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" && cfg.Endpoint != "https://s3.amazonaws.com" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &AWSGateway{
		client:    client,
		presigner: s3.NewPresignClient(client),
		config:    cfg,
	}, nil
}

func (g *AWSGateway) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(g.config.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	request, err := g.presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", NewStorageError("aws", "presign_put", key, err)
	}
	return request.URL, nil
}

func (g *AWSGateway) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(g.config.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	result, err := g.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", NewStorageError("aws", "create_multipart", key, err)
	}
	return aws.ToString(result.UploadId), nil
}

func (g *AWSGateway) PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	request, err := g.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(g.config.Bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", NewStorageError("aws", "presign_part", key, err)
	}
	return request.URL, nil
}

func (g *AWSGateway) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error {
	completed := make([]types.CompletedPart, len(parts))
	for i, part := range parts {
		completed[i] = types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(part.PartNumber),
		}
	}

	_, err := g.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(g.config.Bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return NewStorageError("aws", "complete_multipart", key, err)
	}
	return nil
}

func (g *AWSGateway) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := g.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(g.config.Bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return NewStorageError("aws", "abort_multipart", key, err)
	}
	return nil
}

func (g *AWSGateway) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.config.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, NewStorageError("aws", "list", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         aws.ToString(obj.ETag),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (g *AWSGateway) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, NewStorageError("aws", "get_object", key, err)
	}
	return result.Body, nil
}

func (g *AWSGateway) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(g.config.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := g.client.PutObject(ctx, input)
	if err != nil {
		return NewStorageError("aws", "put_object", key, err)
	}
	return nil
}

func (g *AWSGateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := g.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(g.config.Bucket),
		CopySource: aws.String(g.config.Bucket + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return NewStorageError("aws", "copy", srcKey, err)
	}
	return nil
}

func (g *AWSGateway) Delete(ctx context.Context, key string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return NewStorageError("aws", "delete", key, err)
	}
	return nil
}

func (g *AWSGateway) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	identifiers := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		identifiers[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	_, err := g.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(g.config.Bucket),
		Delete: &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return NewStorageError("aws", "delete_batch", "", err)
	}
	return nil
}

func (g *AWSGateway) HealthCheck(ctx context.Context) error {
	_, err := g.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(g.config.Bucket),
	})
	if err != nil {
		return NewStorageError("aws", "health_check", "", err)
	}
	return nil
}

func (g *AWSGateway) Bucket() string {
	return g.config.Bucket
}

func (g *AWSGateway) Region() string {
	return g.config.Region
}
