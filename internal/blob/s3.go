package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/avolkovs/paintrack/internal/common"
)

// s3API is the subset of the S3 client used by S3Store, kept narrow so tests
// can substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Config holds connection settings for an S3-compatible object store
// (AWS S3 or MinIO via the base endpoint override).
type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// S3Store keeps photos in one bucket, namespaced by miniature id so a
// miniature's blobs share a common prefix.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3Store builds an S3-backed store using static credentials and an
// optional custom endpoint.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, &common.StorageError{Op: "init", Err: err}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under a new key prefixed with keyHint (the miniature id),
// which keeps bulk cleanup of one miniature's photos a prefix operation.
// S3 object writes are atomic, so a failed upload leaves nothing visible.
func (s *S3Store) Put(ctx context.Context, keyHint string, data []byte, mimeType string) (string, error) {
	name, err := newObjectName(mimeType)
	if err != nil {
		return "", &common.StorageError{Op: "put", Err: err}
	}

	key := fmt.Sprintf("miniatures/%s/%s", keyHint, name)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", &common.StorageError{Op: "put", Key: key, Err: err}
	}

	return key, nil
}

// Get downloads the blob bytes for key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &common.StorageError{Op: "get", Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &common.StorageError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

// Delete removes the blob. S3 treats deleting an absent key as success,
// which matches the adapter contract.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &common.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, &common.StorageError{Op: "exists", Key: key, Err: err}
	}
	return true, nil
}
