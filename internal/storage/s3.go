package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/foodgram/backend/config"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in a bucket and returns their public URLs.
type S3Store struct {
	client S3API
	bucket string
	urlFor func(key string) string
}

func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{client: cfg.Client, bucket: cfg.BucketName, urlFor: cfg.ObjectURL}
}

func newS3Store(client S3API, bucket string, urlFor func(string) string) *S3Store {
	return &S3Store{client: client, bucket: bucket, urlFor: urlFor}
}

func (s *S3Store) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.urlFor(key), nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key := s.keyOf(ref)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// keyOf recovers the object key from a URL produced by Save.
func (s *S3Store) keyOf(ref string) string {
	prefix := strings.TrimSuffix(s.urlFor(""), "/")
	if !strings.HasPrefix(ref, prefix) {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(ref, prefix), "/")
}
