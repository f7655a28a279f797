// Package s3backend stores blobs in Amazon S3.
package s3backend

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jrsteele09/go-club-sync/blobstore"
	"github.com/pkg/errors"
)

// API is the subset of the S3 client the backend uses.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ blobstore.Backend = (*Backend)(nil)

type Backend struct {
	client API
}

func New(client API) *Backend {
	return &Backend{client: client}
}

// NewFromConfig builds the backend from a loaded AWS configuration.
func NewFromConfig(cfg aws.Config) *Backend {
	return New(s3.NewFromConfig(cfg))
}

func (b *Backend) Read(ctx context.Context, bucket, key string) (string, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", errors.Wrap(err, "[s3backend.Read] GetObject")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", errors.Wrap(err, "[s3backend.Read] read body")
	}
	return string(data), nil
}

func (b *Backend) Write(ctx context.Context, bucket, key, data string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(data),
	})
	if err != nil {
		return errors.Wrap(err, "[s3backend.Write] PutObject")
	}
	return nil
}
