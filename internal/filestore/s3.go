package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/errs"
)

// S3 keeps files in one bucket. Credentials come from the default AWS chain.
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 loads the AWS configuration and creates the client
func NewS3(ctx context.Context, cfg *config.FilesConfig) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: cfg.S3Bucket, publicURL: cfg.PublicURL}, nil
}

func (s *S3) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   r,
	})
	if err != nil {
		return "", errs.Upstream("put object", err)
	}
	return publicURL(s.publicURL, name), nil
}

func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, errs.NewNotFound("file", name)
		}
		return nil, errs.Upstream("get object", err)
	}
	return out.Body, nil
}
