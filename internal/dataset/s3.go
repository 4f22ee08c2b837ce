package dataset

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the S3 client used for s3:// data paths.
type S3Options struct {
	Region    string
	Endpoint  string // optional; set for MinIO or LocalStack
	PathStyle bool
}

// S3Fetcher downloads whole objects from S3.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher builds a client from the default AWS credential chain.
func NewS3Fetcher(ctx context.Context, opts S3Options) (*S3Fetcher, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3FetcherFromConfig(awsCfg, opts), nil
}

// NewS3FetcherFromConfig builds a fetcher from an existing AWS config.
func NewS3FetcherFromConfig(awsCfg aws.Config, opts S3Options) *S3Fetcher {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return &S3Fetcher{client: client}
}

// Fetch returns the full body of bucket/key.
func (f *S3Fetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// ParseS3URI splits "s3://bucket/path/to/key" into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%q is not an s3:// URI", uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// IsS3URI reports whether path points at S3.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}
