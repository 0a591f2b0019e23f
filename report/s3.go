package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 report backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// s3API is the slice of the S3 client the writer uses; narrowed for tests.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer writes reports to an S3 (or S3-compatible) bucket, keyed
// <prefix>/day=<day>/run_id=<run_id>/<filename>.
type S3Writer struct {
	client s3API
	cfg    S3Config
	day    string
	runID  string
}

// NewS3Writer creates an S3-backed report writer.
// Uses the AWS SDK default credential chain (env vars, shared config, IAM
// role).
func NewS3Writer(ctx context.Context, s3cfg S3Config, day, runID string) (*S3Writer, error) {
	if err := s3cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(s3cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if s3cfg.Endpoint != "" {
		endpoint := s3cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if s3cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Writer{
		client: s3.NewFromConfig(awsConfig, s3Opts...),
		cfg:    s3cfg,
		day:    day,
		runID:  runID,
	}, nil
}

// Put implements Writer.
func (w *S3Writer) Put(ctx context.Context, filename, contentType string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	key := w.buildKey(filename)
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &w.cfg.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("put report %s: %w", key, err)
	}
	return nil
}

// buildKey computes the partitioned object key for a report artifact.
func (w *S3Writer) buildKey(filename string) string {
	key := fmt.Sprintf("day=%s/run_id=%s/%s", w.day, w.runID, filename)
	if w.cfg.Prefix != "" {
		key = strings.TrimSuffix(w.cfg.Prefix, "/") + "/" + key
	}
	return key
}

// Verify S3Writer implements Writer.
var _ Writer = (*S3Writer)(nil)
