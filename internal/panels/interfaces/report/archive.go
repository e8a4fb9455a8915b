package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveConfig selects the bucket generated reports are copied to.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool
}

// Archiver copies generated reports to an S3-compatible bucket.
type Archiver struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

// NewArchiver builds an Archiver from ArchiveConfig.
func NewArchiver(ctx context.Context, cfg ArchiveConfig) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("report archive: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newArchiver(client, cfg.Bucket), nil
}

func newArchiver(client *s3.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket, now: time.Now}
}

// ObjectKey returns reports/<section>/<timestamp>.<format>.
func ObjectKey(section, format string, at time.Time) string {
	section = strings.Trim(strings.TrimSpace(section), "/")
	section = strings.ReplaceAll(section, "/", "_")
	return fmt.Sprintf("reports/%s/%s.%s", section, at.UTC().Format("20060102T150405Z"), format)
}

// Archive uploads a rendered report and returns its object key.
func (a *Archiver) Archive(ctx context.Context, section, format string, data []byte) (string, error) {
	if a == nil || a.client == nil {
		return "", fmt.Errorf("report archive: not configured")
	}
	key := ObjectKey(section, format, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(ContentType(format)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("report archive: put %s: %w", key, err)
	}
	return key, nil
}
