package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config R2(S3 호환) 버킷 접속 정보.
type R2Config struct {
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL, when set, is prepended to object keys to form the
	// public URL returned by Upload. Trailing slash is ignored.
	PublicBaseURL string
}

// R2Client talks to a Cloudflare R2 bucket through the aws-sdk-go-v2 S3
// client. It implements Client.
type R2Client struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewR2Client builds the S3 client with static credentials and the custom
// R2 endpoint. Path-style addressing is required for S3-compatible
// endpoints.
func NewR2Client(ctx context.Context, cfg R2Config) (*R2Client, error) {
	if cfg.Bucket == "" || cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete r2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Client{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload reads the local file fully and issues a single PutObject. No
// retries: a network failure surfaces to the caller, which aborts that
// file's ingestion.
func (c *R2Client) Upload(ctx context.Context, localPath, key, contentType string) (UploadResult, error) {
	body, err := os.ReadFile(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read %s: %w", localPath, err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("put object %s: %w", key, err)
	}

	result := UploadResult{Key: key}
	if c.publicBaseURL != "" {
		result.URL = c.publicBaseURL + "/" + key
	}
	return result, nil
}

// Delete removes the object behind a public URL or bare key. The error is
// returned for the caller to log; record deletion must not depend on it.
func (c *R2Client) Delete(ctx context.Context, urlOrKey string) error {
	key := c.keyFromURL(urlOrKey)
	if key == "" {
		return nil
	}

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// keyFromURL strips the configured public base URL so Delete accepts both
// full URLs and bare keys.
func (c *R2Client) keyFromURL(urlOrKey string) string {
	key := strings.TrimSpace(urlOrKey)
	if key == "" {
		return ""
	}
	if c.publicBaseURL != "" && strings.HasPrefix(key, c.publicBaseURL) {
		key = strings.TrimPrefix(key, c.publicBaseURL)
	}
	return strings.TrimPrefix(key, "/")
}

// LogDeleteError is the shared best-effort delete convention: storage
// deletion failures are logged and never block the caller.
func LogDeleteError(logger *slog.Logger, urlOrKey string, err error) {
	if err == nil {
		return
	}
	logger.Warn("원격 이미지 삭제 실패", slog.String("target", urlOrKey), slog.Any("error", err))
}
