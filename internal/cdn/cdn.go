// Package cdn uploads public assets to an S3-compatible object store fronted
// by a CDN base URL.
package cdn

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"storm/internal/config"
)

// Store holds a client for the configured bucket.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New builds a store from the CDN_* configuration. Static credentials and a
// custom endpoint cover MinIO-style deployments as well as real S3.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.CDNRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.CDNAccessKey,
			cfg.CDNSecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.CDNEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.CDNEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:  client,
		bucket:  cfg.CDNBucket,
		baseURL: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object identified by its public URL. URLs outside the
// configured base are rejected.
func (s *Store) Delete(ctx context.Context, publicURL string) error {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) keyFromURL(publicURL string) (string, error) {
	if _, err := url.Parse(publicURL); err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return "", fmt.Errorf("url %s is outside the CDN base", publicURL)
	}
	return strings.TrimPrefix(publicURL, s.baseURL+"/"), nil
}
