// Package storage uploads back office images to the S3 compatible bucket
// served from Cloudflare R2.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config locates the bucket.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

// ObjectStore is the bucket surface used by the upload handler.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// R2Store implements ObjectStore with minio-go.
type R2Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewR2Store connects to the bucket endpoint. The endpoint may carry an
// https:// prefix.
func NewR2Store(cfg Config) (*R2Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("storage: endpoint and bucket are required")
	}
	host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(strings.TrimSuffix(host, "/"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: !strings.HasPrefix(cfg.Endpoint, "http://"),
		Region: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("storage: client: %w", err)
	}
	return &R2Store{client: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

// Put uploads data under key.
func (s *R2Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

// PresignPut returns a URL the browser can PUT the object to.
func (s *R2Store) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return u.String(), nil
}

// PublicURL is where key is served from.
func (s *R2Store) PublicURL(key string) string {
	return PublicURL(s.publicURL, s.bucket, key)
}

// PublicURL joins base and key, falling back to the r2.dev host of bucket.
func PublicURL(base, bucket, key string) string {
	if base != "" {
		return strings.TrimSuffix(base, "/") + "/" + key
	}
	return "https://" + bucket + ".r2.dev/" + key
}
