package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"paycontrol/internal/apperr"
)

// EvidenceStore keeps debt and payment attachments (receipts, transfer
// screenshots) in an S3-compatible bucket. Debts only carry object keys.
type EvidenceStore struct {
	client *minio.Client
	bucket string
}

// EvidenceConfig holds the connection settings of the evidence bucket.
type EvidenceConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

// NewEvidenceStore connects to the S3-compatible endpoint.
func NewEvidenceStore(cfg EvidenceConfig) (*EvidenceStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return &EvidenceStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *EvidenceStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Upload stores one attachment and returns its object key. Keys are scoped
// by user and debt so listings and cleanups stay per entity.
func (s *EvidenceStore) Upload(ctx context.Context, userID, debtID, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%s/%s/%d-%s", userID, debtID, time.Now().UnixNano(), path.Base(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", apperr.Transient(err)
	}
	return key, nil
}

// PresignedURL returns a short-lived download link for an object key.
func (s *EvidenceStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", apperr.Transient(err)
	}
	return u.String(), nil
}
