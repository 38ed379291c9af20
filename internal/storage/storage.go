// Package storage keeps uploaded submission documents in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AllowedExtensions maps accepted document extensions to their content type.
var AllowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

const MaxDocumentSize = 10 << 20

type Documents interface {
	Upload(ctx context.Context, applicantID uuid.UUID, fileName string, r io.Reader, size int64) (string, error)
	PresignURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

type Storage struct {
	client *minio.Client
	bucket string
}

func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{client: client, bucket: cfg.S3Bucket}, nil
}

// EnsureBucket creates the documents bucket when missing.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ObjectKey returns submissions/<applicant>/<uuid><ext>.
func ObjectKey(applicantID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("submissions/%s/%s%s", applicantID, uuid.New(), ext)
}

func (s *Storage) Upload(ctx context.Context, applicantID uuid.UUID, fileName string, r io.Reader, size int64) (string, error) {
	key := ObjectKey(applicantID, fileName)
	opts := minio.PutObjectOptions{ContentType: AllowedExtensions[strings.ToLower(path.Ext(fileName))]}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}
	return key, nil
}

func (s *Storage) PresignURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign document: %w", err)
	}
	return u.String(), nil
}
