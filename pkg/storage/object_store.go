package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive keeps a copy of accepted resumes off the bot host.
type Archive interface {
	Store(ctx context.Context, path string, meta map[string]string) (string, error)
}

// MinioConfig points at an S3 compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive uploads resume files into one bucket under the resumes/ prefix.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to the endpoint and creates the bucket if missing.
func NewMinioArchive(ctx context.Context, cfg MinioConfig) (*MinioArchive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("archive bucket required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

// Store uploads the file at path and returns its object key.
func (a *MinioArchive) Store(ctx context.Context, path string, meta map[string]string) (string, error) {
	key := ResumeKey(filepath.Base(path))
	_, err := a.client.FPutObject(ctx, a.bucket, key, path, minio.PutObjectOptions{
		ContentType:  ContentType(path),
		UserMetadata: meta,
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}

// ResumeKey is the object key a resume file is archived under.
func ResumeKey(filename string) string {
	return "resumes/" + safeFilename(filename)
}

// ContentType guesses a MIME type from the file extension.
func ContentType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "application/octet-stream"
}
