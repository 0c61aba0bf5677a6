package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/logger"
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload is a picture received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Validate checks the upload is a supported picture no larger than maxSize
func (u Upload) Validate(maxSize int64) error {
	if u.Reader == nil || u.Size <= 0 {
		return errors.New("picture is empty")
	}
	if maxSize > 0 && u.Size > maxSize {
		return fmt.Errorf("picture exceeds the maximum size of %d bytes", maxSize)
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("unsupported picture extension %q", ext)
	}
	return nil
}

// contentType falls back on the extension when the client sent none
func (u Upload) contentType() string {
	if u.ContentType != "" {
		return u.ContentType
	}
	return allowedExtensions[strings.ToLower(filepath.Ext(u.Filename))]
}

// ContentType guesses the media type of a stored picture from its key
func ContentType(key string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// NewKey returns a fresh storage key for a picture of the given object
func NewKey(objectID int, filename string) string {
	return fmt.Sprintf("objects/%d/%s%s", objectID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}

// MinioStore keeps object pictures in a MinIO (S3 compatible) bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// NewMinioStore connects to the configured endpoint and makes sure the bucket exists
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	log := logger.Service("images")

	client, err := minio.New(cfg.Images.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Images.AccessKey, cfg.Images.SecretKey, ""),
		Secure: cfg.Images.UseSSL,
	})
	if err != nil {
		log.Error("Failed to create MinIO client", "endpoint", cfg.Images.Endpoint, "error", err)
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Images.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Images.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Images.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Images.Bucket, err)
		}
		log.Info("Bucket created", "bucket", cfg.Images.Bucket)
	}

	log.Info("Image store ready", "endpoint", cfg.Images.Endpoint, "bucket", cfg.Images.Bucket)
	return &MinioStore{client: client, bucket: cfg.Images.Bucket, log: log}, nil
}

// Put stores the upload under key
func (s *MinioStore) Put(ctx context.Context, key string, upload Upload) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, upload.Reader, upload.Size, minio.PutObjectOptions{
		ContentType: upload.contentType(),
	})
	if err != nil {
		s.log.Error("Failed to store picture", "key", key, "error", err)
		return fmt.Errorf("failed to store picture %s: %w", key, err)
	}

	s.log.Info("Picture stored", "key", key, "size", info.Size)
	return nil
}

// Delete removes the picture stored under key
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("Failed to delete picture", "key", key, "error", err)
		return fmt.Errorf("failed to delete picture %s: %w", key, err)
	}

	s.log.Debug("Picture deleted", "key", key)
	return nil
}

// Open streams the picture stored under key
func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open picture %s: %w", key, err)
	}
	return obj, nil
}
