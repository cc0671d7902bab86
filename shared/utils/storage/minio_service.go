package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"inventra-backend/shared/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOService stores item document binaries. Object keys follow
// properties/{propertyID}/items/{itemID}/{documentID}_{filename}.
type MinIOService struct {
	client     *minio.Client
	bucketName string
}

func NewMinIOService() (*MinIOService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &MinIOService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MinIOService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// UploadObject streams a file into the bucket
func (s *MinIOService) UploadObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %v", objectKey, err)
	}
	return nil
}

// PresignedDownloadURL returns a time-limited download link for an object
func (s *MinIOService) PresignedDownloadURL(ctx context.Context, objectKey, fileName string, expiry time.Duration) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL for %s: %v", objectKey, err)
	}
	return presignedURL.String(), nil
}

// DeleteObject removes an object from the bucket
func (s *MinIOService) DeleteObject(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectKey, err)
	}
	return nil
}

// GetBucketName returns the bucket name
func (s *MinIOService) GetBucketName() string {
	return s.bucketName
}
