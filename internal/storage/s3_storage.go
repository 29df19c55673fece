package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/mstavrou/epresent-backend/config"
)

const presignExpiry = 15 * time.Minute

// MaxImageSize is the upper bound accepted for catalog image uploads.
const MaxImageSize = 10 * 1024 * 1024

// ImageFolders lists the destinations clients may upload into.
var ImageFolders = map[string]bool{
	"products":   true,
	"variants":   true,
	"categories": true,
}

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

// ImageStorage issues pre-signed S3 PUT URLs for catalog image uploads.
// The server never proxies file bodies.
type ImageStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewImageStorage(cfg *appconfig.S3Config) *ImageStorage {
	var awsCfg aws.Config
	var err error

	// Static credentials when configured, otherwise the default chain
	// (environment, shared credentials file, IAM role).
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &ImageStorage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
	}
}

// PresignUpload returns a PUT URL for a new object under the given folder.
// The object key is always server-generated.
func (s *ImageStorage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	if !ImageFolders[folder] {
		return nil, fmt.Errorf("upload folder %q is not allowed", folder)
	}
	if err := ValidateImageType(contentType); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ValidateImageType checks the declared content type against the image
// formats the catalog accepts.
func ValidateImageType(contentType string) error {
	for _, allowed := range allowedImageTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

// ValidateImageSize rejects declared sizes over MaxImageSize.
func ValidateImageSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if size > MaxImageSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", int64(MaxImageSize))
	}
	return nil
}
