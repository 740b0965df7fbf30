package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/pkg/logger"
)

// ImageService stores recipe images submitted as base64 data URIs.
// Images go to S3 when configured, otherwise to a local media
// directory served as static files.
type ImageService struct {
	s3Config *config.S3Config
	mediaDir string
}

// NewImageService creates an ImageService. s3Config may be nil, in
// which case images land under mediaDir.
func NewImageService(s3Config *config.S3Config, mediaDir string) *ImageService {
	if mediaDir == "" {
		mediaDir = "media"
	}
	return &ImageService{s3Config: s3Config, mediaDir: mediaDir}
}

// Store persists an image and returns its URL. An input that is
// already a URL is returned unchanged; anything else must be a
// "data:image/<ext>;base64," data URI.
func (s *ImageService) Store(ctx context.Context, image string) (string, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") || strings.HasPrefix(image, "/media/") {
		return image, nil
	}

	data, ext, err := decodeDataURI(image)
	if err != nil {
		return "", &ValidationError{Message: err.Error()}
	}

	fileName := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)
	if s.s3Config != nil {
		return s.uploadToS3(ctx, data, fileName, ext)
	}
	return s.writeLocal(data, fileName)
}

func (s *ImageService) uploadToS3(ctx context.Context, data []byte, fileName, ext string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	logger.Debug("uploaded recipe image", zap.String("key", fileName))
	return url, nil
}

func (s *ImageService) writeLocal(data []byte, fileName string) (string, error) {
	path := filepath.Join(s.mediaDir, filepath.FromSlash(fileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + fileName, nil
}

// decodeDataURI splits and decodes a "data:image/<ext>;base64,<data>"
// string.
func decodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, "", fmt.Errorf("image must be a base64 data URI")
	}
	rest := strings.TrimPrefix(uri, "data:image/")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", fmt.Errorf("image data URI is not base64 encoded")
	}
	ext := rest[:sep]
	switch ext {
	case "png", "jpeg", "jpg", "gif", "webp":
	default:
		return nil, "", fmt.Errorf("unsupported image type %q", ext)
	}
	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %v", err)
	}
	return data, ext, nil
}
