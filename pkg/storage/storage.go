package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted profile picture (5MB)
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrInvalidImageType = errors.New("invalid image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrInvalidImageData = errors.New("invalid image data")
)

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads profile pictures to an S3-compatible bucket
type Client struct {
	s3Client      objectPutter
	bucketName    string
	endpoint      string
	publicBaseURL string
	now           func() time.Time
}

// Options configures a storage client
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	PublicBaseURL   string
}

// NewClient creates a new S3-compatible storage client
func NewClient(opts Options) (*Client, error) {
	if opts.BucketName == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}

	s3Opts := s3.Options{
		Region: opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
		UsePathStyle: opts.Endpoint != "",
	}
	if opts.Endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(opts.Endpoint)
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", opts.BucketName),
		zap.String("endpoint", opts.Endpoint),
		zap.String("region", opts.Region),
	)

	return newClient(s3.New(s3Opts), opts), nil
}

func newClient(putter objectPutter, opts Options) *Client {
	return &Client{
		s3Client:      putter,
		bucketName:    opts.BucketName,
		endpoint:      strings.TrimRight(opts.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

// UploadImage stores base64 (or data URI) image data under key and
// returns its public URL.
func (c *Client) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadImage"

	imageBytes, err := DecodeImage(imageData)
	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(metrics.MeasureDuration(start))
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		return "", err
	}

	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(imageBytes),
		ContentType:  aws.String(strings.ToLower(contentType)),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(ctx, "object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
	)

	return c.PublicURL(key), nil
}

// PublicURL returns the URL under which key is served
func (c *Client) PublicURL(key string) string {
	if c.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", c.publicBaseURL, key)
	}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key)
}

// AvatarKey builds the object key for a user's profile picture
func (c *Client) AvatarKey(uid, contentType string) string {
	ext := allowedTypes[strings.ToLower(contentType)]
	if ext == "" {
		ext = "bin"
	}
	return path.Join("avatars", uid, fmt.Sprintf("%d.%s", c.now().UnixMilli(), ext))
}

// ValidateImageType validates the image content type
func ValidateImageType(contentType string) error {
	if _, ok := allowedTypes[strings.ToLower(contentType)]; !ok {
		return fmt.Errorf("%w: %s. Allowed types: jpeg, jpg, png, webp", ErrInvalidImageType, contentType)
	}
	return nil
}

// ValidateImageSize validates the decoded image size
func ValidateImageSize(imageData string) error {
	imageBytes, err := DecodeImage(imageData)
	if err != nil {
		return err
	}
	if len(imageBytes) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d bytes)", ErrImageTooLarge, len(imageBytes), MaxImageSize)
	}
	return nil
}

// DecodeImage accepts raw base64 or a data URI (data:image/png;base64,...)
func DecodeImage(imageData string) ([]byte, error) {
	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: invalid data URI format", ErrInvalidImageData)
		}
		payload = parts[1]
	}

	imageBytes, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImageData)
	}
	return imageBytes, nil
}
