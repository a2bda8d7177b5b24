package storage

import (
	"context"
	"fmt"
	"time"

	"lamx12/nutri-plan/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// s3Photos implements PhotoStorage on an S3-compatible bucket.
type s3Photos struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	log     *logrus.Entry
}

// Enabled reports whether cfg names a bucket to store photos in.
func Enabled(cfg config.S3Config) bool {
	return cfg.BucketName != ""
}

// NewS3PhotoStorage builds the bucket client. A custom endpoint (MinIO,
// Spaces) is used when set, otherwise the default AWS resolution applies.
func NewS3PhotoStorage(ctx context.Context, cfg config.S3Config, log *logrus.Entry) (PhotoStorage, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	opts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithEndpointResolverWithOptions(resolver),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	sdkCfg, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services.
	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.WithFields(logrus.Fields{"endpoint": cfg.Endpoint, "bucket": cfg.BucketName}).Info("photo storage ready")
	return &s3Photos{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.BucketName,
		log:     log,
	}, nil
}

func (s *s3Photos) UploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType), // the uploader must send the same header
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.log.WithError(err).WithField("key", objectKey).Error("presign put failed")
		return "", fmt.Errorf("%w: %v", ErrPresignFailed, err)
	}
	return req.URL, nil
}

func (s *s3Photos) ViewURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.log.WithError(err).WithField("key", objectKey).Error("presign get failed")
		return "", fmt.Errorf("%w: %v", ErrPresignFailed, err)
	}
	return req.URL, nil
}

func (s *s3Photos) Remove(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete photo %s: %w", objectKey, err)
	}
	s.log.WithField("key", objectKey).Info("photo removed")
	return nil
}
