package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	appConfig "timetrack/backend/internal/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// MaxUploadSize bounds absence documents at 5MB.
const MaxUploadSize = 5 << 20

var allowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
}

func InArray[T comparable](val T, array []T) bool {
	for _, v := range array {
		if val == v {
			return true
		}
	}
	return false
}

// Uploader stores absence documents in S3-compatible object storage and
// hands back a public URL.
type Uploader struct {
	cfg *appConfig.Config
}

func NewUploader(cfg *appConfig.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// ValidateFile rejects oversized or disallowed files before any storage
// call is made.
func ValidateFile(file *multipart.FileHeader) error {
	if file == nil {
		return errors.New("no file uploaded")
	}

	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large: %d bytes, limit is %d", file.Size, MaxUploadSize)
	}

	contentType := file.Header.Get("Content-Type")
	if !InArray(contentType, allowedContentTypes) {
		return fmt.Errorf("invalid file type, expected: %v, got: %s", allowedContentTypes, contentType)
	}

	return nil
}

func (u *Uploader) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(u.cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.S3AccessKey,
			u.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, errors.Wrap(err, "loading s3 config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload validates the file, writes it under folder and returns the public
// URL to store on the absence record.
func (u *Uploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	client, err := u.client(ctx)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s-%s", folder, time.Now().Format(time.RFC3339), file.Filename)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(file.Header.Get("Content-Type")),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading file")
	}

	return fmt.Sprintf("%s/%s/%s", u.cfg.S3Endpoint, u.cfg.S3Bucket, key), nil
}
