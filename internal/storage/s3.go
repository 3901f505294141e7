package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/config"
)

// Uploader abstracts the blob store: upload bytes under a key and get a
// public URL back, or delete a previously uploaded blob by its URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// S3Uploader stores attachments in an S3-compatible bucket with public
// read access.
type S3Uploader struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

// NewS3Uploader creates an uploader for the configured bucket.
func NewS3Uploader(cfg config.StorageConfig) (*S3Uploader, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Uploader{
		client:    s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// Upload stores data under key with public read access and returns the
// public URL.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindExternalService, "no se pudo subir el archivo", err)
	}

	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}

// Delete removes the blob behind fileURL.
func (u *S3Uploader) Delete(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "URL de archivo inválida", err)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	key = strings.TrimPrefix(key, u.bucket+"/")

	_, err = u.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.Wrap(apperr.KindExternalService, "no se pudo eliminar el archivo", err)
	}
	return nil
}
