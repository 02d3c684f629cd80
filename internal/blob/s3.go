package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3 stores blobs in an S3-compatible bucket (Cloudflare R2 in the original
// deployment, hence the endpoint shape). When the bucket is fronted by a
// public base URL, Save returns a full URL; otherwise it returns the object
// key and reads go through PresignGet.
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Options struct {
	AccessKeyID     string
	SecretAccessKey string
	AccountID       string
	Bucket          string
	Region          string
	PublicBaseURL   string
}

func NewS3(opts S3Options) *S3 {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Region:      opts.Region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &S3{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(opts.PublicBaseURL, "/"),
	}
}

func (s *S3) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	key := "uploads/" + uuid.New().String() + "_" + filepath.Base(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return key, nil
}

// PresignGet creates a temporary signed download URL for a stored locator.
func (s *S3) PresignGet(ctx context.Context, locator string, expires time.Duration) (string, error) {
	key := locator
	if s.publicURL != "" {
		key = strings.TrimPrefix(strings.TrimPrefix(locator, s.publicURL), "/")
	}

	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
