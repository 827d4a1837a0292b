package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const archiveUploadTimeout = 30 * time.Second

// Archive mirrors rendered audio into an S3 bucket for retention. It is
// strictly best-effort: render responses never wait on it, and failures
// surface only in logs.
type Archive struct {
	s3Client *s3.Client
	bucket   string
	enabled  bool
}

// NewArchive creates an S3-backed archive. An empty bucket name disables
// archiving entirely; Store becomes a no-op.
func NewArchive(ctx context.Context, bucket, region, accessKey, secretKey string) (*Archive, error) {
	if bucket == "" {
		log.Printf("🗄️  S3 archive: DISABLED (no bucket configured)")
		return &Archive{enabled: false}, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	// Explicit keys win; otherwise the default chain (env, instance role)
	// applies.
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("🗄️  S3 archive: ✅ ENABLED (bucket: %s)", bucket)
	return &Archive{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucket,
		enabled:  true,
	}, nil
}

// Enabled reports whether uploads will actually happen
func (a *Archive) Enabled() bool {
	return a != nil && a.enabled
}

// Store uploads one rendered file under its filename as the object key
func (a *Archive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if !a.Enabled() {
		return nil
	}

	upCtx, cancel := context.WithTimeout(ctx, archiveUploadTimeout)
	defer cancel()

	_, err := a.s3Client.PutObject(upCtx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Printf("🗄️  Archived to s3://%s/%s (%d bytes)", a.bucket, key, len(data))
	return nil
}
