// Package storage publishes consolidated output to S3.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
)

const uploadTimeout = 2 * time.Minute

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
}

// objectUploader is the part of manager.Uploader used here.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher uploads finished output files to a bucket.
type S3Publisher struct {
	uploader objectUploader
	bucket   string
	prefix   string
	now      func() time.Time
}

// NewS3Publisher creates a publisher for bucket.
// For LocalStack: endpoint should be "http://localhost:4566"
// For production AWS: endpoint should be ""
func NewS3Publisher(ctx context.Context, bucket, region, prefix, endpoint string) (*S3Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if endpoint != "" {
		// LocalStack accepts any static credentials.
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Publisher{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		now:      time.Now,
	}, nil
}

// ObjectKey builds the key for one output file.
// Format: {prefix}/{runID}/{timestamp}-{filename}
func (p *S3Publisher) ObjectKey(runID, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSuffix(filename, ext))

	name := fmt.Sprintf("%d-%s%s", p.now().UTC().Unix(), base, ext)
	return path.Join(p.prefix, runID, name)
}

// Publish uploads the file at target, or every regular file directly inside
// it when target is a directory, and returns the object keys.
func (p *S3Publisher) Publish(ctx context.Context, runID, target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", target, err)
	}

	files := []string{target}
	if info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", target, err)
		}
		files = files[:0]
		for _, e := range entries {
			if e.Type().IsRegular() {
				files = append(files, filepath.Join(target, e.Name()))
			}
		}
	}

	var keys []string
	for _, file := range files {
		key, err := p.upload(ctx, runID, file)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *S3Publisher) upload(ctx context.Context, runID, file string) (string, error) {
	log := logger.WithComponent("storage")

	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	key := p.ObjectKey(runID, filepath.Base(file))
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(file))]; ok {
		input.ContentType = aws.String(ct)
	}

	ctxUpload, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if _, err := p.uploader.Upload(ctxUpload, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	log.Info().Str("bucket", p.bucket).Str("key", key).Msg("Uploaded output")
	return key, nil
}
