package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Store keeps a copy of every exported report.
type Store interface {
	// Save stores data under name and returns where it went.
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// fileStore writes reports into a local directory.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "report-file-store").Logger(),
	}
}

func (s *fileStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", s.dir).Msg("failed to create archive directory")
		return "", fmt.Errorf("failed to create archive directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to write report")
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	s.logger.Info().Str("file", path).Int("bytes", len(data)).Msg("report archived")
	return path, nil
}

// objectPutter is the subset of the S3 client the store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store uploads reports to an S3 bucket.
type s3Store struct {
	client objectPutter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed store using the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "report-s3-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 report store initialised")

	return newS3Store(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Store(client objectPutter, bucket, prefix string, logger zerolog.Logger) *s3Store {
	return &s3Store{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

func (s *s3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s.prefix + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.logger.Info().Str("location", location).Int("bytes", len(data)).Msg("report archived")
	return location, nil
}

// fallbackStore tries the remote store first and falls back to the local one.
type fallbackStore struct {
	remote Store
	local  Store
	logger zerolog.Logger
}

// NewFallbackStore creates a store that tries remote, then local. A nil remote
// means local only.
func NewFallbackStore(remote, local Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		remote: remote,
		local:  local,
		logger: logger.With().Str("component", "report-fallback-store").Logger(),
	}
}

func (s *fallbackStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if s.remote != nil {
		location, err := s.remote.Save(ctx, name, data)
		if err == nil {
			return location, nil
		}
		s.logger.Warn().
			Err(err).
			Str("name", name).
			Msg("remote archive failed, falling back to local store")
	}
	return s.local.Save(ctx, name, data)
}
