package sensorstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/assistant-actions/internal/domain/device"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// S3Store keeps the last sensor reading as one object in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Store constructs the object storage backend.
func NewS3Store(endpoint, accessKey, secretKey, bucket, key, region string, logger *slog.Logger) (*S3Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("sensor record bucket cannot be empty")
	}
	if strings.TrimSpace(key) == "" {
		key = "gen3_ht_data.json"
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "https"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: bucket, key: key, logger: logger.With("component", "sensorstore.s3")}, nil
}

// Load fetches the current object.
func (s *S3Store) Load(ctx context.Context) (device.SensorReading, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return device.SensorReading{}, fmt.Errorf("get sensor record: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return device.SensorReading{}, apperrors.Wrap(apperrors.CodeNotFound, "no sensor record in bucket", err)
		}
		return device.SensorReading{}, fmt.Errorf("read sensor record: %w", err)
	}
	return decode(data)
}

// Save uploads the record, creating the bucket on first use.
func (s *S3Store) Save(ctx context.Context, reading device.SensorReading) error {
	data, err := encode(reading)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure sensor bucket: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("put sensor record: %w", err)
	}
	s.logger.Debug("sensor record uploaded", "bucket", s.bucket, "key", s.key, "bytes", len(data))
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// sanitizeEndpoint strips scheme and path; minio.New wants host[:port].
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
