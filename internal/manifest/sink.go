package manifest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/natefinch/atomic"
)

// Sink persists a serialized manifest.
type Sink interface {
	Put(ctx context.Context, data []byte) error
	// String identifies the destination in the run summary.
	String() string
}

// S3Config configures the object store used for s3:// destinations.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Open returns the sink for dest: "-" writes to stdout, "s3://bucket/key"
// uploads to an S3-compatible store, anything else is a local file path.
func Open(dest string, stdout io.Writer, s3 S3Config) (Sink, error) {
	dest = strings.TrimSpace(dest)
	switch {
	case dest == "":
		return nil, fmt.Errorf("manifest destination is required")
	case dest == "-":
		return &writerSink{w: stdout}, nil
	case strings.HasPrefix(dest, "s3://"):
		bucket, key, err := ParseS3URL(dest)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(s3, bucket, key)
	default:
		return &FileSink{Path: dest}, nil
	}
}

// Write encodes m for the sink's destination and stores it.
func Write(ctx context.Context, s Sink, m Manifest) error {
	data, err := Encode(m, FormatFor(s.String()))
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.Put(ctx, data); err != nil {
		return fmt.Errorf("write manifest %s: %w", s.String(), err)
	}
	return nil
}

type writerSink struct{ w io.Writer }

func (s *writerSink) Put(_ context.Context, data []byte) error {
	_, err := s.w.Write(data)
	return err
}

func (s *writerSink) String() string { return "-" }

// FileSink replaces a local file atomically, creating parent directories.
type FileSink struct{ Path string }

func (s *FileSink) Put(_ context.Context, data []byte) error {
	if dir := filepath.Dir(s.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	_, statErr := os.Stat(s.Path)
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return err
	}
	if os.IsNotExist(statErr) {
		// new files would keep the 0600 of the temp file
		return os.Chmod(s.Path, 0o644)
	}
	return nil
}

func (s *FileSink) String() string { return s.Path }

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs bucket and key: %s", raw)
	}
	return bucket, key, nil
}

// S3Sink uploads the manifest as a single object.
type S3Sink struct {
	client *minio.Client
	bucket string
	key    string
	region string

	initOnce sync.Once
	initErr  error
}

// NewS3Sink builds a MinIO client for cfg. No request is made until Put.
func NewS3Sink(cfg S3Config, bucket, key string) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{client: client, bucket: bucket, key: key, region: region}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Sink) Put(ctx context.Context, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	contentType := "application/json"
	if FormatFor(s.key) == FormatYAML {
		contentType = "application/yaml"
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *S3Sink) String() string { return "s3://" + s.bucket + "/" + s.key }
