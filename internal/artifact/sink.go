// Package artifact uploads generated source files to object storage and
// returns receipts. Packaging is a collaborator of the pipeline, not part
// of it: the sink only consumes (code, name) pairs.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config locates the S3-compatible endpoint.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Receipt records where one generated file landed.
type Receipt struct {
	Key       string    `json:"key"`
	URL       string    `json:"url,omitempty"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sink writes generated code into a bucket keyed by session and component
// name.
type Sink struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func NewSink(cfg Config) (*Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("artifact endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("artifact access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		bucket = "figmacursor-artifacts"
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
		return nil, fmt.Errorf("init artifact client: %w", err)
	}
	return &Sink{client: client, bucket: bucket, region: region}, nil
}

func (s *Sink) ensureBucket(ctx context.Context) error {
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

// Put uploads one generated source file and returns its receipt with a
// presigned download URL.
func (s *Sink) Put(ctx context.Context, sessionID, name, code string) (Receipt, error) {
	if s == nil || s.client == nil {
		return Receipt{}, fmt.Errorf("sink is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	name = strings.TrimSpace(name)
	if sessionID == "" || name == "" {
		return Receipt{}, fmt.Errorf("session id and component name are required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return Receipt{}, fmt.Errorf("ensure bucket: %w", err)
	}

	key := objectKey(sessionID, name)
	body := []byte(code)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/javascript",
	})
	if err != nil {
		return Receipt{}, err
	}

	rec := Receipt{Key: key, Size: len(body), CreatedAt: time.Now().UTC()}
	if u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, nil); err == nil {
		rec.URL = u.String()
	}
	return rec, nil
}

func objectKey(sessionID, name string) string {
	file := sanitizeName(name)
	return sessionID + "/" + file + ".jsx"
}

// sanitizeName converts a component name into a safe file stem.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "component"
	}
	return b.String()
}
