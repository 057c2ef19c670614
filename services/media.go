package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MaxMediaSize is the upload ceiling, enforced before any transfer.
const MaxMediaSize = 50 << 20 // 50MB

// ErrMediaNotConfigured is returned by the no-op store; issue creation
// treats it like any other ingestion failure and proceeds without media.
var ErrMediaNotConfigured = errors.New("media store not configured")

// MediaKind says whether an upload resolved to an image or a video URL.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Upload is the durable result of a successful ingestion.
type Upload struct {
	URL  string
	Kind MediaKind
}

// MediaStore ingests one uploaded binary: validate, transfer, return a
// durable URL. At most one attempt per submission, no internal retry.
type MediaStore interface {
	Ingest(ctx context.Context, data []byte, filename, contentType string) (*Upload, error)
}

var allowedExtensions = map[string]MediaKind{
	".jpeg": KindImage,
	".jpg":  KindImage,
	".png":  KindImage,
	".mp4":  KindVideo,
	".mov":  KindVideo,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"video/mp4":       true,
	"video/quicktime": true,
}

// ValidateMedia checks the allow-list and size ceiling before any
// upload attempt and reports the kind the file resolves to.
func ValidateMedia(filename, contentType string, size int64) (MediaKind, error) {
	if size > MaxMediaSize {
		return "", fmt.Errorf("file exceeds %dMB limit", MaxMediaSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q: images/videos only", ext)
	}
	if !allowedMimeTypes[strings.ToLower(contentType)] {
		return "", fmt.Errorf("unsupported content type %q: images/videos only", contentType)
	}
	return kind, nil
}

// NewMediaStoreFromEnv returns the minio-backed store when MINIO_*
// credentials are present, the logging no-op otherwise.
func NewMediaStoreFromEnv() MediaStore {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if endpoint == "" || accessKey == "" || secretKey == "" {
		logrus.Info("MINIO credentials not set, media uploads disabled")
		return logMediaStore{}
	}

	useSSL := strings.ToLower(os.Getenv("MINIO_USE_SSL")) == "true" || os.Getenv("MINIO_USE_SSL") == "1"
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to build minio client, media uploads disabled")
		return logMediaStore{}
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "civicpulse-media"
	}

	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: os.Getenv("MINIO_PUBLIC_BASE"),
		useSSL:  useSSL,
	}
}

// MinioStore streams validated uploads to a minio/S3 bucket.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	useSSL  bool
}

func (m *MinioStore) Ingest(ctx context.Context, data []byte, filename, contentType string) (*Upload, error) {
	kind, err := ValidateMedia(filename, contentType, int64(len(data)))
	if err != nil {
		return nil, err
	}

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, err
	}

	return &Upload{URL: m.publicURL(key), Kind: kind}, nil
}

func (m *MinioStore) publicURL(key string) string {
	if m.baseURL != "" {
		return strings.TrimRight(m.baseURL, "/") + "/" + key
	}
	scheme := "http://"
	if m.useSSL {
		scheme = "https://"
	}
	return scheme + m.client.EndpointURL().Host + "/" + m.bucket + "/" + key
}

// logMediaStore still validates so bad files are reported accurately,
// then declines the upload. The creation flow proceeds without media.
type logMediaStore struct{}

func (logMediaStore) Ingest(_ context.Context, data []byte, filename, contentType string) (*Upload, error) {
	if _, err := ValidateMedia(filename, contentType, int64(len(data))); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"file": filename,
		"size": len(data),
	}).Info("[MOCK MEDIA] upload skipped, store not configured")
	return nil, ErrMediaNotConfigured
}
