package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"galleryapi/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible
// backend (MinIO, AWS S3, etc.), namespaced under bucket/prefix.
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{
		client: cli,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// objectKey places key under the configured prefix.
func (m *minioStorage) objectKey(key string) string {
	return path.Join(m.prefix, key)
}

// Put uploads an object using streaming I/O only (no local disk). Keys are
// write-once; a stat check enforces it. Generated keys are 128-bit random,
// so the stat/put window is not a practical race.
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	full := m.objectKey(key)

	_, err := m.client.StatObject(ctx, m.bucket, full, minio.StatObjectOptions{})
	if err == nil {
		return ObjectInfo{}, ErrObjectExists
	}
	if terr := translateErr(err); !errors.Is(terr, ErrObjectNotFound) {
		return ObjectInfo{}, terr
	}

	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, full, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, translateErr(err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // MinIO PutObjectInfo doesn't return LastModified
		Metadata:     opt.Metadata,
	}, nil
}

// Get downloads an object content as a ReadCloser along with basic info.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, translateErr(err)
	}
	// Fetch stat to populate info; avoid reading content into memory.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, translateErr(err)
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}
	return obj, info, nil
}

// Delete removes an object by key. Removing an absent key is a success.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, m.objectKey(key), minio.RemoveObjectOptions{})
	if terr := translateErr(err); terr != nil && !errors.Is(terr, ErrObjectNotFound) {
		return terr
	}
	return nil
}

// PresignGet generates a pre-signed URL for GET with the specified expiry.
// The object must exist.
func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	full := m.objectKey(key)

	if _, err := m.client.StatObject(ctx, m.bucket, full, minio.StatObjectOptions{}); err != nil {
		return "", translateErr(err)
	}

	u, err := m.client.PresignedGetObject(ctx, m.bucket, full, expiry, url.Values{})
	if err != nil {
		return "", translateErr(err)
	}
	return u.String(), nil
}

// List enumerates all keys under the namespace, flattening the backend's
// paginated listing into one slice with the prefix stripped.
func (m *minioStorage) List(ctx context.Context) ([]string, error) {
	opts := minio.ListObjectsOptions{Recursive: true}
	if m.prefix != "" {
		opts.Prefix = m.prefix + "/"
	}

	keys := make([]string, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, opts) {
		if obj.Err != nil {
			return nil, translateErr(obj.Err)
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, opts.Prefix))
	}
	return keys, nil
}

// translateErr maps minio errors to the storage error taxonomy.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrObjectNotFound
	case "":
		// Not an S3 error response: transport-level failure.
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
