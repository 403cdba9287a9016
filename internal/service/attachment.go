package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"galleryapi/internal/storage"

	"github.com/google/uuid"
)

var ErrKeyRequired = errors.New("attachment key is required")

// presignExpiry bounds how long a shared attachment URL stays valid.
const presignExpiry = 15 * time.Minute

const (
	metaOriginalFilename = "original-filename"
)

// Attachment describes one stored file. Key is the storage address and the
// only handle callers need; the original filename survives as metadata for
// download dispositions.
type Attachment struct {
	Key              string    `json:"key"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	ContentType      string    `json:"content_type,omitempty"`
	Size             int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at,omitempty"`
}

// AttachmentService manages uploaded files on top of the blob storage
// namespace. Keys are generated server-side, so uploads cannot collide with
// or overwrite each other.
type AttachmentService interface {
	// Upload streams the file into storage under a fresh generated key and
	// returns the resulting attachment descriptor.
	Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64) (Attachment, error)

	// GetURI returns a time-limited URL for the attachment.
	GetURI(ctx context.Context, key string) (string, error)

	// Download opens the attachment content for streaming to the caller.
	Download(ctx context.Context, key string) (io.ReadCloser, Attachment, error)

	// List enumerates the keys of all stored attachments.
	List(ctx context.Context) ([]string, error)

	// Delete removes the attachment. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
}

type attachmentService struct {
	storage storage.Storage
}

// NewAttachmentService constructs an AttachmentService over the given storage.
func NewAttachmentService(s storage.Storage) AttachmentService {
	return &attachmentService{storage: s}
}

func (s *attachmentService) Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64) (Attachment, error) {
	// Keep the original extension on the generated key so stored objects stay
	// recognizable in bucket listings.
	key := uuid.New().String() + path.Ext(filename)

	info, err := s.storage.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			metaOriginalFilename: filename,
		},
	})
	if err != nil {
		return Attachment{}, err
	}

	return attachmentFromInfo(info), nil
}

func (s *attachmentService) GetURI(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrKeyRequired
	}
	return s.storage.PresignGet(ctx, key, presignExpiry)
}

func (s *attachmentService) Download(ctx context.Context, key string) (io.ReadCloser, Attachment, error) {
	if key == "" {
		return nil, Attachment{}, ErrKeyRequired
	}
	rc, info, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, Attachment{}, err
	}
	return rc, attachmentFromInfo(info), nil
}

func (s *attachmentService) List(ctx context.Context) ([]string, error) {
	return s.storage.List(ctx)
}

func (s *attachmentService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return s.storage.Delete(ctx, key)
}

func attachmentFromInfo(info storage.ObjectInfo) Attachment {
	return Attachment{
		Key:              info.Key,
		OriginalFilename: metadataValue(info.Metadata, metaOriginalFilename),
		ContentType:      info.ContentType,
		Size:             info.Size,
		UploadedAt:       info.LastModified,
	}
}

// metadataValue looks a key up case-insensitively; S3 backends canonicalize
// user metadata keys on the way back.
func metadataValue(meta map[string]string, key string) string {
	for k, v := range meta {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
