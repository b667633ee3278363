package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bugdesk/internal/blobstore"
	"bugdesk/internal/models"
)

// UploadService stores attachment blobs and mints signed retrieval URLs.
type UploadService struct {
	blobs   blobstore.BlobStore
	signer  *URLSigner
	baseURL string
}

// NewUploadService creates an upload service.
func NewUploadService(blobs blobstore.BlobStore, signer *URLSigner, baseURL string) *UploadService {
	return &UploadService{
		blobs:   blobs,
		signer:  signer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores one file and returns its attachment reference. The storage
// key embeds a timestamp and a fresh id, so distinct uploads of the same
// filename never collide.
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader) (models.Attachment, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		name = "file"
	}

	key := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), uuid.NewString(), name)

	if _, err := s.blobs.Put(ctx, key, r); err != nil {
		if errors.Is(err, blobstore.ErrKeyExists) {
			return models.Attachment{}, storageWrite(fmt.Errorf("storage key %q already exists", key))
		}
		return models.Attachment{}, storageWrite(err)
	}

	signedPath, err := s.signer.Sign(key)
	if err != nil {
		// The blob stays behind; the caller gets no reference to it.
		return models.Attachment{}, storageSign(err)
	}

	return models.Attachment{
		Path:     key,
		URL:      s.baseURL + signedPath,
		Filename: name,
	}, nil
}

// sanitizeFilename strips directory components and characters that have no
// place in a storage key.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" || strings.Trim(cleaned, "_") == "" {
		return ""
	}
	return cleaned
}
