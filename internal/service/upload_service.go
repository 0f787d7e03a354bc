package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"ragrids/internal/cache"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/logging"
	"ragrids/internal/model"
	"ragrids/internal/repository"
	"ragrids/internal/storage"
)

// Upload is a document received from a customer.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService stores customer documents and records them on the profile.
type UploadService interface {
	UploadDocument(ctx context.Context, userID string, in Upload) (*model.FileRef, error)
}

type uploadService struct {
	repo  repository.UserRepository
	blobs storage.BlobStore
	cache *cache.Client
}

// NewUploadService creates an UploadService.
func NewUploadService(repo repository.UserRepository, blobs storage.BlobStore, cache *cache.Client) UploadService {
	return &uploadService{repo: repo, blobs: blobs, cache: cache}
}

// UploadDocument puts the blob under users/<id>/ and appends the reference.
func (s *uploadService) UploadDocument(ctx context.Context, userID string, in Upload) (*model.FileRef, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ext := strings.ToLower(path.Ext(in.Name))
	key := fmt.Sprintf("users/%s/%s%s", userID, uuid.NewString(), ext)

	url, err := s.blobs.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	ref := model.FileRef{
		URL:          url,
		OriginalName: in.Name,
		FileType:     fileTypeOf(ext, in.ContentType),
	}
	user, err := s.repo.AppendFile(ctx, userID, ref)
	if err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(derr).Str("key", key).Msg("failed to remove orphaned document")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("append file: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID), customersCacheKey)

	if n := len(user.Files); n > 0 {
		last := user.Files[n-1]
		return &last, nil
	}
	return &ref, nil
}

// fileTypeOf prefers the extension and falls back to the content type family.
// Unrecognised uploads carry no hint.
func fileTypeOf(ext, contentType string) string {
	if kind := model.KindFromExtension(ext); kind != model.FileKindOther {
		return kind
	}
	ct := strings.ToLower(contentType)
	switch {
	case ct == "application/pdf":
		return model.FileKindPDF
	case strings.HasPrefix(ct, "image/"):
		return model.FileKindImage
	case ct == "text/csv", strings.Contains(ct, "spreadsheet"), strings.Contains(ct, "ms-excel"):
		return model.FileKindSpreadsheet
	case ct == "application/msword", strings.Contains(ct, "wordprocessing"):
		return model.FileKindDocument
	default:
		return ""
	}
}
