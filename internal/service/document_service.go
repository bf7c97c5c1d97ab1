package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/filestore"
	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
	"github.com/xxxsen/hylur/internal/repo"
)

const pdfMimeType = "application/pdf"

type DocumentService struct {
	docs     DocumentStore
	files    filestore.Store
	maxBytes int64
}

func NewDocumentService(docs DocumentStore, files filestore.Store, maxBytes int64) *DocumentService {
	return &DocumentService{docs: docs, files: files, maxBytes: maxBytes}
}

// Upload stores a PDF body and records it. The type is taken from the content,
// not the client supplied name or header.
func (s *DocumentService) Upload(ctx context.Context, userID, originalName string, r io.ReadSeeker, size int64) (*model.Document, error) {
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, appErr.ErrFileTooLarge
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n == 0 || !strings.HasPrefix(http.DetectContentType(head[:n]), pdfMimeType) {
		return nil, appErr.ErrInvalidFile
	}
	name := strings.TrimSpace(filepath.Base(originalName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document.pdf"
	}
	now := timeutil.NowUnix()
	id := newID()
	doc := &model.Document{
		ID:           id,
		UserID:       userID,
		Filename:     id + ".pdf",
		OriginalName: name,
		FileSize:     size,
		MimeType:     pdfMimeType,
		State:        model.DocumentStateNormal,
		UploadedAt:   now,
		Mtime:        now,
	}
	doc.FilePath = doc.Filename
	if err := s.files.Save(ctx, doc.FilePath, r, size); err != nil {
		return nil, fmt.Errorf("save document body: %w", err)
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		if delErr := s.files.Delete(ctx, doc.FilePath); delErr != nil {
			logutil.GetLogger(ctx).Warn("drop orphan document body failed", zap.String("key", doc.FilePath), zap.Error(delErr))
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]model.Document, error) {
	return s.docs.List(ctx, userID, repo.ListOptions{OrderBy: "uploaded_at desc"})
}

// Open returns the document record and a reader over its stored body. The
// caller closes the reader.
func (s *DocumentService) Open(ctx context.Context, userID, docID string) (*model.Document, io.ReadCloser, error) {
	doc, err := s.docs.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.files.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, body, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID, docID string) error {
	return s.docs.SoftDelete(ctx, userID, docID, timeutil.NowUnix())
}

// PurgeDeleted removes the bodies and rows of documents deleted before cutoff.
// A body already missing from the file store does not block the row removal.
func (s *DocumentService) PurgeDeleted(ctx context.Context, cutoff int64, batch uint) (int, error) {
	docs, err := s.docs.ListDeletedBefore(ctx, cutoff, batch)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		if err := s.files.Delete(ctx, doc.FilePath); err != nil && !appErr.IsNotFound(err) {
			logutil.GetLogger(ctx).Error("purge document body failed", zap.String("doc_id", doc.ID), zap.Error(err))
			continue
		}
		if err := s.docs.HardDelete(ctx, doc.ID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
