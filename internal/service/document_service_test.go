package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/hylur/internal/config"
	"github.com/xxxsen/hylur/internal/filestore"
	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
	"github.com/xxxsen/hylur/internal/service/servicetest"
)

const samplePDF = "%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << >>\n%%EOF\n"

func newDocumentService(t *testing.T, docs *servicetest.Documents, maxBytes int64) (*DocumentService, filestore.Store) {
	t.Helper()
	files, err := filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	return NewDocumentService(docs, files, maxBytes), files
}

func TestDocumentUploadAndDownload(t *testing.T) {
	docs := servicetest.NewDocuments()
	svc, _ := newDocumentService(t, docs, 1024)

	doc, err := svc.Upload(context.Background(), "u1", "../../Business Plan.pdf", strings.NewReader(samplePDF), int64(len(samplePDF)))
	require.NoError(t, err)
	require.Equal(t, "Business Plan.pdf", doc.OriginalName)
	require.Equal(t, doc.ID+".pdf", doc.Filename)
	require.Equal(t, "application/pdf", doc.MimeType)
	require.Equal(t, int64(len(samplePDF)), doc.FileSize)

	got, body, err := svc.Open(context.Background(), "u1", doc.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.Equal(t, samplePDF, string(data))
	require.Equal(t, doc.ID, got.ID)

	_, _, err = svc.Open(context.Background(), "u2", doc.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDocumentUploadRejects(t *testing.T) {
	svc, _ := newDocumentService(t, servicetest.NewDocuments(), 64)

	_, err := svc.Upload(context.Background(), "u1", "a.pdf", strings.NewReader("plain text pretending"), 21)
	require.ErrorIs(t, err, appErr.ErrInvalidFile)

	_, err = svc.Upload(context.Background(), "u1", "empty.pdf", bytes.NewReader(nil), 0)
	require.ErrorIs(t, err, appErr.ErrInvalidFile)

	big := samplePDF + strings.Repeat("x", 100)
	_, err = svc.Upload(context.Background(), "u1", "big.pdf", strings.NewReader(big), int64(len(big)))
	require.ErrorIs(t, err, appErr.ErrFileTooLarge)
}

func TestDocumentUploadDropsBodyWhenRecordFails(t *testing.T) {
	docs := servicetest.NewDocuments()
	docs.CreateErr = errors.New("db down")
	dir := t.TempDir()
	files, err := filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": dir}})
	require.NoError(t, err)
	svc := NewDocumentService(docs, files, 1024)

	_, err = svc.Upload(context.Background(), "u1", "a.pdf", strings.NewReader(samplePDF), int64(len(samplePDF)))
	require.ErrorContains(t, err, "db down")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDocumentDeleteAndPurge(t *testing.T) {
	docs := servicetest.NewDocuments()
	svc, files := newDocumentService(t, docs, 1024)
	doc, err := svc.Upload(context.Background(), "u1", "a.pdf", strings.NewReader(samplePDF), int64(len(samplePDF)))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), "u2", doc.ID), appErr.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), "u1", doc.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), "u1", doc.ID), appErr.ErrNotFound)

	// still inside the grace period
	n, err := svc.PurgeDeleted(context.Background(), timeutil.NowUnix()-3600, 10)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = svc.PurgeDeleted(context.Background(), timeutil.NowUnix()+1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = files.Open(context.Background(), doc.FilePath)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.Empty(t, docs.Docs)
}

func TestDocumentPurgeToleratesMissingBody(t *testing.T) {
	docs := servicetest.NewDocuments()
	docs.Docs["gone"] = model.Document{ID: "gone", UserID: "u1", FilePath: "gone.pdf", State: model.DocumentStateDeleted, Mtime: 1}
	svc, _ := newDocumentService(t, docs, 1024)

	n, err := svc.PurgeDeleted(context.Background(), 100, 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
