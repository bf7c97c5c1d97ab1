package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/hylur/internal/pkg/errcode"
	"github.com/xxxsen/hylur/internal/pkg/response"
	"github.com/xxxsen/hylur/internal/service"
)

// multipartOverhead leaves room for the form envelope around the file part.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	documents *service.DocumentService
	maxBytes  int64
}

func NewDocumentHandler(documents *service.DocumentService, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{documents: documents, maxBytes: maxBytes}
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, docs)
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, errcode.ErrFileTooLarge, "file exceeds "+formatUploadLimit(h.maxBytes))
			return
		}
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		response.Error(c, errcode.ErrFileTooLarge, "file exceeds "+formatUploadLimit(h.maxBytes))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "failed to read upload")
		return
	}
	defer func() { _ = opened.Close() }()
	doc, err := h.documents.Upload(c.Request.Context(), getUserID(c), file.Filename, opened, file.Size)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Download(c *gin.Context) {
	doc, body, err := h.documents.Open(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer func() { _ = body.Close() }()
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName})
	c.DataFromReader(http.StatusOK, doc.FileSize, doc.MimeType, body, map[string]string{
		"Content-Disposition": disposition,
	})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
