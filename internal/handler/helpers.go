package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/middleware"
	"github.com/xxxsen/hylur/internal/pkg/errcode"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/response"
	"github.com/xxxsen/hylur/internal/service"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, service.ErrRegisterDisabled):
		response.Error(c, errcode.ErrRegisterDisabled, "registration is disabled")
	case errors.Is(err, knowledge.ErrSearchUnavailable):
		response.Error(c, errcode.ErrSearchUnavailable, "failed to perform search")
	case errors.Is(err, knowledge.ErrKnowledgeStoreUnavailable):
		response.Error(c, errcode.ErrKnowledgeUnavailable, "knowledge base unavailable")
	case errors.Is(err, service.ErrAIUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai service unavailable")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalidFile):
		response.Error(c, errcode.ErrInvalidFile, "only PDF files are allowed")
	case errors.Is(err, appErr.ErrFileTooLarge):
		response.Error(c, errcode.ErrFileTooLarge, "file too large")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func formatUploadLimit(bytes int64) string {
	const mb = 1024 * 1024
	if bytes <= 0 {
		return "0MB"
	}
	value := bytes / mb
	if value <= 0 {
		value = 1
	}
	return strconv.FormatInt(value, 10) + "MB"
}
