package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/pkg/errcode"
	"github.com/xxxsen/hylur/internal/pkg/response"
	"github.com/xxxsen/hylur/internal/service"
)

type SearchHandler struct {
	searcher *knowledge.Searcher
}

func NewSearchHandler(searcher *knowledge.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searcher.Search(c.Request.Context(), getUserID(c), c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": results})
}

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	reply, err := h.chat.Chat(c.Request.Context(), getUserID(c), req.Message)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, reply)
}

type DashboardHandler struct {
	dashboard *knowledge.Dashboard
}

func NewDashboardHandler(dashboard *knowledge.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, overview)
}
