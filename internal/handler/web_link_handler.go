package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/hylur/internal/pkg/errcode"
	"github.com/xxxsen/hylur/internal/pkg/response"
	"github.com/xxxsen/hylur/internal/service"
)

type WebLinkHandler struct {
	links *service.WebLinkService
}

func NewWebLinkHandler(links *service.WebLinkService) *WebLinkHandler {
	return &WebLinkHandler{links: links}
}

type createWebLinkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (h *WebLinkHandler) List(c *gin.Context) {
	links, err := h.links.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, links)
}

func (h *WebLinkHandler) Create(c *gin.Context) {
	var req createWebLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	link, err := h.links.Create(c.Request.Context(), getUserID(c), service.CreateWebLinkInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, link)
}

func (h *WebLinkHandler) Delete(c *gin.Context) {
	if err := h.links.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
