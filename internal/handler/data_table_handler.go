package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/pkg/errcode"
	"github.com/xxxsen/hylur/internal/pkg/response"
	"github.com/xxxsen/hylur/internal/service"
)

type DataTableHandler struct {
	tables *service.DataTableService
}

func NewDataTableHandler(tables *service.DataTableService) *DataTableHandler {
	return &DataTableHandler{tables: tables}
}

type createDataTableRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Columns     []model.Column `json:"columns"`
}

type updateDataTableRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Columns     []model.Column  `json:"columns"`
	Rows        json.RawMessage `json:"rows"`
}

func (h *DataTableHandler) List(c *gin.Context) {
	tables, err := h.tables.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, tables)
}

func (h *DataTableHandler) Create(c *gin.Context) {
	var req createDataTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	table, err := h.tables.Create(c.Request.Context(), getUserID(c), service.CreateDataTableInput{
		Name:        req.Name,
		Description: req.Description,
		Columns:     req.Columns,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, table)
}

func (h *DataTableHandler) Get(c *gin.Context) {
	table, err := h.tables.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, table)
}

func (h *DataTableHandler) Update(c *gin.Context) {
	var req updateDataTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	table, err := h.tables.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.UpdateDataTableInput{
		Name:        req.Name,
		Description: req.Description,
		Columns:     req.Columns,
		Rows:        req.Rows,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, table)
}

func (h *DataTableHandler) Delete(c *gin.Context) {
	if err := h.tables.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
