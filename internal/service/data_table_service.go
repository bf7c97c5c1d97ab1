package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
	"github.com/xxxsen/hylur/internal/repo"
)

type CreateDataTableInput struct {
	Name        string
	Description string
	Columns     []model.Column
}

// UpdateDataTableInput carries a partial update. Nil fields are left alone.
type UpdateDataTableInput struct {
	Name        *string
	Description *string
	Columns     []model.Column
	Rows        json.RawMessage
}

type DataTableService struct {
	tables DataTableStore
}

func NewDataTableService(tables DataTableStore) *DataTableService {
	return &DataTableService{tables: tables}
}

func (s *DataTableService) Create(ctx context.Context, userID string, input CreateDataTableInput) (*model.DataTable, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	columns, err := model.ValidateColumns(input.Columns)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	table := &model.DataTable{
		ID:          newID(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Columns:     columns,
		Rows:        []model.Row{},
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.tables.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *DataTableService) Get(ctx context.Context, userID, tableID string) (*model.DataTable, error) {
	return s.tables.GetByID(ctx, userID, tableID)
}

// List returns table summaries without row data, most recently updated first.
func (s *DataTableService) List(ctx context.Context, userID string) ([]model.DataTable, error) {
	return s.tables.List(ctx, userID, repo.ListOptions{
		OrderBy: "mtime desc",
		Fields:  []string{"user_id", "name", "description", "column_defs", "ctime", "mtime"},
	})
}

// Update applies input over the stored table. Rows are always rechecked
// against the resulting columns, so a column change that orphans existing
// rows is rejected unless replacement rows are supplied.
func (s *DataTableService) Update(ctx context.Context, userID, tableID string, input UpdateDataTableInput) (*model.DataTable, error) {
	table, err := s.tables.GetByID(ctx, userID, tableID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
		}
		table.Name = name
	}
	if input.Description != nil {
		table.Description = strings.TrimSpace(*input.Description)
	}
	if input.Columns != nil {
		columns, err := model.ValidateColumns(input.Columns)
		if err != nil {
			return nil, err
		}
		table.Columns = columns
	}
	if input.Rows != nil {
		rows, err := model.ParseRows(table.Columns, input.Rows)
		if err != nil {
			return nil, err
		}
		table.Rows = rows
	} else if err := model.CheckRows(table.Columns, table.Rows); err != nil {
		return nil, err
	}
	table.Mtime = timeutil.NowUnix()
	if err := s.tables.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *DataTableService) Delete(ctx context.Context, userID, tableID string) error {
	return s.tables.Delete(ctx, userID, tableID)
}
