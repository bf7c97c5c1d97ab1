package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/service/servicetest"
)

func strPtr(s string) *string { return &s }

func TestDataTableCreate(t *testing.T) {
	svc := NewDataTableService(servicetest.NewDataTables())

	_, err := svc.Create(context.Background(), "u1", CreateDataTableInput{Name: "  ", Columns: []model.Column{{Name: "a"}}})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Create(context.Background(), "u1", CreateDataTableInput{Name: "x"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	table, err := svc.Create(context.Background(), "u1", CreateDataTableInput{
		Name:    " Revenue ",
		Columns: []model.Column{{Name: "Month", Type: "DATE"}, {Name: "Total", Type: "number"}, {Name: "Note"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Revenue", table.Name)
	require.Equal(t, []model.Column{
		{Name: "Month", Type: model.ColumnTypeDate},
		{Name: "Total", Type: model.ColumnTypeNumber},
		{Name: "Note", Type: model.ColumnTypeString},
	}, table.Columns)
	require.NotNil(t, table.Rows)
	require.Empty(t, table.Rows)
}

func TestDataTablePartialUpdate(t *testing.T) {
	svc := NewDataTableService(servicetest.NewDataTables())
	table, err := svc.Create(context.Background(), "u1", CreateDataTableInput{
		Name:        "Revenue",
		Description: "monthly",
		Columns:     []model.Column{{Name: "Month", Type: model.ColumnTypeDate}, {Name: "Total", Type: model.ColumnTypeNumber}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "u1", table.ID, UpdateDataTableInput{
		Rows: json.RawMessage(`[["2024-01-01", 12.5], ["2024-02-01", "7"], [null, null]]`),
	})
	require.NoError(t, err)
	require.Equal(t, "monthly", updated.Description)
	require.Len(t, updated.Rows, 3)
	require.Equal(t, 7.0, updated.Rows[1][1].Num)
	require.True(t, updated.Rows[2][0].Null)

	updated, err = svc.Update(context.Background(), "u1", table.ID, UpdateDataTableInput{Name: strPtr("Sales")})
	require.NoError(t, err)
	require.Equal(t, "Sales", updated.Name)
	require.Len(t, updated.Rows, 3)

	// dropping a column orphans the stored rows unless they are replaced
	_, err = svc.Update(context.Background(), "u1", table.ID, UpdateDataTableInput{
		Columns: []model.Column{{Name: "Month", Type: model.ColumnTypeDate}},
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	updated, err = svc.Update(context.Background(), "u1", table.ID, UpdateDataTableInput{
		Columns: []model.Column{{Name: "Month", Type: model.ColumnTypeDate}},
		Rows:    json.RawMessage(`[["2024-03-01"]]`),
	})
	require.NoError(t, err)
	require.Len(t, updated.Columns, 1)
	require.Len(t, updated.Rows, 1)

	_, err = svc.Update(context.Background(), "u1", table.ID, UpdateDataTableInput{Rows: json.RawMessage(`[["not a date"]]`)})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Update(context.Background(), "u2", table.ID, UpdateDataTableInput{Name: strPtr("x")})
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDataTableListAndDelete(t *testing.T) {
	svc := NewDataTableService(servicetest.NewDataTables())
	table, err := svc.Create(context.Background(), "u1", CreateDataTableInput{Name: "a", Columns: []model.Column{{Name: "c"}}})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, svc.Delete(context.Background(), "u2", table.ID), appErr.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), "u1", table.ID))
	_, err = svc.Get(context.Background(), "u1", table.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
