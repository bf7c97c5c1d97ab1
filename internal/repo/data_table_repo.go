package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/pkg/dbutil"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

var dataTableFields = []string{"id", "user_id", "name", "description", "column_defs", "row_data", "ctime", "mtime"}

// dataTableRow holds the JSONB columns until they can be decoded.
type dataTableRow struct {
	table   model.DataTable
	columns []byte
	rows    []byte
}

func (d *dataTableRow) targets() map[string]interface{} {
	return map[string]interface{}{
		"id":          &d.table.ID,
		"user_id":     &d.table.UserID,
		"name":        &d.table.Name,
		"description": &d.table.Description,
		"column_defs": &d.columns,
		"row_data":    &d.rows,
		"ctime":       &d.table.Ctime,
		"mtime":       &d.table.Mtime,
	}
}

func (d *dataTableRow) decode() (model.DataTable, error) {
	if d.columns != nil {
		columns, err := model.ParseColumns(d.columns)
		if err != nil {
			return model.DataTable{}, err
		}
		d.table.Columns = columns
	}
	if d.rows != nil {
		rows, err := model.ParseRows(d.table.Columns, d.rows)
		if err != nil {
			return model.DataTable{}, err
		}
		d.table.Rows = rows
	}
	return d.table, nil
}

type DataTableRepo struct {
	db *sql.DB
}

func NewDataTableRepo(db *sql.DB) *DataTableRepo {
	return &DataTableRepo{db: db}
}

func encodeTable(table *model.DataTable) (string, string, error) {
	columns := table.Columns
	if columns == nil {
		columns = []model.Column{}
	}
	rows := table.Rows
	if rows == nil {
		rows = []model.Row{}
	}
	rawColumns, err := json.Marshal(columns)
	if err != nil {
		return "", "", err
	}
	rawRows, err := json.Marshal(rows)
	if err != nil {
		return "", "", err
	}
	return string(rawColumns), string(rawRows), nil
}

func (r *DataTableRepo) Create(ctx context.Context, table *model.DataTable) error {
	columns, rows, err := encodeTable(table)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":          table.ID,
		"user_id":     table.UserID,
		"name":        table.Name,
		"description": table.Description,
		"column_defs": columns,
		"row_data":    rows,
		"ctime":       table.Ctime,
		"mtime":       table.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("data_tables", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *DataTableRepo) Update(ctx context.Context, table *model.DataTable) error {
	columns, rows, err := encodeTable(table)
	if err != nil {
		return err
	}
	where := map[string]interface{}{
		"id":      table.ID,
		"user_id": table.UserID,
	}
	update := map[string]interface{}{
		"name":        table.Name,
		"description": table.Description,
		"column_defs": columns,
		"row_data":    rows,
		"mtime":       table.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("data_tables", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return execAffecting(ctx, r.db, sqlStr, args)
}

func (r *DataTableRepo) Delete(ctx context.Context, userID, tableID string) error {
	where := map[string]interface{}{
		"id":      tableID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildDelete("data_tables", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return execAffecting(ctx, r.db, sqlStr, args)
}

func (r *DataTableRepo) GetByID(ctx context.Context, userID, tableID string) (*model.DataTable, error) {
	where := map[string]interface{}{
		"id":      tableID,
		"user_id": userID,
	}
	tables, err := r.query(ctx, where, dataTableFields)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &tables[0], nil
}

// List returns the tables of userID. Keyword matches name or description.
// Selecting row_data implies column_defs, which the cells are decoded against.
func (r *DataTableRepo) List(ctx context.Context, userID string, opts ListOptions) ([]model.DataTable, error) {
	fields, err := selectFields(opts.Fields, dataTableFields)
	if err != nil {
		return nil, err
	}
	if contains(fields, "row_data") && !contains(fields, "column_defs") {
		fields = append(fields, "column_defs")
	}
	order, err := orderClause(opts.OrderBy, dataTableFields, "mtime desc")
	if err != nil {
		return nil, err
	}
	where := map[string]interface{}{
		"user_id": userID,
	}
	if opts.Keyword != "" {
		where["_custom_keyword"] = keywordFilter(opts.Keyword, "name", "description")
	}
	applyList(where, opts, order)
	return r.query(ctx, where, fields)
}

func (r *DataTableRepo) Count(ctx context.Context, userID string) (int, error) {
	sqlStr, args := dbutil.Finalize("SELECT COUNT(*) FROM data_tables WHERE user_id=?", []interface{}{userID})
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DataTableRepo) query(ctx context.Context, where map[string]interface{}, fields []string) ([]model.DataTable, error) {
	sqlStr, args, err := builder.BuildSelect("data_tables", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	tables := make([]model.DataTable, 0)
	for rows.Next() {
		var row dataTableRow
		if err := rows.Scan(scanTargets(fields, row.targets())...); err != nil {
			return nil, err
		}
		table, err := row.decode()
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}
