package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

type ColumnType string

const (
	ColumnTypeString ColumnType = "string"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeDate   ColumnType = "date"
)

const dateLayout = "2006-01-02"

func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeString, ColumnTypeNumber, ColumnTypeDate:
		return true
	}
	return false
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Cell holds one typed value. Exactly one of Str, Num or Date is meaningful,
// chosen by Type, unless Null is set.
type Cell struct {
	Type ColumnType
	Null bool
	Str  string
	Num  float64
	Date time.Time
}

type Row []Cell

type DataTable struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns"`
	Rows        []Row    `json:"rows"`
	Ctime       int64    `json:"ctime"`
	Mtime       int64    `json:"mtime"`
}

func StringCell(v string) Cell {
	return Cell{Type: ColumnTypeString, Str: v}
}

func NumberCell(v float64) Cell {
	return Cell{Type: ColumnTypeNumber, Num: v}
}

func DateCell(v time.Time) Cell {
	return Cell{Type: ColumnTypeDate, Date: v.UTC()}
}

func NullCell(t ColumnType) Cell {
	return Cell{Type: t, Null: true}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Null {
		return []byte("null"), nil
	}
	switch c.Type {
	case ColumnTypeNumber:
		return json.Marshal(c.Num)
	case ColumnTypeDate:
		if c.Date.Equal(c.Date.Truncate(24 * time.Hour)) {
			return json.Marshal(c.Date.Format(dateLayout))
		}
		return json.Marshal(c.Date.Format(time.RFC3339))
	default:
		return json.Marshal(c.Str)
	}
}

// ValidateColumns checks names and declared types and returns a normalized copy.
func ValidateColumns(columns []Column) ([]Column, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: at least one column is required", appErr.ErrInvalid)
	}
	out := make([]Column, 0, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", appErr.ErrInvalid, i)
		}
		typ := ColumnType(strings.ToLower(strings.TrimSpace(string(col.Type))))
		if typ == "" {
			typ = ColumnTypeString
		}
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: column %q has unknown type %q", appErr.ErrInvalid, name, col.Type)
		}
		out = append(out, Column{Name: name, Type: typ})
	}
	return out, nil
}

// ParseColumns decodes and validates a JSON column list.
func ParseColumns(raw []byte) ([]Column, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty columns", appErr.ErrInvalid)
	}
	var columns []Column
	if err := json.Unmarshal(raw, &columns); err != nil {
		return nil, fmt.Errorf("%w: decode columns: %v", appErr.ErrInvalid, err)
	}
	return ValidateColumns(columns)
}

// ParseRows decodes a JSON array of arrays against the declared columns. Every
// row must have one value per column and each value must fit its column type.
func ParseRows(columns []Column, raw []byte) ([]Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Row{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var values [][]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", appErr.ErrInvalid, err)
	}
	return BuildRows(columns, values)
}

// BuildRows converts loosely typed values, as produced by a JSON decoder, into typed rows.
func BuildRows(columns []Column, values [][]interface{}) ([]Row, error) {
	rows := make([]Row, 0, len(values))
	for i, raw := range values {
		if len(raw) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", appErr.ErrInvalid, i, len(raw), len(columns))
		}
		row := make(Row, 0, len(columns))
		for j, col := range columns {
			cell, err := parseCell(col.Type, raw[j])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", appErr.ErrInvalid, i, col.Name, err)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CheckRows revalidates typed rows after a column change.
func CheckRows(columns []Column, rows []Row) error {
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", appErr.ErrInvalid, i, len(row), len(columns))
		}
		for j, cell := range row {
			if cell.Type != columns[j].Type {
				return fmt.Errorf("%w: row %d column %q holds %s", appErr.ErrInvalid, i, columns[j].Name, cell.Type)
			}
		}
	}
	return nil
}

// finiteCell rejects NaN and infinities, which JSON cannot carry.
func finiteCell(f float64, raw string) (Cell, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}, fmt.Errorf("not a finite number: %q", raw)
	}
	return NumberCell(f), nil
}

func parseCell(typ ColumnType, value interface{}) (Cell, error) {
	if value == nil {
		return NullCell(typ), nil
	}
	switch typ {
	case ColumnTypeString:
		switch v := value.(type) {
		case string:
			return StringCell(v), nil
		case json.Number:
			return StringCell(v.String()), nil
		case bool:
			return StringCell(strconv.FormatBool(v)), nil
		}
	case ColumnTypeNumber:
		switch v := value.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return Cell{}, err
			}
			return finiteCell(f, v.String())
		case float64:
			return finiteCell(v, strconv.FormatFloat(v, 'g', -1, 64))
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				return NullCell(typ), nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Cell{}, fmt.Errorf("not a number: %q", v)
			}
			return finiteCell(f, v)
		}
	case ColumnTypeDate:
		if v, ok := value.(string); ok {
			s := strings.TrimSpace(v)
			if s == "" {
				return NullCell(typ), nil
			}
			if t, err := time.Parse(dateLayout, s); err == nil {
				return DateCell(t), nil
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return DateCell(t), nil
			}
			return Cell{}, fmt.Errorf("not a date: %q", v)
		}
	}
	return Cell{}, fmt.Errorf("unexpected %T for %s column", value, typ)
}
