// Package knowledge builds request-scoped views over a user's documents, data
// tables and web links: the grounding context handed to the chat model, the
// federated substring search and the dashboard overview.
package knowledge

import (
	"context"

	"github.com/xxxsen/hylur/internal/model"
)

// Column names understood by Store implementations in Query.Fields and Query.OrderBy.
const (
	FieldID           = "id"
	FieldOriginalName = "original_name"
	FieldFilename     = "filename"
	FieldFileSize     = "file_size"
	FieldUploadedAt   = "uploaded_at"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldColumns      = "column_defs"
	FieldTitle        = "title"
	FieldURL          = "url"
	FieldCtime        = "ctime"
	FieldMtime        = "mtime"
)

// Query scopes one read to a single owner. An empty Fields selects every
// column; a non-empty Text keeps only records whose per-type search fields
// contain it, ignoring case.
type Query struct {
	OwnerID string
	OrderBy string
	Limit   uint
	Fields  []string
	Text    string
}

// Store is the persistence side of the knowledge base. Implementations must
// honour ctx cancellation and must never return records of another owner.
type Store interface {
	Documents(ctx context.Context, q Query) ([]model.Document, error)
	DataTables(ctx context.Context, q Query) ([]model.DataTable, error)
	WebLinks(ctx context.Context, q Query) ([]model.WebLink, error)
}

// Counter reports collection sizes for the dashboard.
type Counter interface {
	Count(ctx context.Context, ownerID string, kind model.ItemType) (int, error)
}
