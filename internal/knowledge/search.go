package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/model"
)

const (
	SearchLimitPerType = 10

	DocumentsRoute = "/dashboard/documents"
	DataTableRoute = "/dashboard/data-tables/"
	WebLinksRoute  = "/dashboard/web-links"
)

type Searcher struct {
	store Store
}

func NewSearcher(store Store) *Searcher {
	return &Searcher{store: store}
}

// Search matches query as a case-insensitive substring against each item
// type's search fields. Results come grouped as documents, tables, links,
// each group in store order. The query is matched as given, surrounding
// spaces included. A blank query returns no results without touching the
// store.
func (s *Searcher) Search(ctx context.Context, userID, query string) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []model.SearchResult{}, nil
	}
	var (
		docs   []model.Document
		tables []model.DataTable
		links  []model.WebLink
	)
	err := fetchAll(ctx,
		func(ctx context.Context) error {
			var err error
			docs, err = s.store.Documents(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldUploadedAt + " desc",
				Limit:   SearchLimitPerType,
				Text:    query,
			})
			return err
		},
		func(ctx context.Context) error {
			var err error
			tables, err = s.store.DataTables(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldCtime + " desc",
				Limit:   SearchLimitPerType,
				Fields:  []string{FieldID, FieldName, FieldDescription, FieldCtime, FieldMtime},
				Text:    query,
			})
			return err
		},
		func(ctx context.Context) error {
			var err error
			links, err = s.store.WebLinks(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldCtime + " desc",
				Limit:   SearchLimitPerType,
				Text:    query,
			})
			return err
		},
	)
	if err != nil {
		logutil.GetLogger(ctx).Error("knowledge search failed",
			zap.String("user_id", userID), zap.String("query", query), zap.Error(err))
		return nil, wrap(ErrSearchUnavailable, err)
	}
	docs = capped(docs, SearchLimitPerType)
	tables = capped(tables, SearchLimitPerType)
	links = capped(links, SearchLimitPerType)

	results := make([]model.SearchResult, 0, len(docs)+len(tables)+len(links))
	for _, doc := range docs {
		results = append(results, DocumentResult(doc))
	}
	for _, table := range tables {
		results = append(results, TableResult(table))
	}
	for _, link := range links {
		results = append(results, LinkResult(link))
	}
	return results, nil
}

// DocumentResult describes a PDF by its size and points at the documents page.
func DocumentResult(doc model.Document) model.SearchResult {
	return model.SearchResult{
		ID:          doc.ID,
		Type:        model.ItemTypeDocument,
		Title:       doc.OriginalName,
		Description: "PDF document • " + FormatMegabytes(doc.FileSize),
		URL:         DocumentsRoute,
		CreatedAt:   doc.UploadedAt,
	}
}

// TableResult falls back to "Data table" when the table has no description.
func TableResult(table model.DataTable) model.SearchResult {
	description := table.Description
	if description == "" {
		description = "Data table"
	}
	return model.SearchResult{
		ID:          table.ID,
		Type:        model.ItemTypeTable,
		Title:       table.Name,
		Description: description,
		URL:         DataTableRoute + table.ID,
		CreatedAt:   table.Ctime,
	}
}

// LinkResult falls back to the link's own url when it has no description.
func LinkResult(link model.WebLink) model.SearchResult {
	description := link.Description
	if description == "" {
		description = link.URL
	}
	return model.SearchResult{
		ID:          link.ID,
		Type:        model.ItemTypeLink,
		Title:       link.Title,
		Description: description,
		URL:         WebLinksRoute,
		CreatedAt:   link.Ctime,
	}
}

// FormatMegabytes renders a byte count in binary megabytes with one decimal.
func FormatMegabytes(size int64) string {
	return fmt.Sprintf("%.1f MB", float64(size)/1024/1024)
}

func capped[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
