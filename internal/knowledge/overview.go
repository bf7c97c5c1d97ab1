package knowledge

import (
	"context"
	"sort"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/model"
)

const (
	recentPerType = 3
	recentTotal   = 5
)

type Activity struct {
	ID    string         `json:"id"`
	Type  model.ItemType `json:"type"`
	Title string         `json:"title"`
	URL   string         `json:"url"`
	Date  int64          `json:"date"`
}

type Overview struct {
	DocumentCount  int        `json:"document_count"`
	DataTableCount int        `json:"data_table_count"`
	WebLinkCount   int        `json:"web_link_count"`
	Recent         []Activity `json:"recent"`
}

type Dashboard struct {
	store   Store
	counter Counter
}

func NewDashboard(store Store, counter Counter) *Dashboard {
	return &Dashboard{store: store, counter: counter}
}

// Overview returns collection sizes and the most recent activity across all
// three item types, newest first.
func (d *Dashboard) Overview(ctx context.Context, userID string) (*Overview, error) {
	out := &Overview{}
	var (
		docs   []model.Document
		tables []model.DataTable
		links  []model.WebLink
	)
	count := func(kind model.ItemType, dst *int) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			n, err := d.counter.Count(ctx, userID, kind)
			*dst = n
			return err
		}
	}
	err := fetchAll(ctx,
		count(model.ItemTypeDocument, &out.DocumentCount),
		count(model.ItemTypeTable, &out.DataTableCount),
		count(model.ItemTypeLink, &out.WebLinkCount),
		func(ctx context.Context) error {
			var err error
			docs, err = d.store.Documents(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldUploadedAt + " desc",
				Limit:   recentPerType,
				Fields:  []string{FieldID, FieldOriginalName, FieldUploadedAt},
			})
			return err
		},
		func(ctx context.Context) error {
			var err error
			tables, err = d.store.DataTables(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldMtime + " desc",
				Limit:   recentPerType,
				Fields:  []string{FieldID, FieldName, FieldMtime},
			})
			return err
		},
		func(ctx context.Context) error {
			var err error
			links, err = d.store.WebLinks(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldCtime + " desc",
				Limit:   recentPerType,
				Fields:  []string{FieldID, FieldTitle, FieldCtime},
			})
			return err
		},
	)
	if err != nil {
		logutil.GetLogger(ctx).Error("load dashboard failed", zap.String("user_id", userID), zap.Error(err))
		return nil, wrap(ErrKnowledgeStoreUnavailable, err)
	}
	out.Recent = mergeActivity(docs, tables, links)
	return out, nil
}

func mergeActivity(docs []model.Document, tables []model.DataTable, links []model.WebLink) []Activity {
	items := make([]Activity, 0, len(docs)+len(tables)+len(links))
	for _, doc := range docs {
		items = append(items, Activity{ID: doc.ID, Type: model.ItemTypeDocument, Title: doc.OriginalName, URL: DocumentsRoute, Date: doc.UploadedAt})
	}
	for _, table := range tables {
		items = append(items, Activity{ID: table.ID, Type: model.ItemTypeTable, Title: table.Name, URL: DataTableRoute + table.ID, Date: table.Mtime})
	}
	for _, link := range links {
		items = append(items, Activity{ID: link.ID, Type: model.ItemTypeLink, Title: link.Title, URL: WebLinksRoute, Date: link.Ctime})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	if len(items) > recentTotal {
		items = items[:recentTotal]
	}
	return items
}
