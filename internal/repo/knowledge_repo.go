package repo

import (
	"context"
	"fmt"

	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/model"
)

// KnowledgeRepo serves knowledge reads from the postgres repos.
type KnowledgeRepo struct {
	docs   *DocumentRepo
	tables *DataTableRepo
	links  *WebLinkRepo
}

var (
	_ knowledge.Store   = (*KnowledgeRepo)(nil)
	_ knowledge.Counter = (*KnowledgeRepo)(nil)
)

func NewKnowledgeRepo(docs *DocumentRepo, tables *DataTableRepo, links *WebLinkRepo) *KnowledgeRepo {
	return &KnowledgeRepo{docs: docs, tables: tables, links: links}
}

func listOptions(q knowledge.Query) ListOptions {
	return ListOptions{
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
		Fields:  q.Fields,
		Keyword: q.Text,
	}
}

func (r *KnowledgeRepo) Documents(ctx context.Context, q knowledge.Query) ([]model.Document, error) {
	return r.docs.List(ctx, q.OwnerID, listOptions(q))
}

func (r *KnowledgeRepo) DataTables(ctx context.Context, q knowledge.Query) ([]model.DataTable, error) {
	return r.tables.List(ctx, q.OwnerID, listOptions(q))
}

func (r *KnowledgeRepo) WebLinks(ctx context.Context, q knowledge.Query) ([]model.WebLink, error) {
	return r.links.List(ctx, q.OwnerID, listOptions(q))
}

func (r *KnowledgeRepo) Count(ctx context.Context, ownerID string, kind model.ItemType) (int, error) {
	switch kind {
	case model.ItemTypeDocument:
		return r.docs.Count(ctx, ownerID)
	case model.ItemTypeTable:
		return r.tables.Count(ctx, ownerID)
	case model.ItemTypeLink:
		return r.links.Count(ctx, ownerID)
	}
	return 0, fmt.Errorf("unknown item type %q", kind)
}
