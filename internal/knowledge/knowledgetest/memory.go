// Package knowledgetest provides an in-memory knowledge.Store for tests.
package knowledgetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/model"
)

type MemoryStore struct {
	Docs   []model.Document
	Tables []model.DataTable
	Links  []model.WebLink

	DocErr   error
	TableErr error
	LinkErr  error
	CountErr error

	mu      sync.Mutex
	calls   int
	queries []knowledge.Query
}

func (s *MemoryStore) record(q knowledge.Query) {
	s.mu.Lock()
	s.calls++
	s.queries = append(s.queries, q)
	s.mu.Unlock()
}

// Calls counts every read and count served so far.
func (s *MemoryStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *MemoryStore) Queries() []knowledge.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]knowledge.Query, len(s.queries))
	copy(out, s.queries)
	return out
}

func (s *MemoryStore) Documents(ctx context.Context, q knowledge.Query) ([]model.Document, error) {
	s.record(q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.DocErr != nil {
		return nil, s.DocErr
	}
	out := make([]model.Document, 0)
	for _, doc := range s.Docs {
		if doc.UserID != q.OwnerID || doc.State == model.DocumentStateDeleted {
			continue
		}
		if q.Text != "" && !containsAny(q.Text, doc.OriginalName, doc.Filename) {
			continue
		}
		out = append(out, doc)
	}
	sortBy(out, q.OrderBy, func(d model.Document, field string) int64 {
		if field == knowledge.FieldMtime {
			return d.Mtime
		}
		return d.UploadedAt
	})
	return limit(out, q.Limit), nil
}

func (s *MemoryStore) DataTables(ctx context.Context, q knowledge.Query) ([]model.DataTable, error) {
	s.record(q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.TableErr != nil {
		return nil, s.TableErr
	}
	out := make([]model.DataTable, 0)
	for _, table := range s.Tables {
		if table.UserID != q.OwnerID {
			continue
		}
		if q.Text != "" && !containsAny(q.Text, table.Name, table.Description) {
			continue
		}
		out = append(out, table)
	}
	sortBy(out, q.OrderBy, func(t model.DataTable, field string) int64 {
		if field == knowledge.FieldMtime {
			return t.Mtime
		}
		return t.Ctime
	})
	return limit(out, q.Limit), nil
}

func (s *MemoryStore) WebLinks(ctx context.Context, q knowledge.Query) ([]model.WebLink, error) {
	s.record(q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.LinkErr != nil {
		return nil, s.LinkErr
	}
	out := make([]model.WebLink, 0)
	for _, link := range s.Links {
		if link.UserID != q.OwnerID {
			continue
		}
		if q.Text != "" && !containsAny(q.Text, link.Title, link.Description, link.URL) {
			continue
		}
		out = append(out, link)
	}
	sortBy(out, q.OrderBy, func(l model.WebLink, field string) int64 {
		if field == knowledge.FieldMtime {
			return l.Mtime
		}
		return l.Ctime
	})
	return limit(out, q.Limit), nil
}

func (s *MemoryStore) Count(ctx context.Context, ownerID string, kind model.ItemType) (int, error) {
	s.record(knowledge.Query{OwnerID: ownerID})
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.CountErr != nil {
		return 0, s.CountErr
	}
	n := 0
	switch kind {
	case model.ItemTypeDocument:
		for _, doc := range s.Docs {
			if doc.UserID == ownerID && doc.State != model.DocumentStateDeleted {
				n++
			}
		}
	case model.ItemTypeTable:
		for _, table := range s.Tables {
			if table.UserID == ownerID {
				n++
			}
		}
	case model.ItemTypeLink:
		for _, link := range s.Links {
			if link.UserID == ownerID {
				n++
			}
		}
	}
	return n, nil
}

func containsAny(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func sortBy[T any](items []T, orderBy string, key func(T, string) int64) {
	parts := strings.Fields(orderBy)
	if len(parts) == 0 {
		return
	}
	desc := len(parts) > 1 && strings.EqualFold(parts[1], "desc")
	sort.SliceStable(items, func(i, j int) bool {
		a, b := key(items[i], parts[0]), key(items[j], parts[0])
		if desc {
			return a > b
		}
		return a < b
	})
}

func limit[T any](items []T, n uint) []T {
	if n > 0 && uint(len(items)) > n {
		return items[:n]
	}
	return items
}
