package knowledge_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/knowledge/knowledgetest"
	"github.com/xxxsen/hylur/internal/model"
)

func seededStore(n int) *knowledgetest.MemoryStore {
	store := &knowledgetest.MemoryStore{}
	for i := 0; i < n; i++ {
		store.Docs = append(store.Docs, model.Document{
			ID: fmt.Sprintf("d%d", i), UserID: "u1", OriginalName: fmt.Sprintf("Plan %d.pdf", i),
			Filename: fmt.Sprintf("plan-%d.pdf", i), FileSize: 1024, UploadedAt: int64(1000 + i),
		})
		store.Tables = append(store.Tables, model.DataTable{
			ID: fmt.Sprintf("t%d", i), UserID: "u1", Name: fmt.Sprintf("Plan metrics %d", i), Ctime: int64(2000 + i),
		})
		store.Links = append(store.Links, model.WebLink{
			ID: fmt.Sprintf("l%d", i), UserID: "u1", Title: fmt.Sprintf("Link %d", i),
			URL: fmt.Sprintf("https://example.com/plan/%d", i), Ctime: int64(3000 + i),
		})
	}
	return store
}

func TestSearchBlankQueryDoesNotTouchStore(t *testing.T) {
	store := seededStore(3)
	searcher := knowledge.NewSearcher(store)
	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := searcher.Search(context.Background(), "u1", q)
		require.NoError(t, err)
		require.NotNil(t, results)
		require.Empty(t, results)
	}
	require.Zero(t, store.Calls())
}

func TestSearchCapsPerType(t *testing.T) {
	store := seededStore(25)
	results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", "plan")
	require.NoError(t, err)
	require.Len(t, results, 30)

	counts := map[model.ItemType]int{}
	for _, r := range results {
		counts[r.Type]++
	}
	require.Equal(t, map[model.ItemType]int{
		model.ItemTypeDocument: 10,
		model.ItemTypeTable:    10,
		model.ItemTypeLink:     10,
	}, counts)
	for _, q := range store.Queries() {
		require.Equal(t, uint(knowledge.SearchLimitPerType), q.Limit)
		require.Equal(t, "plan", q.Text)
	}
}

// overfullStore ignores the limit, as a misbehaving store might.
type overfullStore struct {
	knowledgetest.MemoryStore
}

func (s *overfullStore) Documents(ctx context.Context, q knowledge.Query) ([]model.Document, error) {
	q.Limit = 0
	return s.MemoryStore.Documents(ctx, q)
}

func TestSearchNeverExceedsThirty(t *testing.T) {
	seed := seededStore(40)
	store := &overfullStore{}
	store.Docs, store.Tables, store.Links = seed.Docs, seed.Tables, seed.Links
	results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", "plan")
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 30)
}

func TestSearchGroupsByType(t *testing.T) {
	store := seededStore(4)
	results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", "PLAN")
	require.NoError(t, err)
	require.Len(t, results, 12)

	rank := map[model.ItemType]int{model.ItemTypeDocument: 0, model.ItemTypeTable: 1, model.ItemTypeLink: 2}
	for i := 1; i < len(results); i++ {
		require.LessOrEqual(t, rank[results[i-1].Type], rank[results[i].Type], "result %d out of type order", i)
	}
	// within a type the store order (newest first) is kept
	require.Equal(t, "d3", results[0].ID)
	require.Equal(t, "t3", results[4].ID)
	require.Equal(t, "l3", results[8].ID)
}

func TestSearchKeepsQuerySpacing(t *testing.T) {
	store := &knowledgetest.MemoryStore{
		Docs: []model.Document{
			{ID: "d-word", UserID: "u1", OriginalName: "Q3 plan.pdf"},
			{ID: "d-joined", UserID: "u1", OriginalName: "Q3plan.pdf"},
		},
	}
	results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", " plan")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "d-word", results[0].ID)
	for _, q := range store.Queries() {
		require.Equal(t, " plan", q.Text)
	}
}

func TestSearchMatchesFieldSets(t *testing.T) {
	store := &knowledgetest.MemoryStore{
		Docs: []model.Document{
			{ID: "d-name", UserID: "u1", OriginalName: "Quarterly Report.pdf", Filename: "a.pdf"},
			{ID: "d-file", UserID: "u1", OriginalName: "x.pdf", Filename: "quarterly-2024.pdf"},
			{ID: "d-other", UserID: "u2", OriginalName: "Quarterly.pdf"},
		},
		Tables: []model.DataTable{
			{ID: "t-desc", UserID: "u1", Name: "Revenue", Description: "quarterly revenue"},
			{ID: "t-miss", UserID: "u1", Name: "Revenue", Description: "yearly"},
		},
		Links: []model.WebLink{
			{ID: "l-url", UserID: "u1", Title: "Board", URL: "https://example.com/QUARTERLY"},
			{ID: "l-miss", UserID: "u1", Title: "Board", URL: "https://example.com"},
		},
	}
	results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", "Quarterly")
	require.NoError(t, err)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	require.ElementsMatch(t, []string{"d-name", "d-file", "t-desc", "l-url"}, ids)
}

func TestSearchFailsWhenAnyTypeFails(t *testing.T) {
	cause := errors.New("query timeout")
	for name, store := range map[string]*knowledgetest.MemoryStore{
		"documents": {DocErr: cause},
		"tables":    {TableErr: cause},
		"links":     {LinkErr: cause},
	} {
		t.Run(name, func(t *testing.T) {
			results, err := knowledge.NewSearcher(store).Search(context.Background(), "u1", "x")
			require.ErrorIs(t, err, knowledge.ErrSearchUnavailable)
			require.ErrorIs(t, err, cause)
			require.Nil(t, results)
		})
	}
}

func TestDocumentResult(t *testing.T) {
	res := knowledge.DocumentResult(model.Document{
		ID: "d1", OriginalName: "Hylur Business Plan 2024.pdf", FileSize: 2547891, UploadedAt: 42,
	})
	require.Equal(t, model.SearchResult{
		ID:          "d1",
		Type:        model.ItemTypeDocument,
		Title:       "Hylur Business Plan 2024.pdf",
		Description: "PDF document • 2.4 MB",
		URL:         "/dashboard/documents",
		CreatedAt:   42,
	}, res)
}

func TestTableAndLinkResults(t *testing.T) {
	table := knowledge.TableResult(model.DataTable{ID: "t9", Name: "Metrics", Ctime: 7})
	require.Equal(t, "Data table", table.Description)
	require.Equal(t, "/dashboard/data-tables/t9", table.URL)
	require.Equal(t, int64(7), table.CreatedAt)

	link := knowledge.LinkResult(model.WebLink{ID: "l1", Title: "Go", URL: "https://go.dev", Ctime: 9})
	require.Equal(t, "https://go.dev", link.Description)
	require.Equal(t, "/dashboard/web-links", link.URL)

	link = knowledge.LinkResult(model.WebLink{ID: "l1", Title: "Go", URL: "https://go.dev", Description: "The Go site"})
	require.Equal(t, "The Go site", link.Description)
}

func TestFormatMegabytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{size: 0, want: "0.0 MB"},
		{size: 967234, want: "0.9 MB"},
		{size: 1834567, want: "1.7 MB"},
		{size: 2547891, want: "2.4 MB"},
		{size: 10 * 1024 * 1024, want: "10.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, knowledge.FormatMegabytes(tt.size))
		})
	}
}
