// Package servicetest provides in-memory service stores for tests.
package servicetest

import (
	"context"
	"sort"
	"sync"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/repo"
)

type Users struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUsers() *Users {
	return &Users{users: map[string]*model.User{}}
}

func (m *Users) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return appErr.ErrConflict
	}
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

type Documents struct {
	mu        sync.Mutex
	Docs      map[string]model.Document
	CreateErr error
}

func NewDocuments() *Documents {
	return &Documents{Docs: map[string]model.Document{}}
}

func (m *Documents) Create(ctx context.Context, doc *model.Document) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Docs[doc.ID] = *doc
	return nil
}

func (m *Documents) GetByID(ctx context.Context, userID, docID string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.Docs[docID]
	if !ok || doc.UserID != userID || doc.State != model.DocumentStateNormal {
		return nil, appErr.ErrNotFound
	}
	return &doc, nil
}

func (m *Documents) List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Document, 0)
	for _, doc := range m.Docs {
		if doc.UserID == userID && doc.State == model.DocumentStateNormal {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt > out[j].UploadedAt })
	return out, nil
}

func (m *Documents) SoftDelete(ctx context.Context, userID, docID string, mtime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.Docs[docID]
	if !ok || doc.UserID != userID || doc.State != model.DocumentStateNormal {
		return appErr.ErrNotFound
	}
	doc.State = model.DocumentStateDeleted
	doc.Mtime = mtime
	m.Docs[docID] = doc
	return nil
}

func (m *Documents) ListDeletedBefore(ctx context.Context, cutoff int64, limit uint) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Document, 0)
	for _, doc := range m.Docs {
		if doc.State == model.DocumentStateDeleted && doc.Mtime < cutoff {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *Documents) HardDelete(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Docs, docID)
	return nil
}

type DataTables struct {
	mu     sync.Mutex
	tables map[string]model.DataTable
}

func NewDataTables() *DataTables {
	return &DataTables{tables: map[string]model.DataTable{}}
}

func (m *DataTables) Create(ctx context.Context, table *model.DataTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = *table
	return nil
}

func (m *DataTables) Update(ctx context.Context, table *model.DataTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.tables[table.ID]
	if !ok || old.UserID != table.UserID {
		return appErr.ErrNotFound
	}
	m.tables[table.ID] = *table
	return nil
}

func (m *DataTables) Delete(ctx context.Context, userID, tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.tables[tableID]
	if !ok || old.UserID != userID {
		return appErr.ErrNotFound
	}
	delete(m.tables, tableID)
	return nil
}

func (m *DataTables) GetByID(ctx context.Context, userID, tableID string) (*model.DataTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[tableID]
	if !ok || table.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	return &table, nil
}

func (m *DataTables) List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.DataTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.DataTable, 0)
	for _, table := range m.tables {
		if table.UserID == userID {
			table.Rows = nil
			out = append(out, table)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mtime > out[j].Mtime })
	return out, nil
}

type WebLinks struct {
	mu    sync.Mutex
	links []model.WebLink
}

func (m *WebLinks) Create(ctx context.Context, link *model.WebLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, *link)
	return nil
}

func (m *WebLinks) Delete(ctx context.Context, userID, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, link := range m.links {
		if link.ID == linkID && link.UserID == userID {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return appErr.ErrNotFound
}

func (m *WebLinks) List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.WebLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.WebLink, 0)
	for _, link := range m.links {
		if link.UserID == userID {
			out = append(out, link)
		}
	}
	return out, nil
}
