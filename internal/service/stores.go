package service

import (
	"context"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/repo"
)

// The interfaces below are the repo methods each service needs; the postgres
// repos in internal/repo satisfy them.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, userID, docID string) (*model.Document, error)
	List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.Document, error)
	SoftDelete(ctx context.Context, userID, docID string, mtime int64) error
	ListDeletedBefore(ctx context.Context, cutoff int64, limit uint) ([]model.Document, error)
	HardDelete(ctx context.Context, docID string) error
}

type DataTableStore interface {
	Create(ctx context.Context, table *model.DataTable) error
	Update(ctx context.Context, table *model.DataTable) error
	Delete(ctx context.Context, userID, tableID string) error
	GetByID(ctx context.Context, userID, tableID string) (*model.DataTable, error)
	List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.DataTable, error)
}

type WebLinkStore interface {
	Create(ctx context.Context, link *model.WebLink) error
	Delete(ctx context.Context, userID, linkID string) error
	List(ctx context.Context, userID string, opts repo.ListOptions) ([]model.WebLink, error)
}

var (
	_ UserStore      = (*repo.UserRepo)(nil)
	_ DocumentStore  = (*repo.DocumentRepo)(nil)
	_ DataTableStore = (*repo.DataTableRepo)(nil)
	_ WebLinkStore   = (*repo.WebLinkRepo)(nil)
)
