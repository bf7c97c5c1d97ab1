package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/pkg/dbutil"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

var webLinkFields = []string{"id", "user_id", "title", "url", "description", "favicon", "ctime", "mtime"}

func webLinkTargets(link *model.WebLink) map[string]interface{} {
	return map[string]interface{}{
		"id":          &link.ID,
		"user_id":     &link.UserID,
		"title":       &link.Title,
		"url":         &link.URL,
		"description": &link.Description,
		"favicon":     &link.Favicon,
		"ctime":       &link.Ctime,
		"mtime":       &link.Mtime,
	}
}

type WebLinkRepo struct {
	db *sql.DB
}

func NewWebLinkRepo(db *sql.DB) *WebLinkRepo {
	return &WebLinkRepo{db: db}
}

func (r *WebLinkRepo) Create(ctx context.Context, link *model.WebLink) error {
	data := map[string]interface{}{
		"id":          link.ID,
		"user_id":     link.UserID,
		"title":       link.Title,
		"url":         link.URL,
		"description": link.Description,
		"favicon":     link.Favicon,
		"ctime":       link.Ctime,
		"mtime":       link.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("web_links", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *WebLinkRepo) GetByID(ctx context.Context, userID, linkID string) (*model.WebLink, error) {
	links, err := r.query(ctx, map[string]interface{}{"id": linkID, "user_id": userID}, webLinkFields)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &links[0], nil
}

// List returns the links of userID. Keyword matches title, description or url.
func (r *WebLinkRepo) List(ctx context.Context, userID string, opts ListOptions) ([]model.WebLink, error) {
	fields, err := selectFields(opts.Fields, webLinkFields)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(opts.OrderBy, webLinkFields, "ctime desc")
	if err != nil {
		return nil, err
	}
	where := map[string]interface{}{
		"user_id": userID,
	}
	if opts.Keyword != "" {
		where["_custom_keyword"] = keywordFilter(opts.Keyword, "title", "description", "url")
	}
	applyList(where, opts, order)
	return r.query(ctx, where, fields)
}

func (r *WebLinkRepo) Delete(ctx context.Context, userID, linkID string) error {
	sqlStr, args, err := builder.BuildDelete("web_links", map[string]interface{}{"id": linkID, "user_id": userID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return execAffecting(ctx, r.db, sqlStr, args)
}

func (r *WebLinkRepo) Count(ctx context.Context, userID string) (int, error) {
	sqlStr, args := dbutil.Finalize("SELECT COUNT(*) FROM web_links WHERE user_id=?", []interface{}{userID})
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WebLinkRepo) query(ctx context.Context, where map[string]interface{}, fields []string) ([]model.WebLink, error) {
	sqlStr, args, err := builder.BuildSelect("web_links", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	links := make([]model.WebLink, 0)
	for rows.Next() {
		var link model.WebLink
		if err := rows.Scan(scanTargets(fields, webLinkTargets(&link))...); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
