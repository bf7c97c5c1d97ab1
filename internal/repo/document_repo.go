package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/pkg/dbutil"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

var documentFields = []string{"id", "user_id", "filename", "original_name", "file_path", "file_size", "mime_type", "state", "uploaded_at", "mtime"}

func documentTargets(doc *model.Document) map[string]interface{} {
	return map[string]interface{}{
		"id":            &doc.ID,
		"user_id":       &doc.UserID,
		"filename":      &doc.Filename,
		"original_name": &doc.OriginalName,
		"file_path":     &doc.FilePath,
		"file_size":     &doc.FileSize,
		"mime_type":     &doc.MimeType,
		"state":         &doc.State,
		"uploaded_at":   &doc.UploadedAt,
		"mtime":         &doc.Mtime,
	}
}

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"id":            doc.ID,
		"user_id":       doc.UserID,
		"filename":      doc.Filename,
		"original_name": doc.OriginalName,
		"file_path":     doc.FilePath,
		"file_size":     doc.FileSize,
		"mime_type":     doc.MimeType,
		"state":         doc.State,
		"uploaded_at":   doc.UploadedAt,
		"mtime":         doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *DocumentRepo) GetByID(ctx context.Context, userID, docID string) (*model.Document, error) {
	where := map[string]interface{}{
		"id":      docID,
		"user_id": userID,
		"state":   model.DocumentStateNormal,
	}
	docs, err := r.query(ctx, where, documentFields)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &docs[0], nil
}

// List returns the live documents of userID. Keyword matches original_name
// or filename.
func (r *DocumentRepo) List(ctx context.Context, userID string, opts ListOptions) ([]model.Document, error) {
	fields, err := selectFields(opts.Fields, documentFields)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(opts.OrderBy, documentFields, "uploaded_at desc")
	if err != nil {
		return nil, err
	}
	where := map[string]interface{}{
		"user_id": userID,
		"state":   model.DocumentStateNormal,
	}
	if opts.Keyword != "" {
		where["_custom_keyword"] = keywordFilter(opts.Keyword, "original_name", "filename")
	}
	applyList(where, opts, order)
	return r.query(ctx, where, fields)
}

func (r *DocumentRepo) SoftDelete(ctx context.Context, userID, docID string, mtime int64) error {
	where := map[string]interface{}{
		"id":      docID,
		"user_id": userID,
		"state":   model.DocumentStateNormal,
	}
	update := map[string]interface{}{
		"state": model.DocumentStateDeleted,
		"mtime": mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("documents", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ListDeletedBefore returns soft-deleted documents whose deletion is older
// than cutoff.
func (r *DocumentRepo) ListDeletedBefore(ctx context.Context, cutoff int64, limit uint) ([]model.Document, error) {
	where := map[string]interface{}{
		"state":    model.DocumentStateDeleted,
		"mtime <":  cutoff,
		"_orderby": "mtime asc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	return r.query(ctx, where, documentFields)
}

func (r *DocumentRepo) HardDelete(ctx context.Context, docID string) error {
	where := map[string]interface{}{
		"id":    docID,
		"state": model.DocumentStateDeleted,
	}
	sqlStr, args, err := builder.BuildDelete("documents", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *DocumentRepo) Count(ctx context.Context, userID string) (int, error) {
	sqlStr, args := dbutil.Finalize("SELECT COUNT(*) FROM documents WHERE user_id=? AND state=?", []interface{}{userID, model.DocumentStateNormal})
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DocumentRepo) query(ctx context.Context, where map[string]interface{}, fields []string) ([]model.Document, error) {
	sqlStr, args, err := builder.BuildSelect("documents", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	docs := make([]model.Document, 0)
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(scanTargets(fields, documentTargets(&doc))...); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
