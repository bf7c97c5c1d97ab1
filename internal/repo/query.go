package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/hylur/internal/pkg/dbutil"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
)

// ListOptions is the repo-level form of a knowledge query.
type ListOptions struct {
	OrderBy string
	Limit   uint
	Offset  uint
	Fields  []string
	Keyword string
}

// selectFields validates requested against the table's columns. The id column
// is always selected; an empty request selects every column.
func selectFields(requested, all []string) ([]string, error) {
	if len(requested) == 0 {
		return all, nil
	}
	known := make(map[string]bool, len(all))
	for _, f := range all {
		known[f] = true
	}
	out := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, f := range requested {
		f = strings.TrimSpace(f)
		if !known[f] {
			return nil, fmt.Errorf("%w: unknown field %q", appErr.ErrInvalid, f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// orderClause accepts "<column> [asc|desc]" for a selectable column only.
func orderClause(orderBy string, all []string, fallback string) (string, error) {
	parts := strings.Fields(orderBy)
	if len(parts) == 0 {
		return fallback, nil
	}
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: bad order %q", appErr.ErrInvalid, orderBy)
	}
	allowed := false
	for _, f := range all {
		if f == parts[0] {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("%w: bad order column %q", appErr.ErrInvalid, parts[0])
	}
	dir := "asc"
	if len(parts) == 2 {
		dir = strings.ToLower(parts[1])
		if dir != "asc" && dir != "desc" {
			return "", fmt.Errorf("%w: bad order direction %q", appErr.ErrInvalid, parts[1])
		}
	}
	return parts[0] + " " + dir, nil
}

// keywordFilter matches keyword as a case-insensitive substring of any column.
func keywordFilter(keyword string, columns ...string) builder.Comparable {
	pattern := dbutil.ContainsPattern(keyword)
	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, col+" ILIKE ?")
		args = append(args, pattern)
	}
	return builder.Custom("("+strings.Join(conds, " OR ")+")", args...)
}

// scanTargets lists scan destinations for fields in order.
func scanTargets(fields []string, dest map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		out = append(out, dest[f])
	}
	return out
}

func applyList(where map[string]interface{}, opts ListOptions, order string) {
	where["_orderby"] = order
	if opts.Limit > 0 {
		where["_limit"] = []uint{opts.Offset, opts.Limit}
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func execAffecting(ctx context.Context, db *sql.DB, sqlStr string, args []interface{}) error {
	result, err := db.ExecContext(ctx, sqlStr, args...)
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
