package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultPurgeBatch = 100

type DocumentPurger interface {
	PurgeDeleted(ctx context.Context, cutoff int64, batch uint) (int, error)
}

// DocumentPurgeJob removes documents that have stayed soft deleted longer
// than the retention window.
type DocumentPurgeJob struct {
	documents DocumentPurger
	retention time.Duration
	batch     uint
	now       func() time.Time
}

func NewDocumentPurgeJob(documents DocumentPurger, retention time.Duration) *DocumentPurgeJob {
	return &DocumentPurgeJob{documents: documents, retention: retention, batch: defaultPurgeBatch, now: time.Now}
}

func (j *DocumentPurgeJob) Name() string {
	return "document_purge"
}

func (j *DocumentPurgeJob) Run(ctx context.Context) error {
	if j.documents == nil {
		return nil
	}
	retention := j.retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	cutoff := j.now().Add(-retention).Unix()
	total := 0
	for {
		n, err := j.documents.PurgeDeleted(ctx, cutoff, j.batch)
		total += n
		if err != nil {
			return err
		}
		// a short batch means the backlog is drained or some bodies failed to delete
		if uint(n) < j.batch {
			break
		}
	}
	if total > 0 {
		logutil.GetLogger(ctx).Info("purged deleted documents", zap.Int("count", total), zap.Int64("cutoff", cutoff))
	}
	return nil
}
