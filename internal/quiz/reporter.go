package quiz

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mind-engage/studyquiz/internal/platform/logger"
)

// Progress is one submitted batch as sent to the persistence service.
type Progress struct {
	DocID    string
	Kind     Kind
	Tier     Tier
	BatchIDs []string
	Answers  map[string]string
}

// ProgressSaver persists a submitted batch.
type ProgressSaver interface {
	SaveProgress(ctx context.Context, p Progress) error
}

// BuildProgress keeps only answers that are non-empty after trimming.
func BuildProgress[Q Question](docID string, kind Kind, tier Tier, batch []Q, snap Snapshot) Progress {
	answers := lo.MapValues(
		lo.PickBy(snap, func(_ string, v string) bool { return strings.TrimSpace(v) != "" }),
		func(v string, _ string) string { return strings.TrimSpace(v) },
	)
	return Progress{
		DocID:    docID,
		Kind:     kind,
		Tier:     tier,
		BatchIDs: questionIDs(batch),
		Answers:  answers,
	}
}

// Reporter sends progress in the background. Failures are logged and dropped;
// nothing is retried and callers never wait on the outcome.
type Reporter struct {
	saver   ProgressSaver
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewReporter(saver ProgressSaver, log *logger.Logger, timeout time.Duration) *Reporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Reporter{saver: saver, log: log, timeout: timeout}
}

// Report starts the save and returns immediately.
func (r *Reporter) Report(p Progress) {
	if r == nil || r.saver == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		if err := r.saver.SaveProgress(ctx, p); err != nil {
			r.log.Warn("save progress failed",
				"doc_id", p.DocID, "kind", p.Kind, "tier", p.Tier, "batch", len(p.BatchIDs), "error", err)
			return
		}
		r.log.Debug("progress saved", "doc_id", p.DocID, "kind", p.Kind, "tier", p.Tier, "answered", len(p.Answers))
	}()
}

// Wait blocks until every started report has finished.
func (r *Reporter) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
