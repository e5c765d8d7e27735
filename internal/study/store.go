package study

import (
	"context"
	"errors"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrNoQuestion = errors.New("no questions for this difficulty")
)

// TierUpdate rewrites a tier's records in place. It runs inside the store's
// write lock or transaction.
type TierUpdate func(recs []Record) ([]Record, error)

type Store interface {
	// PutPool replaces the candidate pool for a document and kind, creating
	// the document if needed.
	PutPool(ctx context.Context, docID string, kind quiz.Kind, items []PoolItem) error
	// Pool returns the candidates of one tier, in upload order.
	Pool(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier) ([]Record, error)

	// ReplaceTier stores a freshly generated tier, dropping any previous one.
	ReplaceTier(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier, runID string, recs []Record) error
	// Bank returns every generated tier of a kind. Unknown documents yield ErrNotFound.
	Bank(ctx context.Context, docID string, kind quiz.Kind) (Bank, error)
	UpdateTier(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier, fn TierUpdate) error

	HasDocument(ctx context.Context, docID string) (bool, error)
}
