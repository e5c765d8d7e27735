// Package generate holds Generator implementations for the study service.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mind-engage/studyquiz/internal/quiz"
	"github.com/mind-engage/studyquiz/internal/study"
)

// PoolReader is the part of the store the pool generator reads.
type PoolReader interface {
	Pool(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier) ([]study.Record, error)
}

// PoolGenerator draws questions from a per-document candidate pool that an
// upstream producer loaded beforehand. Unusable candidates are skipped.
type PoolGenerator struct {
	pool    PoolReader
	shuffle bool
}

type PoolOption func(*PoolGenerator)

// WithShuffle randomizes which candidates are drawn and their order.
func WithShuffle(on bool) PoolOption { return func(g *PoolGenerator) { g.shuffle = on } }

func NewPoolGenerator(pool PoolReader, opts ...PoolOption) *PoolGenerator {
	g := &PoolGenerator{pool: pool}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *PoolGenerator) Generate(ctx context.Context, req study.GenerationRequest) ([]study.Record, error) {
	recs, err := g.pool.Pool(ctx, req.DocID, req.Kind, req.Tier)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}
	recs = lo.Filter(recs, func(r study.Record, _ int) bool { return usable(req.Kind, r) })
	if g.shuffle {
		recs = lo.Shuffle(recs)
	}
	if req.Num > 0 && len(recs) > req.Num {
		recs = recs[:req.Num]
	}
	return recs, nil
}

func usable(kind quiz.Kind, r study.Record) bool {
	if strings.TrimSpace(r.Answer) == "" {
		return false
	}
	switch kind {
	case quiz.KindChoice:
		return strings.TrimSpace(r.Question) != "" && len(r.Options) > 1
	case quiz.KindFill:
		return strings.TrimSpace(r.Text) != ""
	}
	return false
}
