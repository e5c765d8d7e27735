package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mind-engage/studyquiz/internal/grading"
	"github.com/mind-engage/studyquiz/internal/platform/logger"
	"github.com/mind-engage/studyquiz/internal/quiz"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrGenerator      = errors.New("question generator failed")
)

// maxOptions is how many options a stored choice question keeps.
const maxOptions = 4

// GenerationRequest is what the service asks a Generator for.
type GenerationRequest struct {
	DocID string
	Kind  quiz.Kind
	Tier  quiz.Tier
	Num   int
}

// Generator produces candidate questions. Its output is normalized before storage.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) ([]Record, error)
}

type Service struct {
	store  Store
	gen    Generator
	grader grading.Grader
	log    *logger.Logger
}

func NewService(store Store, gen Generator, grader grading.Grader, log *logger.Logger) *Service {
	if grader == nil {
		grader = grading.NewDefaultGrader()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, gen: gen, grader: grader, log: log}
}

// Generate produces and stores a new question set for one tier, replacing
// whatever that tier held before.
func (s *Service) Generate(ctx context.Context, kind quiz.Kind, req GenerateRequest) (GenerateResponse, error) {
	docID := strings.TrimSpace(req.DocID)
	if docID == "" {
		return GenerateResponse{}, fmt.Errorf("%w: doc_id missing", ErrInvalidRequest)
	}
	tier := req.Difficulty
	if tier == "" {
		tier = quiz.TierEasy
	}
	tier, err := quiz.ParseTier(string(tier))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	num := req.TargetCount()

	ok, err := s.store.HasDocument(ctx, docID)
	if err != nil {
		return GenerateResponse{}, err
	}
	if !ok {
		return GenerateResponse{}, ErrNotFound
	}

	raw, err := s.gen.Generate(ctx, GenerationRequest{DocID: docID, Kind: kind, Tier: tier, Num: num})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("%w: %v", ErrGenerator, err)
	}
	recs := Normalize(kind, tier, raw, num)
	runID := uuid.NewString()
	if err := s.store.ReplaceTier(ctx, docID, kind, tier, runID, recs); err != nil {
		return GenerateResponse{}, fmt.Errorf("store %s bank: %w", kind, err)
	}
	s.log.Info("bank generated", "doc_id", docID, "kind", kind, "tier", tier, "count", len(recs), "run_id", runID)
	return GenerateResponse{Difficulty: tier, Count: len(recs), RunID: runID}, nil
}

// Bank returns every generated tier. Unknown documents yield an empty bank.
func (s *Service) Bank(ctx context.Context, kind quiz.Kind, docID string) (Bank, error) {
	b, err := s.store.Bank(ctx, docID, kind)
	if errors.Is(err, ErrNotFound) {
		return Bank{}, nil
	}
	return b, err
}

// SaveProgress writes user_answer and result onto the batch's stored questions.
// Questions outside the batch are left untouched.
func (s *Service) SaveProgress(ctx context.Context, kind quiz.Kind, req SaveProgressRequest) error {
	docID := strings.TrimSpace(req.DocID)
	if docID == "" || req.Difficulty == "" {
		return fmt.Errorf("%w: doc_id and difficulty are required", ErrInvalidRequest)
	}
	tier, err := quiz.ParseTier(string(req.Difficulty))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	batch := lo.SliceToMap(req.BatchIDs, func(id string) (string, struct{}) { return id, struct{}{} })

	updated := 0
	err = s.store.UpdateTier(ctx, docID, kind, tier, func(recs []Record) ([]Record, error) {
		for i := range recs {
			if _, ok := batch[recs[i].ID]; !ok || recs[i].ID == "" {
				continue
			}
			res, err := s.grader.Grade(ctx, grading.Q{Kind: string(kind), AnswerKey: recs[i].Answer}, req.Answers[recs[i].ID])
			if err != nil {
				return nil, err
			}
			recs[i].UserAnswer = res.UserAnswer
			recs[i].Result = res.Outcome
			updated++
		}
		return recs, nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("progress recorded", "doc_id", docID, "kind", kind, "tier", tier, "updated", updated)
	return nil
}

// PutPool replaces the candidate questions for a document and kind.
func (s *Service) PutPool(ctx context.Context, docID string, kind quiz.Kind, items []PoolItem) error {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return fmt.Errorf("%w: doc_id missing", ErrInvalidRequest)
	}
	for i := range items {
		tier, err := quiz.ParseTier(string(items[i].Tier))
		if err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrInvalidRequest, i, err)
		}
		items[i].Tier = tier
	}
	if err := s.store.PutPool(ctx, docID, kind, items); err != nil {
		return err
	}
	s.log.Info("pool stored", "doc_id", docID, "kind", kind, "items", len(items))
	return nil
}

// Normalize shapes generator output for storage: at most num records, missing
// ids become "<tier>_<n>", ids repeated within the tier get a "-<k>" suffix,
// choice options are capped and progress is cleared.
func Normalize(kind quiz.Kind, tier quiz.Tier, raw []Record, num int) []Record {
	if len(raw) > num {
		raw = raw[:num]
	}
	out := make([]Record, 0, len(raw))
	used := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = fmt.Sprintf("%s_%d", tier, i+1)
		}
		for k, base := 2, id; ; k++ {
			if _, dup := used[id]; !dup {
				break
			}
			id = fmt.Sprintf("%s-%d", base, k)
		}
		used[id] = struct{}{}
		nr := Record{ID: id, Answer: r.Answer}
		switch kind {
		case quiz.KindChoice:
			nr.Question = r.Question
			nr.Explanation = r.Explanation
			nr.Options = append([]string(nil), r.Options...)
			if len(nr.Options) > maxOptions {
				nr.Options = nr.Options[:maxOptions]
			}
		case quiz.KindFill:
			nr.Text = r.Text
		}
		out = append(out, nr)
	}
	return out
}
