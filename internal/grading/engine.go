package grading

import (
	"context"
	"errors"
	"strings"
)

var ErrNoStrategy = errors.New("no strategy for question kind")

// Q is a minimal view of a stored question needed to record progress.
type Q struct {
	Kind      string // "mcq" or "fillups"
	AnswerKey string
}

// Result is what gets written back onto the stored question.
type Result struct {
	UserAnswer string // normalized answer as stored
	Outcome    string // correct | wrong | not answered
}

const (
	OutcomeCorrect     = "correct"
	OutcomeWrong       = "wrong"
	OutcomeNotAnswered = "not answered"
)

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

// Grader routes by question kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response string) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{}, ErrNoStrategy
	}
	return s.Grade(ctx, q, response)
}

// Engine options

type Option func(*config)

type config struct {
	MaxEditDistance int // fuzzy tolerance for fill-in answers; 0 disables
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }

// NewDefaultGrader installs the built-in strategies. Fill-in answers must match
// exactly (after folding) unless WithMaxEditDistance is given.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[string]Strategy{
			"mcq":     choiceStrategy{},
			"fillups": fillStrategy{maxEdit: cfg.MaxEditDistance},
		},
	}
}

// --- Strategies ---

type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	user := strings.TrimSpace(response)
	if user == "" {
		return Result{Outcome: OutcomeNotAnswered}, nil
	}
	res := Result{UserAnswer: user, Outcome: OutcomeWrong}
	if user == strings.TrimSpace(q.AnswerKey) {
		res.Outcome = OutcomeCorrect
	}
	return res, nil
}

type fillStrategy struct{ maxEdit int }

func (s fillStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	user := fold(response)
	if user == "" {
		return Result{Outcome: OutcomeNotAnswered}, nil
	}
	res := Result{UserAnswer: user, Outcome: OutcomeWrong}
	key := fold(q.AnswerKey)
	if user == key || (s.maxEdit > 0 && levenshtein(user, key) <= s.maxEdit) {
		res.Outcome = OutcomeCorrect
	}
	return res, nil
}
