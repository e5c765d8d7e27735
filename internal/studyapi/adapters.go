package studyapi

import (
	"context"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

// Choice binds the client to the multiple-choice endpoints.
func (c *Client) Choice() quiz.Service[quiz.ChoiceQuestion] { return choiceService{c} }

// Fill binds the client to the fill-in-the-blank endpoints.
func (c *Client) Fill() quiz.Service[quiz.FillQuestion] { return fillService{c} }

type choiceService struct{ c *Client }

func (s choiceService) Generate(ctx context.Context, docID string, tier quiz.Tier, count int) error {
	return s.c.Generate(ctx, quiz.KindChoice, docID, tier, count)
}

func (s choiceService) Fetch(ctx context.Context, docID string) (map[quiz.Tier][]quiz.ChoiceQuestion, error) {
	return s.c.FetchChoice(ctx, docID)
}

func (s choiceService) SaveProgress(ctx context.Context, p quiz.Progress) error {
	p.Kind = quiz.KindChoice
	return s.c.SaveProgress(ctx, p)
}

type fillService struct{ c *Client }

func (s fillService) Generate(ctx context.Context, docID string, tier quiz.Tier, count int) error {
	return s.c.Generate(ctx, quiz.KindFill, docID, tier, count)
}

func (s fillService) Fetch(ctx context.Context, docID string) (map[quiz.Tier][]quiz.FillQuestion, error) {
	return s.c.FetchFill(ctx, docID)
}

func (s fillService) SaveProgress(ctx context.Context, p quiz.Progress) error {
	p.Kind = quiz.KindFill
	return s.c.SaveProgress(ctx, p)
}
