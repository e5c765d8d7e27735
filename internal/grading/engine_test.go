package grading

import (
	"context"
	"errors"
	"testing"
)

func TestChoiceStrategy(t *testing.T) {
	g := NewDefaultGrader()
	ctx := context.Background()
	q := Q{Kind: "mcq", AnswerKey: "Paris "}

	res, err := g.Grade(ctx, q, " Paris")
	if err != nil || res.Outcome != OutcomeCorrect || res.UserAnswer != "Paris" {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
	res, _ = g.Grade(ctx, q, "paris")
	if res.Outcome != OutcomeWrong {
		t.Fatalf("choice answers are case sensitive, got %+v", res)
	}
	res, _ = g.Grade(ctx, q, "  ")
	if res.Outcome != OutcomeNotAnswered || res.UserAnswer != "" {
		t.Fatalf("blank answer should be not answered, got %+v", res)
	}
}

func TestFillStrategy(t *testing.T) {
	g := NewDefaultGrader()
	ctx := context.Background()
	q := Q{Kind: "fillups", AnswerKey: "Photosynthesis"}

	res, _ := g.Grade(ctx, q, " PHOTOSYNTHESIS ")
	if res.Outcome != OutcomeCorrect || res.UserAnswer != "photosynthesis" {
		t.Fatalf("unexpected result %+v", res)
	}
	res, _ = g.Grade(ctx, q, "photosynthesys")
	if res.Outcome != OutcomeWrong {
		t.Fatalf("fuzzy matching must be off by default, got %+v", res)
	}
	res, _ = g.Grade(ctx, q, "")
	if res.Outcome != OutcomeNotAnswered {
		t.Fatalf("empty answer should be not answered, got %+v", res)
	}
}

func TestFillStrategyWithEditDistance(t *testing.T) {
	g := NewDefaultGrader(WithMaxEditDistance(1))
	res, _ := g.Grade(context.Background(), Q{Kind: "fillups", AnswerKey: "mitochondria"}, "mitochondrio")
	if res.Outcome != OutcomeCorrect {
		t.Fatalf("expected close match to pass, got %+v", res)
	}
	res, _ = g.Grade(context.Background(), Q{Kind: "fillups", AnswerKey: "mitochondria"}, "ribosome")
	if res.Outcome != OutcomeWrong {
		t.Fatalf("expected distant answer to fail, got %+v", res)
	}
}

func TestUnknownKind(t *testing.T) {
	_, err := NewDefaultGrader().Grade(context.Background(), Q{Kind: "essay"}, "x")
	if !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("expected ErrNoStrategy, got %v", err)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q,%q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
