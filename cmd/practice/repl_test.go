package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

type stubChoice struct {
	mu    sync.Mutex
	saved []quiz.Progress
}

func (s *stubChoice) Generate(context.Context, string, quiz.Tier, int) error { return nil }

func (s *stubChoice) Fetch(context.Context, string) (map[quiz.Tier][]quiz.ChoiceQuestion, error) {
	qs := make([]quiz.ChoiceQuestion, 6)
	for i := range qs {
		qs[i] = quiz.ChoiceQuestion{
			ID:      fmt.Sprintf("easy_%d", i+1),
			Prompt:  fmt.Sprintf("Q%d", i+1),
			Options: []string{"red", "green", "blue"},
			Correct: "green",
		}
	}
	return map[quiz.Tier][]quiz.ChoiceQuestion{quiz.TierEasy: qs}, nil
}

func (s *stubChoice) SaveProgress(_ context.Context, p quiz.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, p)
	return nil
}

type stubFill struct{}

func (stubFill) Generate(context.Context, string, quiz.Tier, int) error { return nil }

func (stubFill) Fetch(context.Context, string) (map[quiz.Tier][]quiz.FillQuestion, error) {
	return map[quiz.Tier][]quiz.FillQuestion{quiz.TierEasy: {
		{ID: "easy_1", Prompt: "The capital of France is ____", Answer: "Paris"},
	}}, nil
}

func (stubFill) SaveProgress(context.Context, quiz.Progress) error { return nil }

func newTestShell(svc *stubChoice, out *bytes.Buffer) *shell {
	return newShell(out, quiz.KindChoice, map[quiz.Kind]pane{
		quiz.KindChoice: newChoiceREPL(quiz.NewChoiceController("doc-1", svc), out),
		quiz.KindFill:   newFillREPL(quiz.NewFillController("doc-1", stubFill{}), out),
	})
}

func TestChoiceSession(t *testing.T) {
	svc := &stubChoice{}
	var out bytes.Buffer
	sh := newTestShell(svc, &out)
	in := strings.NewReader("g\na 1 2\na 2 red\na 9 1\ns\nn\ns\nn\nq\n")
	if err := sh.run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	sh.wait()

	text := out.String()
	for _, want := range []string{
		"[easy] questions 1-5 of 6",
		`no question "9" in this batch`,
		"correct 1, wrong 1, not answered 3",
		"[easy] questions 6-6 of 6",
		"You have completed all MCQs for this difficulty.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.saved) != 2 || svc.saved[0].Answers["easy_1"] != "green" {
		t.Fatalf("unexpected saves %+v", svc.saved)
	}
}

func TestSwitchingKindsKeepsSessionsApart(t *testing.T) {
	var out bytes.Buffer
	sh := newTestShell(&stubChoice{}, &out)
	script := strings.Join([]string{
		"g", "a 1 2", "v", // choice: easy_1 answered "green"
		"k fillups", // fill: nothing generated yet
		"g", "a 1 paris", "s",
		"k mcq", // choice answers survived the detour
		"k essay",
		"q",
	}, "\n") + "\n"
	if err := sh.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}
	sh.wait()

	text := out.String()
	for _, want := range []string{
		"no easy fill-in-the-blanks loaded; type g to generate",
		"1. correct (you: paris)",
		"   * 2) green",
		`error: unknown kind "essay"`,
		"fillups> ",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "   * 2) green") != 2 {
		t.Fatalf("choice answer should render before and after the switch:\n%s", text)
	}
}
