package quiz

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

/* ---------------- In-memory fake that satisfies Service ---------------- */

type fakeService[Q Question] struct {
	mu        sync.Mutex
	tiers     map[Tier][]Q
	genErr    error
	fetchErr  error
	saveErr   error
	calls     []string
	genReqs   []genReq
	saved     []Progress
	block     chan struct{} // when set, Generate waits on it
	fetchHook func()
}

type genReq struct {
	DocID string
	Tier  Tier
	Count int
}

func (f *fakeService[Q]) Generate(ctx context.Context, docID string, tier Tier, count int) error {
	f.mu.Lock()
	f.calls = append(f.calls, "generate")
	f.genReqs = append(f.genReqs, genReq{DocID: docID, Tier: tier, Count: count})
	block := f.block
	err := f.genErr
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeService[Q]) Fetch(_ context.Context, _ string) (map[Tier][]Q, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "fetch")
	hook := f.fetchHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.tiers, nil
}

func (f *fakeService[Q]) SaveProgress(_ context.Context, p Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "save")
	f.saved = append(f.saved, p)
	return f.saveErr
}

func (f *fakeService[Q]) fail(genErr, fetchErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genErr, f.fetchErr = genErr, fetchErr
}

func (f *fakeService[Q]) callLog() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.calls, ",")
}

func (f *fakeService[Q]) savedBatches() []Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Progress(nil), f.saved...)
}

func choiceSet(tier Tier, n int) []ChoiceQuestion {
	out := make([]ChoiceQuestion, n)
	for i := range out {
		out[i] = ChoiceQuestion{
			ID:          fmt.Sprintf("%s_%d", tier, i+1),
			Prompt:      fmt.Sprintf("question %d", i+1),
			Options:     []string{"a", "b", "c", "d"},
			Correct:     "a",
			Explanation: fmt.Sprintf("because %d", i+1),
		}
	}
	return out
}

func fillSet(tier Tier, n int) []FillQuestion {
	out := make([]FillQuestion, n)
	for i := range out {
		out[i] = FillQuestion{
			ID:     fmt.Sprintf("%s_%d", tier, i+1),
			Prompt: fmt.Sprintf("The capital is ____ (%d)", i+1),
			Answer: "Paris",
		}
	}
	return out
}
