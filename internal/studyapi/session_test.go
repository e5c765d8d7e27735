package studyapi

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apihttp "github.com/mind-engage/studyquiz/internal/api/http"
	auth "github.com/mind-engage/studyquiz/internal/auth/middleware"
	"github.com/mind-engage/studyquiz/internal/generate"
	"github.com/mind-engage/studyquiz/internal/quiz"
	"github.com/mind-engage/studyquiz/internal/rbac"
	"github.com/mind-engage/studyquiz/internal/study"
)

// liveService runs the real router over an in-memory store.
func liveService(t *testing.T, secret string) (*httptest.Server, study.Store) {
	t.Helper()
	st := study.NewInMemoryStore()
	svc := study.NewService(st, generate.NewPoolGenerator(st), nil, nil)
	srv := httptest.NewServer(apihttp.NewRouter(apihttp.RouterConfig{Service: svc, Auth: auth.NewAuthService(secret)}))
	t.Cleanup(srv.Close)

	var items []study.PoolItem
	for i := 1; i <= 7; i++ {
		items = append(items, study.PoolItem{Tier: quiz.TierEasy, Record: study.Record{
			Question: fmt.Sprintf("Q%d", i), Options: []string{"a", "b", "c"}, Answer: "a", Explanation: "first letter",
		}})
	}
	if err := st.PutPool(context.Background(), "doc-1", quiz.KindChoice, items); err != nil {
		t.Fatal(err)
	}
	return srv, st
}

func TestChoiceSessionAgainstLiveService(t *testing.T) {
	srv, st := liveService(t, "")
	client := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	c := quiz.NewChoiceController("doc-1", client.Choice(), quiz.WithProgressTimeout(5*time.Second))
	ctx := context.Background()

	if err := c.Generate(ctx, quiz.TierEasy, 5); err != nil {
		t.Fatalf("generate: %v", err)
	}
	v := c.View()
	if v.Total != 5 || len(v.Window) != 5 || v.Window[0].ID != "easy_1" {
		t.Fatalf("unexpected view %+v", v)
	}
	_ = c.Answer("easy_1", "a")
	_ = c.Answer("easy_2", "b")
	fb, err := c.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if tally := fb.Tally(); tally != (quiz.Tally{Correct: 1, Wrong: 1, NotAnswered: 3}) {
		t.Fatalf("unexpected tally %+v", tally)
	}
	c.Wait()

	bank, err := st.Bank(ctx, "doc-1", quiz.KindChoice)
	if err != nil {
		t.Fatal(err)
	}
	got := bank[quiz.TierEasy]
	if got[0].Result != study.ResultCorrect || got[1].Result != study.ResultWrong || got[2].Result != study.ResultNotAnswered {
		t.Fatalf("progress not recorded: %+v", got)
	}

	done, err := c.Next()
	if err != nil || !done || c.State() != quiz.StateComplete {
		t.Fatalf("expected completion, done=%v err=%v state=%s", done, err, c.State())
	}
}

func TestGenerateFailureSurfacesNotice(t *testing.T) {
	srv, _ := liveService(t, "")
	client := New(Config{BaseURL: srv.URL})
	c := quiz.NewFillController("ghost", client.Fill())
	err := c.Generate(context.Background(), quiz.TierEasy, 10)
	if !errors.Is(err, quiz.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if v := c.View(); v.Loading || !strings.Contains(v.Notice, "fill-in-the-blanks") {
		t.Fatalf("unexpected view after failure %+v", v)
	}
}

func TestServiceTokenSource(t *testing.T) {
	srv, _ := liveService(t, "s3cret")

	anon := New(Config{BaseURL: srv.URL})
	if _, err := anon.FetchChoice(context.Background(), "doc-1"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 without token, got %v", err)
	}

	signed := New(Config{BaseURL: srv.URL, TokenSource: auth.NewAuthService("s3cret").TokenSource("practice", rbac.RoleLearner)})
	if _, err := signed.FetchChoice(context.Background(), "doc-1"); err != nil {
		t.Fatalf("fetch with token: %v", err)
	}
}
