package study

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mind-engage/studyquiz/internal/db"
	"github.com/mind-engage/studyquiz/internal/quiz"
)

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return NewSQLStore(dbh, string(db.DriverSQLite))
}

func TestSQLStorePoolAndBank(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	if ok, err := st.HasDocument(ctx, "doc-1"); err != nil || ok {
		t.Fatalf("unexpected document before pool: %v, %v", ok, err)
	}
	items := []PoolItem{
		{Tier: quiz.TierEasy, Record: Record{Text: "a ____", Answer: "b"}},
		{Tier: quiz.TierHard, Record: Record{Text: "c ____", Answer: "d"}},
	}
	if err := st.PutPool(ctx, "doc-1", quiz.KindFill, items); err != nil {
		t.Fatalf("put pool: %v", err)
	}
	pool, err := st.Pool(ctx, "doc-1", quiz.KindFill, quiz.TierHard)
	if err != nil || len(pool) != 1 || pool[0].Answer != "d" {
		t.Fatalf("unexpected pool %+v, %v", pool, err)
	}

	recs := []Record{{ID: "easy_1", Text: "a ____", Answer: "b"}}
	if err := st.ReplaceTier(ctx, "doc-1", quiz.KindFill, quiz.TierEasy, "run-1", recs); err != nil {
		t.Fatalf("replace tier: %v", err)
	}
	// regeneration replaces, never merges
	recs = []Record{{ID: "easy_1", Text: "x ____", Answer: "y"}, {ID: "easy_2", Text: "z ____", Answer: "w"}}
	if err := st.ReplaceTier(ctx, "doc-1", quiz.KindFill, quiz.TierEasy, "run-2", recs); err != nil {
		t.Fatalf("replace tier: %v", err)
	}
	bank, err := st.Bank(ctx, "doc-1", quiz.KindFill)
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if len(bank[quiz.TierEasy]) != 2 || bank[quiz.TierEasy][0].Answer != "y" {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if other, _ := st.Bank(ctx, "doc-1", quiz.KindChoice); len(other) != 0 {
		t.Fatalf("kinds must not share banks: %+v", other)
	}
}

func TestSQLStoreUpdateTier(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()
	if err := st.PutPool(ctx, "doc-1", quiz.KindChoice, nil); err != nil {
		t.Fatalf("put pool: %v", err)
	}
	if err := st.UpdateTier(ctx, "doc-1", quiz.KindChoice, quiz.TierEasy, nil); !errors.Is(err, ErrNoQuestion) {
		t.Fatalf("expected ErrNoQuestion, got %v", err)
	}
	if err := st.UpdateTier(ctx, "nope", quiz.KindChoice, quiz.TierEasy, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	recs := []Record{{ID: "easy_1", Question: "q", Options: []string{"a", "b"}, Answer: "a"}}
	if err := st.ReplaceTier(ctx, "doc-1", quiz.KindChoice, quiz.TierEasy, "run-1", recs); err != nil {
		t.Fatalf("replace tier: %v", err)
	}
	err := st.UpdateTier(ctx, "doc-1", quiz.KindChoice, quiz.TierEasy, func(recs []Record) ([]Record, error) {
		recs[0].UserAnswer, recs[0].Result = "a", ResultCorrect
		return recs, nil
	})
	if err != nil {
		t.Fatalf("update tier: %v", err)
	}
	bank, _ := st.Bank(ctx, "doc-1", quiz.KindChoice)
	if got := bank[quiz.TierEasy][0]; got.Result != ResultCorrect || got.UserAnswer != "a" {
		t.Fatalf("progress not persisted: %+v", got)
	}

	boom := errors.New("boom")
	err = st.UpdateTier(ctx, "doc-1", quiz.KindChoice, quiz.TierEasy, func([]Record) ([]Record, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
