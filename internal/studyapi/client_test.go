package studyapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

type captured struct {
	mu    sync.Mutex
	paths []string
	body  map[string]json.RawMessage
}

func (c *captured) last() (string, map[string]json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[len(c.paths)-1], c.body
}

func captureServer(t *testing.T, status int, reply string) (*Client, *captured) {
	t.Helper()
	rec := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.paths = append(rec.paths, r.Method+" "+r.URL.EscapedPath())
		rec.body = nil
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		rec.mu.Unlock()
		if status/100 != 2 {
			http.Error(w, reply, status)
			return
		}
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"}), rec
}

func TestGenerateWireShape(t *testing.T) {
	c, rec := captureServer(t, http.StatusOK, `{"difficulty":"hard","count":10}`)
	if err := c.Fill().Generate(context.Background(), "doc-1", quiz.TierHard, 10); err != nil {
		t.Fatalf("generate: %v", err)
	}
	path, body := rec.last()
	if path != "POST /fillups" {
		t.Fatalf("unexpected path %q", path)
	}
	if string(body["doc_id"]) != `"doc-1"` || string(body["difficulty"]) != `"hard"` || string(body["num"]) != `10` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestSaveProgressWireShape(t *testing.T) {
	c, rec := captureServer(t, http.StatusOK, `{"status":"ok"}`)
	p := quiz.Progress{DocID: "doc-1", Tier: quiz.TierEasy, BatchIDs: []string{"easy_1", "easy_2"}}
	if err := c.Choice().SaveProgress(context.Background(), p); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, body := rec.last()
	if path != "POST /mcq/save-progress" {
		t.Fatalf("unexpected path %q", path)
	}
	if string(body["batch_ids"]) != `["easy_1","easy_2"]` || string(body["answers"]) != `{}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestFetchChoiceDecodes(t *testing.T) {
	c, rec := captureServer(t, http.StatusOK, `{
	  "easy": [{"id":"easy_1","question":"Q1","options":["a","b"],"answer":"a","explanation":"x","user_answer":"","result":""}],
	  "hard": []
	}`)
	bank, err := c.FetchChoice(context.Background(), "doc 1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path, _ := rec.last(); path != "GET /docs/doc%201/mcq" {
		t.Fatalf("unexpected path %q", path)
	}
	q := bank[quiz.TierEasy][0]
	if q.ID != "easy_1" || q.Prompt != "Q1" || q.Correct != "a" || q.Explanation != "x" || len(q.Options) != 2 {
		t.Fatalf("unexpected question %+v", q)
	}
	if len(bank[quiz.TierHard]) != 0 {
		t.Fatalf("unexpected hard tier %+v", bank[quiz.TierHard])
	}
}

func TestFetchRejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"missing id":   `{"easy":[{"question":"Q","options":["a"],"answer":"a"}]}`,
		"duplicate id": `{"easy":[{"id":"q","question":"Q","options":["a"]},{"id":"q","question":"Q2","options":["a"]}]}`,
		"no options":   `{"easy":[{"id":"easy_1","question":"Q","answer":"a"}]}`,
		"unknown tier": `{"expert":[]}`,
		"not json":     `<html>`,
	}
	for name, payload := range cases {
		c, _ := captureServer(t, http.StatusOK, payload)
		if _, err := c.FetchChoice(context.Background(), "doc-1"); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%s: expected ErrMalformedPayload, got %v", name, err)
		}
	}
}

func TestFetchAcceptsIDsReusedAcrossTiers(t *testing.T) {
	c, _ := captureServer(t, http.StatusOK, `{
	  "easy":   [{"id":"1","text":"__ is blue","answer":"sky"},{"id":"2","text":"__ is green","answer":"grass"}],
	  "medium": [{"id":"1","text":"__ is red","answer":"blood"}]
	}`)
	bank, err := c.FetchFill(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bank[quiz.TierEasy]) != 2 || len(bank[quiz.TierMedium]) != 1 || bank[quiz.TierMedium][0].Answer != "blood" {
		t.Fatalf("unexpected bank %+v", bank)
	}
}

func TestFetchFillAllowsMissingOptions(t *testing.T) {
	c, _ := captureServer(t, http.StatusOK, `{"medium":[{"id":"medium_1","text":"__ is blue","answer":"sky"}]}`)
	bank, err := c.FetchFill(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q := bank[quiz.TierMedium][0]; q.Prompt != "__ is blue" || q.Answer != "sky" {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestNon2xxIsError(t *testing.T) {
	c, _ := captureServer(t, http.StatusBadGateway, "question generator failed")
	err := c.Generate(context.Background(), quiz.KindChoice, "doc-1", quiz.TierEasy, 10)
	if err == nil || !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "generator failed") {
		t.Fatalf("expected status error, got %v", err)
	}
}
