// Package studyapi is the HTTP client for the study service. Payloads are
// checked at the boundary so the quiz engine only ever sees well-formed
// questions.
package studyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

var ErrMalformedPayload = errors.New("malformed payload")

type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration

	// Client-credentials grant; used when TokenURL is set.
	TokenURL     string
	ClientID     string
	ClientSecret string

	// TokenSource is used when no TokenURL is configured, e.g. a locally
	// minted service token.
	TokenSource oauth2.TokenSource

	// HTTPClient overrides all of the above.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	h := cfg.HTTPClient
	switch {
	case h != nil:
	case cfg.TokenURL != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		h = cc.Client(context.Background())
	case cfg.TokenSource != nil:
		h = oauth2.NewClient(context.Background(), oauth2.ReuseTokenSource(nil, cfg.TokenSource))
	default:
		h = &http.Client{}
	}
	if cfg.Timeout > 0 && cfg.HTTPClient == nil {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimSuffix(cfg.BaseURL, "/"), http: h}
}

// Wire shapes.

type generateReq struct {
	DocID      string    `json:"doc_id"`
	Difficulty quiz.Tier `json:"difficulty"`
	Num        int       `json:"num"`
}

type saveProgressReq struct {
	DocID      string            `json:"doc_id"`
	Difficulty quiz.Tier         `json:"difficulty"`
	BatchIDs   []string          `json:"batch_ids"`
	Answers    map[string]string `json:"answers"`
}

type record struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Generate asks the service to build and store a question set for one tier.
func (c *Client) Generate(ctx context.Context, kind quiz.Kind, docID string, tier quiz.Tier, count int) error {
	body := generateReq{DocID: docID, Difficulty: tier, Num: count}
	return c.postJSON(ctx, "/"+string(kind), body, "generate "+kind.Label())
}

func (c *Client) SaveProgress(ctx context.Context, p quiz.Progress) error {
	body := saveProgressReq{
		DocID:      p.DocID,
		Difficulty: p.Tier,
		BatchIDs:   p.BatchIDs,
		Answers:    p.Answers,
	}
	if body.Answers == nil {
		body.Answers = map[string]string{}
	}
	return c.postJSON(ctx, "/"+string(p.Kind)+"/save-progress", body, "save progress")
}

func (c *Client) FetchChoice(ctx context.Context, docID string) (map[quiz.Tier][]quiz.ChoiceQuestion, error) {
	raw, err := c.fetch(ctx, quiz.KindChoice, docID)
	if err != nil {
		return nil, err
	}
	return convert(raw, func(tier quiz.Tier, r record) (quiz.ChoiceQuestion, error) {
		if len(r.Options) == 0 {
			return quiz.ChoiceQuestion{}, fmt.Errorf("%w: %s question %q has no options", ErrMalformedPayload, tier, r.ID)
		}
		return quiz.ChoiceQuestion{
			ID:          r.ID,
			Prompt:      r.Question,
			Options:     r.Options,
			Correct:     r.Answer,
			Explanation: r.Explanation,
		}, nil
	})
}

func (c *Client) FetchFill(ctx context.Context, docID string) (map[quiz.Tier][]quiz.FillQuestion, error) {
	raw, err := c.fetch(ctx, quiz.KindFill, docID)
	if err != nil {
		return nil, err
	}
	return convert(raw, func(_ quiz.Tier, r record) (quiz.FillQuestion, error) {
		return quiz.FillQuestion{ID: r.ID, Prompt: r.Text, Answer: r.Answer}, nil
	})
}

func (c *Client) fetch(ctx context.Context, kind quiz.Kind, docID string) (map[string][]record, error) {
	u := c.base + "/docs/" + url.PathEscape(docID) + "/" + string(kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, statusErr("fetch "+kind.Label(), res)
	}
	var out map[string][]record
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}

// convert validates tier keys and ids before mapping records to questions.
// Ids must be non-empty and unique within their tier; tiers may reuse ids.
func convert[Q quiz.Question](raw map[string][]record, fn func(quiz.Tier, record) (Q, error)) (map[quiz.Tier][]Q, error) {
	out := make(map[quiz.Tier][]Q, len(raw))
	for key, recs := range raw {
		tier := quiz.Tier(key)
		if !tier.Valid() {
			return nil, fmt.Errorf("%w: unknown difficulty %q", ErrMalformedPayload, key)
		}
		qs := make([]Q, 0, len(recs))
		seen := make(map[string]struct{}, len(recs))
		for i, r := range recs {
			r.ID = strings.TrimSpace(r.ID)
			if r.ID == "" {
				return nil, fmt.Errorf("%w: %s record %d has no id", ErrMalformedPayload, tier, i)
			}
			if _, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate %s id %q", ErrMalformedPayload, tier, r.ID)
			}
			seen[r.ID] = struct{}{}
			q, err := fn(tier, r)
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
		}
		out[tier] = qs
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, op string) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return statusErr(op, res)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func statusErr(op string, res *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	if m := strings.TrimSpace(string(msg)); m != "" {
		return fmt.Errorf("%s: %s: %s", op, res.Status, m)
	}
	return fmt.Errorf("%s: %s", op, res.Status)
}
