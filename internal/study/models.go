package study

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

// Record is one stored question of either kind. Choice questions use
// Question/Options/Explanation, fill-in questions use Text. UserAnswer and
// Result hold the last recorded progress for the question.
type Record struct {
	ID          string   `json:"id"`
	Question    string   `json:"question,omitempty"` // mcq
	Text        string   `json:"text,omitempty"`     // fillups
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	UserAnswer  string   `json:"user_answer"`
	Result      string   `json:"result"`
}

// Bank is the fetch payload: tier -> ordered records.
type Bank map[quiz.Tier][]Record

// PoolItem is a candidate question the generator may draw from.
type PoolItem struct {
	Tier quiz.Tier `json:"difficulty"`
	Record
}

type GenerateRequest struct {
	DocID      string          `json:"doc_id"`
	Difficulty quiz.Tier       `json:"difficulty,omitempty"`
	Num        json.RawMessage `json:"num,omitempty"`
}

// TargetCount reads num leniently: a number or numeric string is accepted,
// anything else falls back to the default. The result is clamped to 5..20.
func (r GenerateRequest) TargetCount() int {
	raw := strings.Trim(strings.TrimSpace(string(r.Num)), `"`)
	if raw == "" {
		return quiz.DefaultCount
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return quiz.DefaultCount
		}
		n = int(f)
	}
	return quiz.ClampCount(n)
}

type GenerateResponse struct {
	Difficulty quiz.Tier `json:"difficulty"`
	Count      int       `json:"count"`
	RunID      string    `json:"run_id,omitempty"`
}

type SaveProgressRequest struct {
	DocID      string            `json:"doc_id"`
	Difficulty quiz.Tier         `json:"difficulty"`
	BatchIDs   []string          `json:"batch_ids"`
	Answers    map[string]string `json:"answers"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

const (
	ResultCorrect     = "correct"
	ResultWrong       = "wrong"
	ResultNotAnswered = "not answered"
)
