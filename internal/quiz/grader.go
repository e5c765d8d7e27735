package quiz

import "strings"

type Result string

const (
	ResultCorrect     Result = "correct"
	ResultWrong       Result = "wrong"
	ResultNotAnswered Result = "not_answered"
)

// Verdict is the grading outcome for one question of a submitted batch.
type Verdict struct {
	ID          string `json:"id"`
	Result      Result `json:"result"`
	Correct     string `json:"correct,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	// fill-in only
	Prompt string `json:"question,omitempty"`
	Answer string `json:"user,omitempty"`
}

// Feedback holds one verdict per question, in batch order.
type Feedback []Verdict

type Tally struct {
	Correct, Wrong, NotAnswered int
}

func (f Feedback) Tally() Tally {
	var t Tally
	for _, v := range f {
		switch v.Result {
		case ResultCorrect:
			t.Correct++
		case ResultWrong:
			t.Wrong++
		case ResultNotAnswered:
			t.NotAnswered++
		}
	}
	return t
}

// GradeFunc grades a batch against a ledger snapshot. Implementations must be pure.
type GradeFunc[Q Question] func(batch []Q, snap Snapshot) Feedback

// GradeChoice compares answers to the stored option by exact string match.
// Unanswered questions carry neither the correct option nor the explanation.
func GradeChoice(batch []ChoiceQuestion, snap Snapshot) Feedback {
	fb := make(Feedback, 0, len(batch))
	for _, q := range batch {
		ans, ok := snap.Lookup(q.ID)
		if !ok {
			fb = append(fb, Verdict{ID: q.ID, Result: ResultNotAnswered})
			continue
		}
		v := Verdict{ID: q.ID, Result: ResultWrong, Correct: q.Correct, Explanation: q.Explanation}
		if ans == q.Correct {
			v.Result = ResultCorrect
		}
		fb = append(fb, v)
	}
	return fb
}

// GradeFill compares trimmed, lowercased answers. There is no not-answered
// outcome: a missing answer grades as the empty string.
func GradeFill(batch []FillQuestion, snap Snapshot) Feedback {
	fb := make(Feedback, 0, len(batch))
	for _, q := range batch {
		raw, _ := snap.Lookup(q.ID)
		v := Verdict{
			ID:      q.ID,
			Result:  ResultWrong,
			Correct: q.Answer,
			Prompt:  q.Prompt,
			Answer:  strings.TrimSpace(raw),
		}
		if FoldAnswer(raw) == FoldAnswer(q.Answer) {
			v.Result = ResultCorrect
		}
		fb = append(fb, v)
	}
	return fb
}

// FoldAnswer is the fill-in comparison key.
func FoldAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
