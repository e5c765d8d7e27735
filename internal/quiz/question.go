package quiz

// Question is anything the engine can page through and grade.
type Question interface {
	QuestionID() string
}

// ChoiceQuestion has a single correct option among the listed alternatives.
// Correct is expected to be one of Options; the engine does not enforce it.
type ChoiceQuestion struct {
	ID          string
	Prompt      string
	Options     []string
	Correct     string
	Explanation string
}

func (q ChoiceQuestion) QuestionID() string { return q.ID }

// FillQuestion is a free-text question. Prompt carries a blank marker the
// engine never interprets.
type FillQuestion struct {
	ID     string
	Prompt string
	Answer string
}

func (q FillQuestion) QuestionID() string { return q.ID }

func questionIDs[Q Question](qs []Q) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.QuestionID()
	}
	return ids
}
