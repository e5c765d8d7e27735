package quiz

// Ledger maps question ids to the user's current answer for the active batch.
// Answers can be revised freely until the batch is submitted; the last write wins.
type Ledger struct {
	answers map[string]string
}

// Record stores value for id. An empty value removes the entry, so a
// cleared input is indistinguishable from one never touched.
func (l *Ledger) Record(id, value string) {
	if value == "" {
		delete(l.answers, id)
		return
	}
	if l.answers == nil {
		l.answers = map[string]string{}
	}
	l.answers[id] = value
}

// Snapshot returns the recorded values for ids; ids without an entry are absent.
func (l *Ledger) Snapshot(ids []string) Snapshot {
	snap := make(Snapshot, len(ids))
	for _, id := range ids {
		if v, ok := l.answers[id]; ok {
			snap[id] = v
		}
	}
	return snap
}

func (l *Ledger) Len() int { return len(l.answers) }

func (l *Ledger) Reset() { l.answers = nil }

// Snapshot is a point-in-time copy of ledger entries for one batch.
type Snapshot map[string]string

func (s Snapshot) Lookup(id string) (string, bool) {
	v, ok := s[id]
	return v, ok
}
