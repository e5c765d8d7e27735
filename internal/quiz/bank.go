package quiz

// Bank holds one kind's generated questions for a document, one ordered
// sequence per tier. It is never mutated after construction; regeneration
// replaces it wholesale.
type Bank[Q Question] struct {
	tiers map[Tier][]Q
}

// NewBank copies the given sequences. Unknown tiers and empty sequences are dropped.
func NewBank[Q Question](tiers map[Tier][]Q) *Bank[Q] {
	b := &Bank[Q]{tiers: make(map[Tier][]Q, len(tiers))}
	for t, qs := range tiers {
		if !t.Valid() || len(qs) == 0 {
			continue
		}
		b.tiers[t] = append([]Q(nil), qs...)
	}
	return b
}

// Questions returns the tier's sequence. The slice must not be modified.
func (b *Bank[Q]) Questions(t Tier) []Q {
	if b == nil {
		return nil
	}
	return b.tiers[t]
}

func (b *Bank[Q]) Len(t Tier) int { return len(b.Questions(t)) }

func (b *Bank[Q]) Empty() bool {
	return b == nil || len(b.tiers) == 0
}
