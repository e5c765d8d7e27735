package quiz

import (
	"fmt"
	"strings"
)

// Tier is a difficulty level. Quiz kinds track tiers independently.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// ParseTier accepts a tier name in any case.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// Kind is one of the two quiz types. Its value doubles as the service path segment.
type Kind string

const (
	KindChoice Kind = "mcq"
	KindFill   Kind = "fillups"
)

func (k Kind) Valid() bool { return k == KindChoice || k == KindFill }

// Label is the user-facing plural name used in notices.
func (k Kind) Label() string {
	switch k {
	case KindChoice:
		return "MCQs"
	case KindFill:
		return "fill-in-the-blanks"
	}
	return string(k)
}

const (
	BatchSize    = 5
	MinCount     = 5
	MaxCount     = 20
	DefaultCount = 10
)

// ValidCount reports whether n is an accepted generation target count.
func ValidCount(n int) bool { return n >= MinCount && n <= MaxCount }

// ClampCount forces n into [MinCount, MaxCount].
func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
