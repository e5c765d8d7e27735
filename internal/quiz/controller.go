package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mind-engage/studyquiz/internal/platform/logger"
)

// Service is the remote side of one quiz kind.
type Service[Q Question] interface {
	// Generate asks the service to produce and store a question set. It
	// returns once the set is stored; no questions come back.
	Generate(ctx context.Context, docID string, tier Tier, count int) error
	// Fetch returns every stored tier for the document.
	Fetch(ctx context.Context, docID string) (map[Tier][]Q, error)
	ProgressSaver
}

type State int

const (
	StateIdle State = iota
	StateLoaded
	StateSubmitted
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateSubmitted:
		return "submitted"
	case StateComplete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// session is everything the state machine mutates. Offset is always a
// multiple of BatchSize and the ledger only holds ids of the current window.
type session struct {
	state    State
	tier     Tier
	count    int
	offset   int
	ledger   Ledger
	feedback Feedback
	notice   string
}

func (s *session) reset() {
	s.offset = 0
	s.ledger.Reset()
	s.feedback = nil
}

type Option func(*options)

type options struct {
	log             *logger.Logger
	progressTimeout time.Duration
	tier            Tier
	count           int
}

func WithLogger(l *logger.Logger) Option { return func(o *options) { o.log = l } }

// WithProgressTimeout bounds each background progress save.
func WithProgressTimeout(d time.Duration) Option {
	return func(o *options) { o.progressTimeout = d }
}

// WithDefaults sets the initial tier and target count.
func WithDefaults(t Tier, count int) Option {
	return func(o *options) { o.tier, o.count = t, count }
}

// Controller drives one practice session for one quiz kind of one document.
// All methods are safe for concurrent use; the lock is never held across a
// network call, so other operations proceed while Generate is pending.
type Controller[Q Question] struct {
	docID    string
	kind     Kind
	svc      Service[Q]
	grade    GradeFunc[Q]
	reporter *Reporter
	log      *logger.Logger

	mu       sync.Mutex
	bank     *Bank[Q]
	last     *Bank[Q] // most recent successfully fetched bank
	sess     session
	token    uint64 // bumped by Generate only
	inflight int
}

func NewController[Q Question](docID string, kind Kind, svc Service[Q], grade GradeFunc[Q], opts ...Option) *Controller[Q] {
	o := options{
		log:             logger.Nop(),
		progressTimeout: 30 * time.Second,
		tier:            TierEasy,
		count:           DefaultCount,
	}
	for _, fn := range opts {
		fn(&o)
	}
	log := o.log.With("doc_id", docID, "kind", kind)
	return &Controller[Q]{
		docID:    docID,
		kind:     kind,
		svc:      svc,
		grade:    grade,
		reporter: NewReporter(svc, log, o.progressTimeout),
		log:      log,
		sess:     session{state: StateIdle, tier: o.tier, count: o.count},
	}
}

func NewChoiceController(docID string, svc Service[ChoiceQuestion], opts ...Option) *Controller[ChoiceQuestion] {
	return NewController(docID, KindChoice, svc, GradeChoice, opts...)
}

func NewFillController(docID string, svc Service[FillQuestion], opts ...Option) *Controller[FillQuestion] {
	return NewController(docID, KindFill, svc, GradeFill, opts...)
}

// Generate regenerates the bank for tier and count and loads the first batch.
// The previous bank is invalidated while the call is pending. On failure the
// last fetched bank is restored with a fresh cursor and ErrGeneration is
// returned. If a newer Generate started meanwhile, that call owns the session:
// this response is not installed and ErrSuperseded is returned.
// ChangeTier and ChangeCount during the call only adjust the session it lands in.
func (c *Controller[Q]) Generate(ctx context.Context, tier Tier, count int) error {
	if !tier.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	if !ValidCount(count) {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	c.mu.Lock()
	c.token++
	tok := c.token
	c.bank = nil
	c.sess.tier, c.sess.count = tier, count
	c.sess.reset()
	c.sess.notice = ""
	c.sess.state = StateIdle
	c.inflight++
	c.mu.Unlock()
	defer c.release()

	bank, err := c.load(ctx, tier, count)

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token {
		if err == nil {
			c.last = bank
		}
		c.log.Info("discarding stale generation", "tier", tier, "error", err)
		return ErrSuperseded
	}
	if err != nil {
		c.log.Error("generation failed", "tier", tier, "count", count, "error", err)
		c.bank = c.last
		c.sess.state = c.restState()
		c.sess.notice = fmt.Sprintf("Failed to generate %s.", c.kind.Label())
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	c.bank, c.last = bank, bank
	c.sess.state = c.restState()
	c.log.Info("bank loaded", "tier", tier, "count", count, "available", bank.Len(tier))
	return nil
}

func (c *Controller[Q]) load(ctx context.Context, tier Tier, count int) (*Bank[Q], error) {
	if err := c.svc.Generate(ctx, c.docID, tier, count); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	tiers, err := c.svc.Fetch(ctx, c.docID)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return NewBank(tiers), nil
}

func (c *Controller[Q]) release() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

// restState is the state for a freshly reset cursor. Caller holds mu.
func (c *Controller[Q]) restState() State {
	if c.bank.Len(c.sess.tier) == 0 {
		return StateIdle
	}
	return StateLoaded
}

// window returns the visible batch. Caller holds mu.
func (c *Controller[Q]) window() []Q {
	return Window(c.bank.Questions(c.sess.tier), c.sess.offset)
}

// Answer records value for a question of the current batch.
func (c *Controller[Q]) Answer(id, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state != StateLoaded {
		return fmt.Errorf("%w: answer in %s", ErrInvalidState, c.sess.state)
	}
	for _, q := range c.window() {
		if q.QuestionID() == id {
			c.sess.ledger.Record(id, value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
}

// Submit grades the current batch and starts a background progress save.
// Without a bank for the selected tier it does nothing and returns nil feedback.
// A batch can be submitted once; resubmitting returns ErrInvalidState.
func (c *Controller[Q]) Submit() (Feedback, error) {
	c.mu.Lock()
	if c.bank.Len(c.sess.tier) == 0 {
		c.mu.Unlock()
		return nil, nil
	}
	if c.sess.state != StateLoaded {
		st := c.sess.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: submit in %s", ErrInvalidState, st)
	}
	batch := c.window()
	snap := c.sess.ledger.Snapshot(questionIDs(batch))
	fb := c.grade(batch, snap)
	c.sess.feedback = fb
	c.sess.state = StateSubmitted
	progress := BuildProgress(c.docID, c.kind, c.sess.tier, batch, snap)
	c.mu.Unlock()

	c.reporter.Report(progress)
	return append(Feedback(nil), fb...), nil
}

// Next clears feedback and moves to the following batch. It reports true when
// the tier has no further batch; the session is then Complete and a notice is set.
func (c *Controller[Q]) Next() (complete bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state != StateSubmitted {
		return false, fmt.Errorf("%w: next in %s", ErrInvalidState, c.sess.state)
	}
	c.sess.feedback = nil
	next, err := Advance(c.sess.offset, c.bank.Len(c.sess.tier))
	if errors.Is(err, ErrBatchExhausted) {
		c.sess.state = StateComplete
		c.sess.notice = fmt.Sprintf("You have completed all %s for this difficulty.", c.kind.Label())
		return true, nil
	}
	c.sess.offset = next
	c.sess.ledger.Reset()
	c.sess.state = StateLoaded
	return false, nil
}

// ChangeTier selects a tier and restarts from its first batch of the current
// bank. It does not generate.
func (c *Controller[Q]) ChangeTier(t Tier) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTier, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.tier = t
	c.sess.reset()
	c.sess.notice = ""
	c.sess.state = c.restState()
	return nil
}

// ChangeCount sets the target count used by the next Generate.
func (c *Controller[Q]) ChangeCount(n int) error {
	if !ValidCount(n) {
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.count = n
	c.sess.reset()
	c.sess.notice = ""
	c.sess.state = c.restState()
	return nil
}

// View is a read-only copy of the session for the display layer.
type View[Q Question] struct {
	DocID    string
	Kind     Kind
	State    State
	Tier     Tier
	Count    int
	Offset   int
	Total    int
	Window   []Q
	Answers  Snapshot
	Feedback Feedback
	Loading  bool
	Notice   string
}

func (c *Controller[Q]) View() View[Q] {
	c.mu.Lock()
	defer c.mu.Unlock()
	batch := c.window()
	return View[Q]{
		DocID:    c.docID,
		Kind:     c.kind,
		State:    c.sess.state,
		Tier:     c.sess.tier,
		Count:    c.sess.count,
		Offset:   c.sess.offset,
		Total:    c.bank.Len(c.sess.tier),
		Window:   append([]Q(nil), batch...),
		Answers:  c.sess.ledger.Snapshot(questionIDs(batch)),
		Feedback: append(Feedback(nil), c.sess.feedback...),
		Loading:  c.inflight > 0,
		Notice:   c.sess.notice,
	}
}

func (c *Controller[Q]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.state
}

func (c *Controller[Q]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Wait blocks until background progress saves have finished.
func (c *Controller[Q]) Wait() { c.reporter.Wait() }
