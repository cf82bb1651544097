// Package attempt implements the test-taking engine: attempt lifecycle,
// answer selection, the one-second countdown with forced submission, and
// local scoring with server override.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// ─── Errors ──────────────────────────────────────────────────────────────────

var (
	// ErrNoQuestions is returned by Start when the test carries no questions.
	// The attempt never enters InProgress in that case.
	ErrNoQuestions = errors.New("attempt: test has no questions")
	// ErrNotStarted is returned by operations that require a running attempt.
	ErrNotStarted = errors.New("attempt: not started")
	// ErrUnknownQuestion is returned when a selection targets a question ID
	// that is not part of the test.
	ErrUnknownQuestion = errors.New("attempt: unknown question")
	// ErrInvalidOption is returned when a selected letter has no matching
	// option on the question.
	ErrInvalidOption = errors.New("attempt: invalid option")
)

// ─── State ───────────────────────────────────────────────────────────────────

// State is the attempt lifecycle phase.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateReview     State = "review"
	StateSubmitted  State = "submitted"
)

// Submitter sends a finished attempt to the server and returns the
// authoritative result. *service.TestService satisfies this.
type Submitter interface {
	Submit(ctx context.Context, submission model.TestSubmission) (model.TestResult, error)
}

// ─── Engine ──────────────────────────────────────────────────────────────────

// Engine drives one attempt of one test. All methods are safe for concurrent
// use; the countdown goroutine and the interactive caller share the engine.
type Engine struct {
	mu sync.Mutex

	test      model.Test
	submitter Submitter
	notifier  notify.Sink
	log       zerolog.Logger
	now       func() time.Time

	started      bool
	submitted    bool
	showReview   bool
	currentIndex int
	startedAt    time.Time
	remaining    int // seconds; meaningful only for timed tests

	// answers maps question ID to the set of selected letters.
	answers map[string]map[string]struct{}

	result      model.TestResult
	resultLocal bool // result was computed locally and not confirmed
}

// NewEngine creates an engine for one attempt of test. The submitter may be
// nil, in which case submission always falls back to the local score.
func NewEngine(test model.Test, submitter Submitter, notifier notify.Sink, log zerolog.Logger) *Engine {
	return &Engine{
		test:      test,
		submitter: submitter,
		notifier:  notifier,
		log:       log.With().Str("component", "attempt").Str("test_id", test.ID).Logger(),
		now:       time.Now,
		answers:   make(map[string]map[string]struct{}),
	}
}

// Start moves the attempt to InProgress and arms the countdown. Starting a
// test without questions fails; starting an already running attempt is a
// no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.test.Questions) == 0 {
		return ErrNoQuestions
	}
	if e.started {
		return nil
	}

	e.started = true
	e.startedAt = e.now()
	e.remaining = e.test.TimeMinutes * 60
	e.currentIndex = 0
	e.log.Info().Int("questions", len(e.test.Questions)).Int("seconds", e.remaining).Msg("attempt started")
	return nil
}

// State reports the current lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.submitted:
		return StateSubmitted
	case !e.started:
		return StateNotStarted
	case e.showReview:
		return StateReview
	default:
		return StateInProgress
	}
}

// SelectAnswer records a selection for a question. Single-choice replaces
// the previous selection; multiple-choice and select-all toggle membership.
// Selections after submission are ignored.
func (e *Engine) SelectAnswer(questionID, letter string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrNotStarted
	}
	if e.submitted {
		return nil
	}

	q, ok := e.question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !validLetter(letter, len(q.Options)) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, letter)
	}

	set := e.answers[questionID]
	if set == nil {
		set = make(map[string]struct{})
		e.answers[questionID] = set
	}

	switch q.Type {
	case model.QuestionTypeSingleChoice:
		for k := range set {
			delete(set, k)
		}
		set[letter] = struct{}{}
	default:
		if _, selected := set[letter]; selected {
			delete(set, letter)
		} else {
			set[letter] = struct{}{}
		}
	}
	return nil
}

// Answers returns the selected letters for a question in option order.
func (e *Engine) Answers(questionID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lettersOf(e.answers[questionID])
}

// AnsweredCount returns how many questions have at least one selection.
func (e *Engine) AnsweredCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, set := range e.answers {
		if len(set) > 0 {
			n++
		}
	}
	return n
}

// ─── Navigation ──────────────────────────────────────────────────────────────

// CurrentIndex returns the zero-based index of the question in view.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentIndex
}

// CurrentQuestion returns the question in view.
func (e *Engine) CurrentQuestion() (model.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.currentIndex >= len(e.test.Questions) {
		return model.Question{}, false
	}
	return e.test.Questions[e.currentIndex], true
}

// Next advances to the following question. Advancing past the last question
// enters review instead.
func (e *Engine) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.submitted {
		return
	}
	if e.currentIndex >= len(e.test.Questions)-1 {
		e.showReview = true
		return
	}
	e.currentIndex++
}

// Previous moves back one question, never below the first.
func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.submitted {
		return
	}
	e.showReview = false
	if e.currentIndex > 0 {
		e.currentIndex--
	}
}

// GoToQuestion jumps to a question by index, clamped to range, and leaves
// review mode.
func (e *Engine) GoToQuestion(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.submitted {
		return
	}
	if index < 0 {
		index = 0
	}
	if max := len(e.test.Questions) - 1; index > max {
		index = max
	}
	e.currentIndex = index
	e.showReview = false
}

// EnterReview switches to the review summary without submitting.
func (e *Engine) EnterReview() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started && !e.submitted {
		e.showReview = true
	}
}

// ─── Countdown ───────────────────────────────────────────────────────────────

// TimeRemaining returns the remaining seconds. Untimed tests report 0 and
// never force submission.
func (e *Engine) TimeRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Timed reports whether the countdown is armed.
func (e *Engine) Timed() bool {
	return e.test.TimeMinutes > 0
}

// Tick advances the countdown by one second. When it reaches zero the
// attempt is submitted exactly once with whatever answers exist.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	if !e.started || e.submitted || e.test.TimeMinutes <= 0 {
		e.mu.Unlock()
		return
	}
	e.remaining--
	expired := e.remaining <= 0
	if expired {
		e.remaining = 0
	}
	e.mu.Unlock()

	if expired {
		e.log.Warn().Msg("time expired, forcing submission")
		e.Submit(ctx)
	}
}

// RunTimer drives Tick at one-second intervals until the attempt is
// submitted or ctx is cancelled. Untimed attempts return immediately.
func (e *Engine) RunTimer(ctx context.Context) {
	if !e.Timed() {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
			if e.State() == StateSubmitted {
				return
			}
		}
	}
}

// ─── Submission ──────────────────────────────────────────────────────────────

// Submit finalizes the attempt. The local set-equality score is computed
// first; a successful server round-trip overrides it, a failed one keeps it
// and surfaces a non-fatal warning. Submitting twice returns the stored
// result without re-sending.
func (e *Engine) Submit(ctx context.Context) (model.TestResult, error) {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return model.TestResult{}, ErrNotStarted
	}
	if e.submitted {
		result := e.result
		e.mu.Unlock()
		return result, nil
	}

	local := Score(e.test, e.snapshotAnswers())
	submission := e.buildSubmission()

	// Mark submitted before the network call so concurrent ticks and a
	// second Submit cannot re-enter.
	e.submitted = true
	e.showReview = true
	e.result = local
	e.resultLocal = true
	e.mu.Unlock()

	if e.submitter != nil {
		server, err := e.submitter.Submit(ctx, submission)
		if err == nil {
			e.mu.Lock()
			e.result = server
			e.resultLocal = false
			result := e.result
			e.mu.Unlock()

			e.log.Info().Float64("score", server.Score).Bool("passed", server.IsPassed).Msg("attempt submitted")
			return result, nil
		}

		e.log.Warn().Err(err).Msg("submission not confirmed, keeping local score")
		if e.notifier != nil {
			e.notifier.Notify(notify.Notification{
				Title:       "Result not confirmed",
				Description: "Your answers were scored locally but could not be saved. Your score may not appear in reports.",
				Variant:     notify.VariantNeutral,
			})
		}
	}

	return local, nil
}

// Result returns the attempt outcome once submitted. localOnly is true when
// the server never confirmed the submission.
func (e *Engine) Result() (result model.TestResult, localOnly, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.resultLocal, e.submitted
}

// Retry resets the engine to a fresh, unstarted attempt of the same test.
func (e *Engine) Retry() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.started = false
	e.submitted = false
	e.showReview = false
	e.currentIndex = 0
	e.remaining = 0
	e.startedAt = time.Time{}
	e.answers = make(map[string]map[string]struct{})
	e.result = model.TestResult{}
	e.resultLocal = false
}

// ─── Internals ───────────────────────────────────────────────────────────────

// buildSubmission collects answered questions in test order. Callers must
// hold e.mu.
func (e *Engine) buildSubmission() model.TestSubmission {
	answers := make([]model.AnswerSubmission, 0, len(e.answers))
	for _, q := range e.test.Questions {
		set := e.answers[q.ID]
		if len(set) == 0 {
			continue
		}
		answers = append(answers, model.AnswerSubmission{
			QuestionID:      q.ID,
			SelectedOptions: lettersOf(set),
		})
	}
	return model.TestSubmission{
		TestID:    e.test.ID,
		Answers:   answers,
		StartedAt: e.startedAt,
	}
}

// snapshotAnswers copies the selection sets into plain slices for scoring.
// Callers must hold e.mu.
func (e *Engine) snapshotAnswers() map[string][]string {
	out := make(map[string][]string, len(e.answers))
	for id, set := range e.answers {
		if len(set) > 0 {
			out[id] = lettersOf(set)
		}
	}
	return out
}

func (e *Engine) question(id string) (model.Question, bool) {
	for _, q := range e.test.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// validLetter checks that the letter addresses an existing option slot.
func validLetter(letter string, optionCount int) bool {
	if len(letter) != 1 {
		return false
	}
	idx := int(letter[0] - 'a')
	return idx >= 0 && idx < optionCount
}

func lettersOf(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	letters := make([]string, 0, len(set))
	for l := range set {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}
