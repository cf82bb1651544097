package attempt

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

func sampleTest() model.Test {
	return model.Test{
		ID:            "test-1",
		CourseID:      "course-1",
		Title:         "Safety basics",
		PassThreshold: 50,
		TimeMinutes:   1,
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionTypeSingleChoice, Options: []string{"x", "y", "z"}, CorrectOptions: []string{"a"}},
			{ID: "q2", Type: model.QuestionTypeMultipleChoice, Options: []string{"x", "y", "z", "w"}, CorrectOptions: []string{"a", "c"}},
			{ID: "q3", Type: model.QuestionTypeSelectAll, Options: []string{"x", "y"}, CorrectOptions: []string{"a", "b"}},
		},
	}
}

type fakeSubmitter struct {
	calls  int
	last   model.TestSubmission
	result model.TestResult
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, s model.TestSubmission) (model.TestResult, error) {
	f.calls++
	f.last = s
	return f.result, f.err
}

func newTestEngine(t model.Test, sub Submitter) *Engine {
	return NewEngine(t, sub, notify.SinkFunc(func(notify.Notification) {}), zerolog.Nop())
}

func mustStart(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

func TestStartWithoutQuestions(t *testing.T) {
	empty := sampleTest()
	empty.Questions = nil

	e := newTestEngine(empty, nil)
	if err := e.Start(); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if got := e.State(); got != StateNotStarted {
		t.Fatalf("state = %s, want not_started", got)
	}
}

func TestStartArmsCountdown(t *testing.T) {
	e := newTestEngine(sampleTest(), nil)
	mustStart(t, e)

	if got := e.State(); got != StateInProgress {
		t.Fatalf("state = %s, want in_progress", got)
	}
	if got := e.TimeRemaining(); got != 60 {
		t.Fatalf("TimeRemaining = %d, want 60", got)
	}
}

func TestNavigationClampsAndReview(t *testing.T) {
	e := newTestEngine(sampleTest(), nil)
	mustStart(t, e)

	e.Previous()
	if got := e.CurrentIndex(); got != 0 {
		t.Fatalf("Previous at first question moved to %d", got)
	}

	e.GoToQuestion(99)
	if got := e.CurrentIndex(); got != 2 {
		t.Fatalf("GoToQuestion(99) = index %d, want 2", got)
	}

	// Next past the last question enters review instead of advancing.
	e.Next()
	if got := e.State(); got != StateReview {
		t.Fatalf("state after Next on last question = %s, want review", got)
	}

	// Jumping back to a question leaves review.
	e.GoToQuestion(1)
	if got := e.State(); got != StateInProgress {
		t.Fatalf("state after GoToQuestion = %s, want in_progress", got)
	}
	if got := e.CurrentIndex(); got != 1 {
		t.Fatalf("CurrentIndex = %d, want 1", got)
	}
}

// ─── Selection semantics ─────────────────────────────────────────────────────

func TestSingleChoiceReplaces(t *testing.T) {
	e := newTestEngine(sampleTest(), nil)
	mustStart(t, e)

	if err := e.SelectAnswer("q1", "a"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := e.SelectAnswer("q1", "b"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}

	got := e.Answers("q1")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("Answers(q1) = %v, want [b]", got)
	}
}

func TestMultipleChoiceToggles(t *testing.T) {
	e := newTestEngine(sampleTest(), nil)
	mustStart(t, e)

	e.SelectAnswer("q2", "a")
	e.SelectAnswer("q2", "c")
	if got := e.Answers("q2"); len(got) != 2 {
		t.Fatalf("Answers(q2) = %v, want two letters", got)
	}

	// Selecting again deselects.
	e.SelectAnswer("q2", "a")
	got := e.Answers("q2")
	if len(got) != 1 || got[0] != "c" {
		t.Fatalf("Answers(q2) after toggle = %v, want [c]", got)
	}
}

func TestSelectAnswerValidation(t *testing.T) {
	e := newTestEngine(sampleTest(), nil)

	if err := e.SelectAnswer("q1", "a"); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("select before start: %v, want ErrNotStarted", err)
	}

	mustStart(t, e)
	if err := e.SelectAnswer("missing", "a"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("unknown question: %v", err)
	}
	// q3 has two options; "c" addresses a slot that does not exist.
	if err := e.SelectAnswer("q3", "c"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("out-of-range letter: %v", err)
	}
}

func TestSelectAnswerIgnoredAfterSubmit(t *testing.T) {
	sub := &fakeSubmitter{result: model.TestResult{Score: 10}}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)
	e.SelectAnswer("q1", "a")

	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := e.SelectAnswer("q1", "b"); err != nil {
		t.Fatalf("select after submit should be a silent no-op, got %v", err)
	}
	if got := e.Answers("q1"); len(got) != 1 || got[0] != "a" {
		t.Fatalf("answers changed after submit: %v", got)
	}
}

// ─── Scoring ─────────────────────────────────────────────────────────────────

func TestScoreSetEquality(t *testing.T) {
	tt := sampleTest()

	cases := []struct {
		name    string
		answers map[string][]string
		correct int
		passed  bool
	}{
		{"all correct", map[string][]string{"q1": {"a"}, "q2": {"c", "a"}, "q3": {"a", "b"}}, 3, true},
		{"partial multi is wrong", map[string][]string{"q1": {"a"}, "q2": {"a"}}, 1, false},
		{"superset is wrong", map[string][]string{"q2": {"a", "b", "c"}}, 0, false},
		{"unanswered is wrong", map[string][]string{}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Score(tt, tc.answers)
			if r.CorrectAnswers != tc.correct {
				t.Fatalf("CorrectAnswers = %d, want %d", r.CorrectAnswers, tc.correct)
			}
			if r.IsPassed != tc.passed {
				t.Fatalf("IsPassed = %v, want %v", r.IsPassed, tc.passed)
			}
			if r.TotalQuestions != 3 {
				t.Fatalf("TotalQuestions = %d", r.TotalQuestions)
			}
		})
	}
}

func TestScoreEmptyTest(t *testing.T) {
	r := Score(model.Test{PassThreshold: 50}, nil)
	if r.Score != 0 || r.IsPassed {
		t.Fatalf("empty test scored %+v, want zero and not passed", r)
	}
}

// ─── Submission ──────────────────────────────────────────────────────────────

func TestSubmitServerOverride(t *testing.T) {
	sub := &fakeSubmitter{result: model.TestResult{Score: 87.5, TotalQuestions: 3, CorrectAnswers: 2, IsPassed: true}}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)
	e.SelectAnswer("q1", "b") // locally wrong

	result, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 87.5 {
		t.Fatalf("server result not taken, score = %v", result.Score)
	}

	stored, localOnly, ok := e.Result()
	if !ok || localOnly {
		t.Fatalf("Result ok=%v localOnly=%v, want confirmed result", ok, localOnly)
	}
	if stored.Score != 87.5 {
		t.Fatalf("stored score = %v", stored.Score)
	}
}

func TestSubmitSendsOnlyAnsweredQuestions(t *testing.T) {
	sub := &fakeSubmitter{}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)
	e.SelectAnswer("q2", "c")
	e.SelectAnswer("q2", "a")

	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(sub.last.Answers) != 1 {
		t.Fatalf("submitted %d answers, want 1", len(sub.last.Answers))
	}
	a := sub.last.Answers[0]
	if a.QuestionID != "q2" || len(a.SelectedOptions) != 2 {
		t.Fatalf("unexpected answer payload %+v", a)
	}
	if sub.last.TestID != "test-1" {
		t.Fatalf("TestID = %s", sub.last.TestID)
	}
	if sub.last.StartedAt.IsZero() {
		t.Fatal("StartedAt not set")
	}
}

func TestSubmitFailureKeepsLocalScore(t *testing.T) {
	var warned bool
	sub := &fakeSubmitter{err: errors.New("connection refused")}
	e := NewEngine(sampleTest(), sub, notify.SinkFunc(func(n notify.Notification) {
		warned = true
	}), zerolog.Nop())
	mustStart(t, e)
	e.SelectAnswer("q1", "a")

	result, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("failed confirmation must be non-fatal, got %v", err)
	}
	if result.CorrectAnswers != 1 {
		t.Fatalf("local score lost: %+v", result)
	}
	if !warned {
		t.Fatal("no warning surfaced for unconfirmed result")
	}

	_, localOnly, ok := e.Result()
	if !ok || !localOnly {
		t.Fatalf("Result ok=%v localOnly=%v, want local-only result", ok, localOnly)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	sub := &fakeSubmitter{result: model.TestResult{Score: 33.3}}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)
	e.SelectAnswer("q1", "a")

	first, _ := e.Submit(context.Background())
	second, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if sub.calls != 1 {
		t.Fatalf("submitter called %d times, want 1", sub.calls)
	}
	if first != second {
		t.Fatalf("second submit changed result: %+v vs %+v", first, second)
	}
}

// ─── Countdown ───────────────────────────────────────────────────────────────

func TestTickCountsDownAndForcesSubmit(t *testing.T) {
	sub := &fakeSubmitter{result: model.TestResult{Score: 0, TotalQuestions: 3}}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)

	ctx := context.Background()
	for i := 0; i < 59; i++ {
		e.Tick(ctx)
	}
	if got := e.TimeRemaining(); got != 1 {
		t.Fatalf("TimeRemaining after 59 ticks = %d, want 1", got)
	}
	if sub.calls != 0 {
		t.Fatal("submitted before time expired")
	}

	e.Tick(ctx)
	if got := e.State(); got != StateSubmitted {
		t.Fatalf("state after expiry = %s, want submitted", got)
	}
	if sub.calls != 1 {
		t.Fatalf("forced submit called submitter %d times", sub.calls)
	}

	// Further ticks after submission change nothing.
	e.Tick(ctx)
	if sub.calls != 1 {
		t.Fatal("tick after submission re-submitted")
	}
}

func TestUntimedTestNeverForcesSubmit(t *testing.T) {
	tt := sampleTest()
	tt.TimeMinutes = 0
	sub := &fakeSubmitter{}
	e := newTestEngine(tt, sub)
	mustStart(t, e)

	for i := 0; i < 100; i++ {
		e.Tick(context.Background())
	}
	if sub.calls != 0 {
		t.Fatal("untimed test was force-submitted")
	}
	if got := e.State(); got != StateInProgress {
		t.Fatalf("state = %s", got)
	}
}

// ─── Retry ───────────────────────────────────────────────────────────────────

func TestRetryResetsEverything(t *testing.T) {
	sub := &fakeSubmitter{result: model.TestResult{Score: 100, IsPassed: true}}
	e := newTestEngine(sampleTest(), sub)
	mustStart(t, e)
	e.SelectAnswer("q1", "a")
	e.Submit(context.Background())

	e.Retry()

	if got := e.State(); got != StateNotStarted {
		t.Fatalf("state after retry = %s", got)
	}
	if got := e.Answers("q1"); len(got) != 0 {
		t.Fatalf("answers survived retry: %v", got)
	}
	if _, _, ok := e.Result(); ok {
		t.Fatal("result survived retry")
	}

	// The engine is reusable for a fresh attempt.
	mustStart(t, e)
	if got := e.TimeRemaining(); got != 60 {
		t.Fatalf("countdown not re-armed: %d", got)
	}
}
