package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
	"github.com/hmhbrian/qldt-go/internal/store"
)

// ─── Debouncer ───────────────────────────────────────────────────────────────

func TestDebouncerLastWriteWins(t *testing.T) {
	d := NewDebouncer()

	var mu sync.Mutex
	var fired []int
	for i := 1; i <= 3; i++ {
		v := i
		d.Schedule("k", 20*time.Millisecond, func() {
			mu.Lock()
			fired = append(fired, v)
			mu.Unlock()
		})
	}

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != 3 {
		t.Fatalf("fired = %v, want only the last scheduled call", fired)
	}
}

func TestDebouncerCancelAndFlush(t *testing.T) {
	d := NewDebouncer()

	ran := false
	d.Schedule("a", time.Hour, func() { ran = true })
	d.Cancel("a")
	if d.Pending("a") {
		t.Fatal("call still pending after Cancel")
	}

	d.Schedule("b", time.Hour, func() { ran = true })
	d.Flush("b")
	if !ran {
		t.Fatal("Flush did not run the pending call")
	}
	if d.Pending("b") {
		t.Fatal("call still pending after Flush")
	}
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	d := NewDebouncer()

	var mu sync.Mutex
	got := map[string]bool{}
	d.Schedule("x", 10*time.Millisecond, func() { mu.Lock(); got["x"] = true; mu.Unlock() })
	d.Schedule("y", 10*time.Millisecond, func() { mu.Lock(); got["y"] = true; mu.Unlock() })

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if !got["x"] || !got["y"] {
		t.Fatalf("got = %v, want both keys fired", got)
	}
}

// ─── Tracker ─────────────────────────────────────────────────────────────────

type fakeUpdater struct {
	mu       sync.Mutex
	cache    *store.Collection[model.LessonProgress]
	updates  []dto.UpdateLessonProgressRequest
	err      error
	videoErr error
	refreshN int
}

func newFakeUpdater() *fakeUpdater {
	f := &fakeUpdater{
		cache: store.NewCollection(func(p model.LessonProgress) string { return p.LessonID }),
	}
	f.cache.Replace([]model.LessonProgress{
		{LessonID: "l1", CurrentPage: 1},
		{LessonID: "l2", CurrentTimeSecond: 0},
	})
	return f
}

func (f *fakeUpdater) Update(_ context.Context, req dto.UpdateLessonProgressRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.videoErr != nil && req.CurrentTimeSecond != nil {
		return f.videoErr
	}
	f.updates = append(f.updates, req)
	return nil
}

func (f *fakeUpdater) Refresh(context.Context) ([]model.LessonProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	return nil, nil
}

func (f *fakeUpdater) Cache() *store.Collection[model.LessonProgress] { return f.cache }

func (f *fakeUpdater) sent() []dto.UpdateLessonProgressRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.UpdateLessonProgressRequest(nil), f.updates...)
}

func newTestTracker(f *fakeUpdater) *Tracker {
	tr := NewTracker(f, notify.SinkFunc(func(notify.Notification) {}), zerolog.Nop())
	tr.pageDelay = 10 * time.Millisecond
	tr.videoDelay = 10 * time.Millisecond
	return tr
}

func TestRecordPageCoalesces(t *testing.T) {
	f := newFakeUpdater()
	tr := newTestTracker(f)
	ctx := context.Background()

	tr.RecordPage(ctx, "l1", 2)
	tr.RecordPage(ctx, "l1", 3)
	tr.RecordPage(ctx, "l1", 4)

	// The cache reflects the latest position immediately.
	if p, ok := f.cache.Get("l1"); !ok || p.CurrentPage != 4 {
		t.Fatalf("cache not patched optimistically: %+v", p)
	}

	time.Sleep(50 * time.Millisecond)
	sent := f.sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d updates, want 1 coalesced write", len(sent))
	}
	if sent[0].CurrentPage == nil || *sent[0].CurrentPage != 4 {
		t.Fatalf("sent %+v, want page 4", sent[0])
	}
}

func TestRecordPageDedupesLastSynced(t *testing.T) {
	f := newFakeUpdater()
	tr := newTestTracker(f)
	ctx := context.Background()

	tr.RecordPage(ctx, "l1", 2)
	tr.Flush()
	if got := len(f.sent()); got != 1 {
		t.Fatalf("sent %d, want 1", got)
	}

	// Same page again: nothing scheduled, nothing sent.
	tr.RecordPage(ctx, "l1", 2)
	tr.Flush()
	if got := len(f.sent()); got != 1 {
		t.Fatalf("duplicate page was re-sent (%d updates)", got)
	}

	tr.RecordPage(ctx, "l1", 3)
	tr.Flush()
	if got := len(f.sent()); got != 2 {
		t.Fatalf("page change not sent (%d updates)", got)
	}
}

func TestRecordVideoTimeDedupe(t *testing.T) {
	f := newFakeUpdater()
	tr := newTestTracker(f)
	ctx := context.Background()

	// Zero and negative positions never sync.
	tr.RecordVideoTime(ctx, "l2", 0)
	tr.RecordVideoTime(ctx, "l2", -5)
	tr.Flush()
	if got := len(f.sent()); got != 0 {
		t.Fatalf("non-positive positions were sent (%d updates)", got)
	}

	tr.RecordVideoTime(ctx, "l2", 30)
	tr.Flush()
	if got := len(f.sent()); got != 1 {
		t.Fatalf("sent %d, want 1", got)
	}

	// One second of ordinary playback is below the delta threshold.
	tr.RecordVideoTime(ctx, "l2", 31)
	tr.Flush()
	if got := len(f.sent()); got != 1 {
		t.Fatalf("sub-threshold move was sent (%d updates)", got)
	}

	// A seek jumps past the threshold in either direction.
	tr.RecordVideoTime(ctx, "l2", 10)
	tr.Flush()
	sent := f.sent()
	if len(sent) != 2 {
		t.Fatalf("seek not sent (%d updates)", len(sent))
	}
	if sent[1].CurrentTimeSecond == nil || *sent[1].CurrentTimeSecond != 10 {
		t.Fatalf("sent %+v, want time 10", sent[1])
	}
}

func TestSyncFailureRollsBackCache(t *testing.T) {
	f := newFakeUpdater()
	f.err = errors.New("boom")

	var warned bool
	tr := NewTracker(f, notify.SinkFunc(func(notify.Notification) { warned = true }), zerolog.Nop())
	tr.pageDelay = time.Hour

	tr.RecordPage(context.Background(), "l1", 9)
	if p, _ := f.cache.Get("l1"); p.CurrentPage != 9 {
		t.Fatalf("optimistic patch missing: %+v", p)
	}

	tr.Flush()

	if p, _ := f.cache.Get("l1"); p.CurrentPage != 1 {
		t.Fatalf("cache not rolled back after failed sync: %+v", p)
	}
	if !warned {
		t.Fatal("no warning surfaced for failed sync")
	}

	// The settle refetch happens even when the write failed, so the cache
	// reconciles with server truth instead of staying stale.
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshN != 1 {
		t.Fatalf("refreshed %d times after failed sync, want 1 settle refetch", f.refreshN)
	}
}

func TestFailedVideoSyncKeepsPagePatch(t *testing.T) {
	f := newFakeUpdater()
	f.videoErr = errors.New("boom")

	tr := newTestTracker(f)
	tr.pageDelay = time.Hour
	tr.videoDelay = time.Hour
	ctx := context.Background()

	tr.RecordPage(ctx, "l1", 5)
	tr.RecordVideoTime(ctx, "l1", 30)

	tr.Flush()

	// Only the failed source's optimistic patch is reverted; the page write
	// landed and keeps its position.
	p, _ := f.cache.Get("l1")
	if p.CurrentPage != 5 {
		t.Fatalf("page patch lost to the video rollback: %+v", p)
	}
	if p.CurrentTimeSecond != 0 {
		t.Fatalf("failed video patch survived: %+v", p)
	}

	sent := f.sent()
	if len(sent) != 1 || sent[0].CurrentPage == nil {
		t.Fatalf("sent = %+v, want the page write only", sent)
	}
}

func TestSyncSuccessSettlesWithRefetch(t *testing.T) {
	f := newFakeUpdater()
	tr := newTestTracker(f)

	tr.RecordPage(context.Background(), "l1", 5)
	tr.Flush()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshN != 1 {
		t.Fatalf("refreshed %d times, want 1 settle refetch", f.refreshN)
	}
}

func TestSetActiveLessonFlushesPreviousLesson(t *testing.T) {
	f := newFakeUpdater()
	tr := newTestTracker(f)
	tr.pageDelay = time.Hour

	tr.SetActiveLesson("l1")
	tr.RecordPage(context.Background(), "l1", 7)

	// Switching lessons must not drop the buffered report.
	tr.SetActiveLesson("l2")

	sent := f.sent()
	if len(sent) != 1 || sent[0].LessonID != "l1" {
		t.Fatalf("pending report lost on lesson switch: %v", sent)
	}

	// Dedupe state for the newly active lesson is reset, so re-reporting a
	// previously synced position goes out again.
	tr.SetActiveLesson("l1")
	tr.RecordPage(context.Background(), "l1", 7)
	tr.Flush()
	if got := len(f.sent()); got != 2 {
		t.Fatalf("reset lesson did not re-sync (%d updates)", got)
	}
}
