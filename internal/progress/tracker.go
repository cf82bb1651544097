package progress

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
	"github.com/hmhbrian/qldt-go/internal/store"
)

// Debounce windows per consumption kind. Page flips are cheap and frequent;
// video time updates arrive every second from a player, so they get a wider
// window.
const (
	pageDebounce  = 1000 * time.Millisecond
	videoDebounce = 5000 * time.Millisecond

	// videoMinDelta is the smallest position change worth reporting.
	videoMinDelta = 1
)

// Updater is the slice of ProgressService the tracker needs.
type Updater interface {
	Update(ctx context.Context, req dto.UpdateLessonProgressRequest) error
	Refresh(ctx context.Context) ([]model.LessonProgress, error)
	Cache() *store.Collection[model.LessonProgress]
}

// Tracker debounces lesson position reports. Positions are patched into the
// progress cache immediately so the UI updates without waiting, then synced
// after the debounce window; a failed sync rolls the cache back, and every
// sync settles the cache against server truth with a refetch.
type Tracker struct {
	svc      Updater
	debounce *Debouncer
	notifier notify.Sink
	log      zerolog.Logger

	pageDelay  time.Duration
	videoDelay time.Duration

	mu           sync.Mutex
	activeLesson string
	lastSentPage map[string]int
	lastSentTime map[string]int
	rollbacks    map[string]func()
}

// NewTracker creates a tracker backed by the given progress service.
func NewTracker(svc Updater, notifier notify.Sink, log zerolog.Logger) *Tracker {
	return &Tracker{
		svc:          svc,
		debounce:     NewDebouncer(),
		notifier:     notifier,
		log:          log.With().Str("component", "progress_tracker").Logger(),
		pageDelay:    pageDebounce,
		videoDelay:   videoDebounce,
		lastSentPage: make(map[string]int),
		lastSentTime: make(map[string]int),
		rollbacks:    make(map[string]func()),
	}
}

// SetActiveLesson switches the lesson in view. Pending reports for the
// previous lesson are flushed so nothing buffered is lost, and the dedupe
// state for the new lesson is reset so its first report always goes out.
func (t *Tracker) SetActiveLesson(lessonID string) {
	t.mu.Lock()
	previous := t.activeLesson
	t.activeLesson = lessonID
	delete(t.lastSentPage, lessonID)
	delete(t.lastSentTime, lessonID)
	t.mu.Unlock()

	if previous != "" && previous != lessonID {
		t.debounce.Flush(pageKey(previous))
		t.debounce.Flush(videoKey(previous))
	}
}

// RecordPage reports that the learner is on the given page of a document
// lesson. Repeating the last synced page is dropped.
func (t *Tracker) RecordPage(ctx context.Context, lessonID string, page int) {
	t.mu.Lock()
	if last, ok := t.lastSentPage[lessonID]; ok && last == page {
		t.mu.Unlock()
		return
	}
	t.beginOptimisticLocked(pageKey(lessonID))
	t.mu.Unlock()

	t.svc.Cache().Patch(lessonID, func(p *model.LessonProgress) { p.CurrentPage = page })

	t.debounce.Schedule(pageKey(lessonID), t.pageDelay, func() {
		req := dto.UpdateLessonProgressRequest{LessonID: lessonID, CurrentPage: &page}
		t.send(ctx, pageKey(lessonID), req, func() {
			t.mu.Lock()
			t.lastSentPage[lessonID] = page
			t.mu.Unlock()
		})
	})
}

// RecordVideoTime reports the playback position of a video lesson. Zero and
// negative positions are dropped, as are moves of one second or less from
// the last synced position; normal playback only syncs on the debounce
// window, seeks sync because they jump further.
func (t *Tracker) RecordVideoTime(ctx context.Context, lessonID string, seconds int) {
	if seconds <= 0 {
		return
	}

	t.mu.Lock()
	if last, ok := t.lastSentTime[lessonID]; ok && abs(seconds-last) <= videoMinDelta {
		t.mu.Unlock()
		return
	}
	t.beginOptimisticLocked(videoKey(lessonID))
	t.mu.Unlock()

	t.svc.Cache().Patch(lessonID, func(p *model.LessonProgress) { p.CurrentTimeSecond = seconds })

	t.debounce.Schedule(videoKey(lessonID), t.videoDelay, func() {
		req := dto.UpdateLessonProgressRequest{LessonID: lessonID, CurrentTimeSecond: &seconds}
		t.send(ctx, videoKey(lessonID), req, func() {
			t.mu.Lock()
			t.lastSentTime[lessonID] = seconds
			t.mu.Unlock()
		})
	})
}

// Flush pushes every buffered report out immediately. Call on shutdown.
func (t *Tracker) Flush() {
	t.debounce.FlushAll()
}

// beginOptimisticLocked snapshots the cache before the first unsynced patch
// for a debounce key. Page and video snapshots are independent so a failed
// sync of one source never reverts the other's patches. Callers must hold
// t.mu.
func (t *Tracker) beginOptimisticLocked(key string) {
	if _, ok := t.rollbacks[key]; !ok {
		t.rollbacks[key] = t.svc.Cache().BeginOptimistic()
	}
}

// send performs the actual server write, then settles the cache against
// server truth with a refetch in both outcomes; failure additionally reverts
// the optimistic patches and surfaces a warning.
func (t *Tracker) send(ctx context.Context, key string, req dto.UpdateLessonProgressRequest, markSent func()) {
	err := t.svc.Update(ctx, req)

	t.mu.Lock()
	rollback := t.rollbacks[key]
	delete(t.rollbacks, key)
	t.mu.Unlock()

	if err != nil {
		if rollback != nil {
			rollback()
		}
		t.log.Warn().Err(err).Str("lesson_id", req.LessonID).Msg("progress sync failed")
		t.notifier.Notify(notify.FromError("Could not save progress", err))
	} else {
		markSent()
	}

	if _, err := t.svc.Refresh(ctx); err != nil {
		t.log.Warn().Err(err).Msg("progress refetch after sync failed")
	}
}

func pageKey(lessonID string) string  { return lessonID + ":page" }
func videoKey(lessonID string) string { return lessonID + ":video" }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
