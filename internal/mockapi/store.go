// Package mockapi is the in-process LMS backend used when USE_MOCK_API is
// enabled. It serves the same wire contract as the production backend so
// the client stack can be exercised end to end without network access.
package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hmhbrian/qldt-go/internal/dto"
)

// ─── Records ─────────────────────────────────────────────────────────────────

type userRecord struct {
	ID            string
	FullName      string
	Email         string
	PasswordHash  string
	Role          string // ADMIN | MANAGER | LEARNER
	Status        string // ACTIVE | INACTIVE | DELETED
	DepartmentIDs []string
	CreatedAt     time.Time
}

type departmentRecord struct {
	ID       string
	Name     string
	ParentID string
}

type courseRecord struct {
	ID            string
	Name          string
	Code          string
	Description   string
	Status        string // DRAFT | PUBLISHED | ARCHIVED
	Image         string
	DepartmentIDs []string
	CreatedByID   string
	CreatedByName string
	CreatedAt     time.Time
	ModifiedAt    time.Time
}

type lessonRecord struct {
	ID         string
	CourseID   string
	Title      string
	FileType   string // video | pdf | link | text
	FileURL    string
	Duration   int // seconds, video only
	TotalPages int // pdf only
	Order      int
}

type questionRecord struct {
	ID string
	dto.QuestionPayload
}

type testRecord struct {
	ID            string
	CourseID      string
	Title         string
	PassThreshold float64
	TimeTest      int
	Questions     []questionRecord
	CreatedByID   string
	CreatedByName string
	CreatedAt     time.Time
}

type progressRecord struct {
	UserID            string
	LessonID          string
	CurrentPage       int
	CurrentTimeSecond int
	Completion        float64
}

type submissionRecord struct {
	UserID      string
	TestID      string
	Score       float64
	Passed      bool
	SubmittedAt time.Time
}

type feedbackRecord struct {
	CourseID string
	Rating   float64
}

// Store is the in-memory dataset behind the mock API. All access goes
// through methods holding the mutex; handlers never touch the maps.
type Store struct {
	mu sync.RWMutex

	users       map[string]*userRecord
	departments map[string]*departmentRecord
	courses     map[string]*courseRecord
	lessons     map[string]*lessonRecord
	tests       map[string]*testRecord
	// enrollments maps user ID to the set of enrolled course IDs.
	enrollments map[string]map[string]time.Time
	// progress maps user ID to lesson ID to the stored position.
	progress    map[string]map[string]*progressRecord
	submissions []submissionRecord
	feedback    []feedbackRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*userRecord),
		departments: make(map[string]*departmentRecord),
		courses:     make(map[string]*courseRecord),
		lessons:     make(map[string]*lessonRecord),
		tests:       make(map[string]*testRecord),
		enrollments: make(map[string]map[string]time.Time),
		progress:    make(map[string]map[string]*progressRecord),
	}
}

func newID() string { return uuid.New().String() }

// ─── Users ───────────────────────────────────────────────────────────────────

func (s *Store) UserByEmail(email string) (*userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.Status != "DELETED" {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) UserByID(id string) (*userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) Users() []*userRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*userRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (s *Store) SearchUsers(query string) []*userRecord {
	q := strings.ToLower(query)
	var out []*userRecord
	for _, u := range s.Users() {
		if strings.Contains(strings.ToLower(u.FullName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) AddUser(u *userRecord) *userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Status == "" {
		u.Status = "ACTIVE"
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u
}

func (s *Store) UpdateUser(id string, fn func(*userRecord)) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	fn(u)
	return u, true
}

func (s *Store) EmailTaken(email, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// ─── Departments ─────────────────────────────────────────────────────────────

func (s *Store) Departments() []*departmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*departmentRecord, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) DepartmentByID(id string) (*departmentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[id]
	return d, ok
}

func (s *Store) AddDepartment(d *departmentRecord) *departmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = newID()
	}
	s.departments[d.ID] = d
	return d
}

func (s *Store) UpdateDepartment(id string, fn func(*departmentRecord)) (*departmentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, false
	}
	fn(d)
	return d, true
}

// DeleteDepartment refuses to remove a department still referenced by a
// course or user.
func (s *Store) DeleteDepartment(id string) (deleted, inUse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return false, false
	}
	for _, c := range s.courses {
		for _, dep := range c.DepartmentIDs {
			if dep == id {
				return false, true
			}
		}
	}
	for _, u := range s.users {
		for _, dep := range u.DepartmentIDs {
			if dep == id {
				return false, true
			}
		}
	}
	delete(s.departments, id)
	return true, false
}

// ─── Courses ─────────────────────────────────────────────────────────────────

func (s *Store) Courses() []*courseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*courseRecord, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) CourseByID(id string) (*courseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	return c, ok
}

func (s *Store) AddCourse(c *courseRecord) *courseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = "DRAFT"
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.ModifiedAt = now
	s.courses[c.ID] = c
	return c
}

func (s *Store) UpdateCourse(id string, fn func(*courseRecord)) (*courseRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, false
	}
	fn(c)
	c.ModifiedAt = time.Now().UTC()
	return c, true
}

// DeleteCourse removes a course and everything hanging off it.
func (s *Store) DeleteCourse(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return false
	}
	delete(s.courses, id)
	for lid, l := range s.lessons {
		if l.CourseID == id {
			delete(s.lessons, lid)
		}
	}
	for tid, t := range s.tests {
		if t.CourseID == id {
			delete(s.tests, tid)
		}
	}
	for _, enrolled := range s.enrollments {
		delete(enrolled, id)
	}
	return true
}

// ─── Enrollment ──────────────────────────────────────────────────────────────

func (s *Store) IsEnrolled(userID, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollments[userID][courseID]
	return ok
}

// Enroll records an enrollment. It reports whether the user was already
// enrolled.
func (s *Store) Enroll(userID, courseID string) (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enrollments[userID] == nil {
		s.enrollments[userID] = make(map[string]time.Time)
	}
	if _, ok := s.enrollments[userID][courseID]; ok {
		return true
	}
	s.enrollments[userID][courseID] = time.Now().UTC()
	return false
}

func (s *Store) EnrolledCourses(userID string) []*courseRecord {
	s.mu.RLock()
	ids := make([]string, 0, len(s.enrollments[userID]))
	for id := range s.enrollments[userID] {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	var out []*courseRecord
	for _, id := range ids {
		if c, ok := s.CourseByID(id); ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) EnrolledCount(courseID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, enrolled := range s.enrollments {
		if _, ok := enrolled[courseID]; ok {
			n++
		}
	}
	return n
}

// ─── Lessons ─────────────────────────────────────────────────────────────────

func (s *Store) LessonsByCourse(courseID string) []*lessonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*lessonRecord
	for _, l := range s.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *Store) LessonByID(id string) (*lessonRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[id]
	return l, ok
}

func (s *Store) AddLesson(l *lessonRecord) *lessonRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = newID()
	}
	s.lessons[l.ID] = l
	return l
}

func (s *Store) UpdateLesson(id string, fn func(*lessonRecord)) (*lessonRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, false
	}
	fn(l)
	return l, true
}

func (s *Store) DeleteLesson(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[id]; !ok {
		return false
	}
	delete(s.lessons, id)
	for _, byLesson := range s.progress {
		delete(byLesson, id)
	}
	return true
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func (s *Store) TestsByCourse(courseID string) []*testRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*testRecord
	for _, t := range s.tests {
		if t.CourseID == courseID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) TestByID(id string) (*testRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tests[id]
	return t, ok
}

func (s *Store) AddTest(t *testRecord) *testRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	for i := range t.Questions {
		if t.Questions[i].ID == "" {
			t.Questions[i].ID = newID()
		}
	}
	t.CreatedAt = time.Now().UTC()
	s.tests[t.ID] = t
	return t
}

func (s *Store) UpdateTest(id string, fn func(*testRecord)) (*testRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[id]
	if !ok {
		return nil, false
	}
	fn(t)
	for i := range t.Questions {
		if t.Questions[i].ID == "" {
			t.Questions[i].ID = newID()
		}
	}
	return t, true
}

func (s *Store) DeleteTest(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[id]; !ok {
		return false
	}
	delete(s.tests, id)
	return true
}

func (s *Store) AddSubmission(rec submissionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, rec)
}

// ─── Progress ────────────────────────────────────────────────────────────────

func (s *Store) ProgressFor(userID string) []*progressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*progressRecord, 0, len(s.progress[userID]))
	for _, p := range s.progress[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out
}

// UpsertProgress merges the given position into the stored record and
// recomputes the completion percentage from the lesson's extent.
func (s *Store) UpsertProgress(userID, lessonID string, page, timeSecond *int) (*progressRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, ok := s.lessons[lessonID]
	if !ok {
		return nil, false
	}

	if s.progress[userID] == nil {
		s.progress[userID] = make(map[string]*progressRecord)
	}
	p := s.progress[userID][lessonID]
	if p == nil {
		p = &progressRecord{UserID: userID, LessonID: lessonID}
		s.progress[userID][lessonID] = p
	}

	if page != nil {
		p.CurrentPage = *page
	}
	if timeSecond != nil {
		p.CurrentTimeSecond = *timeSecond
	}
	p.Completion = completionOf(lesson, p)
	return p, true
}

// completionOf derives a completion percentage from the stored position and
// the lesson's extent. Link and text lessons complete on first touch.
func completionOf(l *lessonRecord, p *progressRecord) float64 {
	var pct float64
	switch l.FileType {
	case "pdf":
		if l.TotalPages > 0 {
			pct = float64(p.CurrentPage) / float64(l.TotalPages) * 100
		}
	case "video":
		if l.Duration > 0 {
			pct = float64(p.CurrentTimeSecond) / float64(l.Duration) * 100
		}
	default:
		pct = 100
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ─── Reports ─────────────────────────────────────────────────────────────────

func (s *Store) AddFeedback(courseID string, rating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, feedbackRecord{CourseID: courseID, Rating: rating})
}
