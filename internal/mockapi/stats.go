package mockapi

import (
	"sort"

	"github.com/hmhbrian/qldt-go/internal/dto"
)

// Report aggregates. These walk the whole dataset on every call; the mock
// dataset is small enough that precomputation is not worth the bookkeeping.

// userCourseCompletion averages a user's completion over the course's
// lessons. Lessons without a progress record count as zero.
func (s *Store) userCourseCompletion(userID, courseID string) float64 {
	lessons := s.LessonsByCourse(courseID)
	if len(lessons) == 0 {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	for _, l := range lessons {
		if p, ok := s.progress[userID][l.ID]; ok {
			sum += p.Completion
		}
	}
	return sum / float64(len(lessons))
}

// CourseStats builds one report row per course.
func (s *Store) CourseStats() []dto.CourseReport {
	courses := s.Courses()
	out := make([]dto.CourseReport, 0, len(courses))

	for _, c := range courses {
		var enrolledIDs []string
		s.mu.RLock()
		for userID, enrolled := range s.enrollments {
			if _, ok := enrolled[c.ID]; ok {
				enrolledIDs = append(enrolledIDs, userID)
			}
		}
		var scoreSum float64
		scoreN := 0
		for _, sub := range s.submissions {
			if t, ok := s.tests[sub.TestID]; ok && t.CourseID == c.ID {
				scoreSum += sub.Score
				scoreN++
			}
		}
		s.mu.RUnlock()

		completed := 0
		var progressSum float64
		for _, userID := range enrolledIDs {
			pct := s.userCourseCompletion(userID, c.ID)
			progressSum += pct
			if pct >= 100 {
				completed++
			}
		}

		enrolled := len(enrolledIDs)
		var avgScore, avgProgress float64
		if scoreN > 0 {
			avgScore = scoreSum / float64(scoreN)
		}
		if enrolled > 0 {
			avgProgress = progressSum / float64(enrolled)
		}

		out = append(out, dto.CourseReport{
			CourseID:        c.ID,
			CourseName:      c.Name,
			EnrolledCount:   &enrolled,
			CompletedCount:  &completed,
			AverageScore:    &avgScore,
			AverageProgress: &avgProgress,
		})
	}
	return out
}

// DepartmentStats builds one report row per department.
func (s *Store) DepartmentStats() []dto.DepartmentReport {
	departments := s.Departments()
	out := make([]dto.DepartmentReport, 0, len(departments))

	for _, d := range departments {
		var memberIDs []string
		s.mu.RLock()
		for _, u := range s.users {
			for _, dep := range u.DepartmentIDs {
				if dep == d.ID {
					memberIDs = append(memberIDs, u.ID)
					break
				}
			}
		}
		s.mu.RUnlock()

		enrolled := 0
		completed := 0
		for _, userID := range memberIDs {
			s.mu.RLock()
			courseIDs := make([]string, 0, len(s.enrollments[userID]))
			for courseID := range s.enrollments[userID] {
				courseIDs = append(courseIDs, courseID)
			}
			s.mu.RUnlock()

			enrolled += len(courseIDs)
			for _, courseID := range courseIDs {
				if s.userCourseCompletion(userID, courseID) >= 100 {
					completed++
				}
			}
		}

		learners := len(memberIDs)
		var rate float64
		if enrolled > 0 {
			rate = float64(completed) / float64(enrolled) * 100
		}

		out = append(out, dto.DepartmentReport{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			LearnerCount:   &learners,
			EnrolledCount:  &enrolled,
			CompletionRate: &rate,
		})
	}
	return out
}

// FeedbackStats groups feedback ratings by course.
func (s *Store) FeedbackStats() []dto.FeedbackReport {
	type agg struct {
		sum float64
		n   int
	}

	s.mu.RLock()
	byCourse := make(map[string]*agg)
	for _, f := range s.feedback {
		a := byCourse[f.CourseID]
		if a == nil {
			a = &agg{}
			byCourse[f.CourseID] = a
		}
		a.sum += f.Rating
		a.n++
	}
	s.mu.RUnlock()

	ids := make([]string, 0, len(byCourse))
	for id := range byCourse {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]dto.FeedbackReport, 0, len(ids))
	for _, id := range ids {
		c, ok := s.CourseByID(id)
		if !ok {
			continue
		}
		a := byCourse[id]
		count := a.n
		avg := a.sum / float64(a.n)
		out = append(out, dto.FeedbackReport{
			CourseID:      id,
			CourseName:    c.Name,
			FeedbackCount: &count,
			AverageRating: &avg,
		})
	}
	return out
}
