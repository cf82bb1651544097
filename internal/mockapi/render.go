package mockapi

import (
	"time"

	"github.com/hmhbrian/qldt-go/internal/dto"
)

// Wire rendering. The mock server speaks the production backend's JSON
// shapes, dynamic-shape fields included, so the client's decoding paths are
// exercised for real.

func (s *Store) renderCourse(c *courseRecord, viewerID string) dto.Course {
	enrolled := s.EnrolledCount(c.ID)
	lessons := len(s.LessonsByCourse(c.ID))
	tests := len(s.TestsByCourse(c.ID))
	isEnrolled := s.IsEnrolled(viewerID, c.ID)

	deps := make(dto.NameRefList, 0, len(c.DepartmentIDs))
	for _, id := range c.DepartmentIDs {
		if d, ok := s.DepartmentByID(id); ok {
			deps = append(deps, dto.NameRef{ID: d.ID, Name: d.Name})
		}
	}

	return dto.Course{
		ID:            c.ID,
		Name:          c.Name,
		CourseCode:    c.Code,
		Description:   c.Description,
		Status:        dto.NameRef{Name: c.Status},
		Department:    deps,
		Image:         c.Image,
		EnrolledCount: &enrolled,
		LessonCount:   &lessons,
		TestCount:     &tests,
		IsEnrolled:    &isEnrolled,
		CreatedBy:     dto.NameRef{ID: c.CreatedByID, Name: c.CreatedByName},
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		ModifiedAt:    c.ModifiedAt.Format(time.RFC3339),
	}
}

func (s *Store) renderCourses(records []*courseRecord, viewerID string) []dto.Course {
	out := make([]dto.Course, 0, len(records))
	for _, c := range records {
		out = append(out, s.renderCourse(c, viewerID))
	}
	return out
}

func renderLesson(l *lessonRecord) dto.Lesson {
	duration, pages, order := l.Duration, l.TotalPages, l.Order
	return dto.Lesson{
		ID:         l.ID,
		CourseID:   l.CourseID,
		Title:      l.Title,
		FileType:   l.FileType,
		FileURL:    l.FileURL,
		Duration:   &duration,
		TotalPages: &pages,
		Order:      &order,
	}
}

func renderLessons(records []*lessonRecord) []dto.Lesson {
	out := make([]dto.Lesson, 0, len(records))
	for _, l := range records {
		out = append(out, renderLesson(l))
	}
	return out
}

func renderQuestion(q questionRecord, pos int) dto.Question {
	return dto.Question{
		ID:            q.ID,
		QuestionText:  q.QuestionText,
		QuestionType:  q.QuestionType,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		Position:      &pos,
	}
}

func renderTest(t *testRecord) dto.Test {
	threshold, minutes := t.PassThreshold, t.TimeTest
	questions := make([]dto.Question, 0, len(t.Questions))
	for i, q := range t.Questions {
		questions = append(questions, renderQuestion(q, i))
	}
	return dto.Test{
		ID:            t.ID,
		CourseID:      t.CourseID,
		Title:         t.Title,
		PassThreshold: &threshold,
		TimeTest:      &minutes,
		Questions:     questions,
		CreatedBy:     dto.NameRef{ID: t.CreatedByID, Name: t.CreatedByName},
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func renderTests(records []*testRecord) []dto.Test {
	out := make([]dto.Test, 0, len(records))
	for _, t := range records {
		out = append(out, renderTest(t))
	}
	return out
}

func (s *Store) renderUser(u *userRecord) dto.User {
	deps := make(dto.NameRefList, 0, len(u.DepartmentIDs))
	for _, id := range u.DepartmentIDs {
		if d, ok := s.DepartmentByID(id); ok {
			deps = append(deps, dto.NameRef{ID: d.ID, Name: d.Name})
		}
	}

	return dto.User{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       dto.NameRef{Name: u.Role},
		Status:     dto.NameRef{Name: u.Status},
		Department: deps,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Store) renderUsers(records []*userRecord) []dto.User {
	out := make([]dto.User, 0, len(records))
	for _, u := range records {
		out = append(out, s.renderUser(u))
	}
	return out
}

func renderDepartment(d *departmentRecord) dto.DepartmentDTO {
	return dto.DepartmentDTO{ID: d.ID, Name: d.Name, ParentID: d.ParentID}
}

func renderProgress(p *progressRecord) dto.LessonProgressDTO {
	page, second, pct := p.CurrentPage, p.CurrentTimeSecond, p.Completion
	return dto.LessonProgressDTO{
		LessonID:          p.LessonID,
		CurrentPage:       &page,
		CurrentTimeSecond: &second,
		Completion:        &pct,
	}
}
