// Package mapper translates backend DTOs into canonical view models.
// All shape normalization happens here: dynamic-union resolution, field
// renaming, numeric default-filling and timestamp parsing. Downstream code
// only ever sees the canonical shapes in internal/model.
package mapper

import (
	"strings"
	"time"

	"github.com/jinzhu/copier"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/model"
)

// Course maps a course DTO to its view model.
func Course(in dto.Course) model.Course {
	var out model.Course
	_ = copier.Copy(&out, &in)

	out.Code = in.CourseCode
	out.Status = courseStatus(in.Status)
	out.Departments = Departments(in.Department)
	out.ImageURL = in.Image
	out.EnrolledCount = intOrZero(in.EnrolledCount)
	out.LessonCount = intOrZero(in.LessonCount)
	out.TestCount = intOrZero(in.TestCount)
	out.IsEnrolled = in.IsEnrolled != nil && *in.IsEnrolled
	out.CreatedBy = in.CreatedBy.Name
	out.CreatedAt = parseTime(in.CreatedAt)
	out.UpdatedAt = parseTime(in.ModifiedAt)
	return out
}

// Courses maps a slice of course DTOs, never returning nil.
func Courses(in []dto.Course) []model.Course {
	out := make([]model.Course, 0, len(in))
	for _, c := range in {
		out = append(out, Course(c))
	}
	return out
}

// Departments flattens a dynamic department field into the canonical list.
func Departments(in dto.NameRefList) []model.Department {
	out := make([]model.Department, 0, len(in))
	for _, ref := range in {
		out = append(out, model.Department{ID: ref.ID, Name: ref.Name})
	}
	return out
}

// Department maps a plain department DTO.
func Department(in dto.DepartmentDTO) model.Department {
	return model.Department{ID: in.ID, Name: in.Name, ParentID: in.ParentID}
}

// Lesson maps a lesson DTO to its view model.
func Lesson(in dto.Lesson) model.Lesson {
	return model.Lesson{
		ID:              in.ID,
		CourseID:        in.CourseID,
		Title:           in.Title,
		Type:            lessonType(in.FileType),
		URL:             in.FileURL,
		DurationSeconds: intOrZero(in.Duration),
		TotalPages:      intOrZero(in.TotalPages),
		Position:        intOrZero(in.Order),
	}
}

// Lessons maps a slice of lesson DTOs, never returning nil.
func Lessons(in []dto.Lesson) []model.Lesson {
	out := make([]model.Lesson, 0, len(in))
	for _, l := range in {
		out = append(out, Lesson(l))
	}
	return out
}

// LessonProgress maps a progress DTO, coalescing missing numerics to zero so
// the completion percentage never renders as NaN.
func LessonProgress(in dto.LessonProgressDTO) model.LessonProgress {
	return model.LessonProgress{
		LessonID:          in.LessonID,
		CurrentPage:       intOrZero(in.CurrentPage),
		CurrentTimeSecond: intOrZero(in.CurrentTimeSecond),
		CompletionPercent: floatOrZero(in.Completion),
	}
}

// LessonProgressList maps a slice of progress DTOs, never returning nil.
func LessonProgressList(in []dto.LessonProgressDTO) []model.LessonProgress {
	out := make([]model.LessonProgress, 0, len(in))
	for _, p := range in {
		out = append(out, LessonProgress(p))
	}
	return out
}

// Question maps a question DTO: lettered option fields are collected into an
// ordered option slice and the comma-joined correct letters are split.
func Question(in dto.Question) model.Question {
	options := []string{in.OptionA, in.OptionB}
	if in.OptionC != nil && *in.OptionC != "" {
		options = append(options, *in.OptionC)
	}
	if in.OptionD != nil && *in.OptionD != "" {
		options = append(options, *in.OptionD)
	}

	return model.Question{
		ID:             in.ID,
		Text:           in.QuestionText,
		Type:           questionType(in.QuestionType),
		Options:        options,
		CorrectOptions: SplitLetters(in.CorrectOption),
		Explanation:    in.Explanation,
		Position:       intOrZero(in.Position),
	}
}

// Test maps a test DTO including its ordered questions.
func Test(in dto.Test) model.Test {
	questions := make([]model.Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		questions = append(questions, Question(q))
	}

	return model.Test{
		ID:            in.ID,
		CourseID:      in.CourseID,
		Title:         in.Title,
		PassThreshold: floatOrZero(in.PassThreshold),
		TimeMinutes:   intOrZero(in.TimeTest),
		Questions:     questions,
		CreatedBy:     in.CreatedBy.Name,
		CreatedAt:     parseTime(in.CreatedAt),
	}
}

// Tests maps a slice of test DTOs, never returning nil.
func Tests(in []dto.Test) []model.Test {
	out := make([]model.Test, 0, len(in))
	for _, t := range in {
		out = append(out, Test(t))
	}
	return out
}

// User maps a user DTO to its view model.
func User(in dto.User) model.User {
	return model.User{
		ID:          in.ID,
		Name:        in.FullName,
		Email:       in.Email,
		Role:        userRole(in.Role),
		Status:      userStatus(in.Status),
		Departments: Departments(in.Department),
		CreatedAt:   parseTime(in.CreatedAt),
	}
}

// Users maps a slice of user DTOs, never returning nil.
func Users(in []dto.User) []model.User {
	out := make([]model.User, 0, len(in))
	for _, u := range in {
		out = append(out, User(u))
	}
	return out
}

// CourseReport maps one course statistics row.
func CourseReport(in dto.CourseReport) model.CourseReportRow {
	return model.CourseReportRow{
		CourseID:        in.CourseID,
		CourseName:      in.CourseName,
		EnrolledCount:   intOrZero(in.EnrolledCount),
		CompletedCount:  intOrZero(in.CompletedCount),
		AverageScore:    floatOrZero(in.AverageScore),
		AverageProgress: floatOrZero(in.AverageProgress),
	}
}

// DepartmentReport maps one department statistics row.
func DepartmentReport(in dto.DepartmentReport) model.DepartmentReportRow {
	return model.DepartmentReportRow{
		DepartmentID:   in.DepartmentID,
		DepartmentName: in.DepartmentName,
		LearnerCount:   intOrZero(in.LearnerCount),
		EnrolledCount:  intOrZero(in.EnrolledCount),
		CompletionRate: floatOrZero(in.CompletionRate),
	}
}

// FeedbackReport maps one feedback statistics row.
func FeedbackReport(in dto.FeedbackReport) model.FeedbackReportRow {
	return model.FeedbackReportRow{
		CourseID:      in.CourseID,
		CourseName:    in.CourseName,
		FeedbackCount: intOrZero(in.FeedbackCount),
		AverageRating: floatOrZero(in.AverageRating),
	}
}

// SplitLetters splits a comma-joined letter list ("a,c") into normalized
// lowercase letters, dropping blanks.
func SplitLetters(raw string) []string {
	parts := strings.Split(raw, ",")
	letters := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			letters = append(letters, trimmed)
		}
	}
	return letters
}

// JoinLetters is the inverse of SplitLetters, used when authoring questions.
func JoinLetters(letters []string) string {
	return strings.Join(letters, ",")
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func courseStatus(ref dto.NameRef) model.CourseStatus {
	switch strings.ToUpper(strings.TrimSpace(ref.Name)) {
	case "PUBLISHED", "ACTIVE", "OPEN":
		return model.CourseStatusPublished
	case "ARCHIVED", "CLOSED":
		return model.CourseStatusArchived
	default:
		return model.CourseStatusDraft
	}
}

func userRole(ref dto.NameRef) model.UserRole {
	switch strings.ToUpper(strings.TrimSpace(ref.Name)) {
	case "ADMIN", "ADMINISTRATOR":
		return model.UserRoleAdmin
	case "MANAGER", "HR":
		return model.UserRoleManager
	default:
		return model.UserRoleLearner
	}
}

func userStatus(ref dto.NameRef) model.UserStatus {
	switch strings.ToUpper(strings.TrimSpace(ref.Name)) {
	case "INACTIVE", "DISABLED":
		return model.UserStatusInactive
	case "DELETED":
		return model.UserStatusDeleted
	default:
		return model.UserStatusActive
	}
}

func lessonType(raw string) model.LessonType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video", "mp4":
		return model.LessonTypeVideo
	case "pdf":
		return model.LessonTypePDF
	case "link", "url", "external":
		return model.LessonTypeLink
	default:
		return model.LessonTypeText
	}
}

func questionType(raw string) model.QuestionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "multiple_choice", "multi":
		return model.QuestionTypeMultipleChoice
	case "select_all":
		return model.QuestionTypeSelectAll
	default:
		return model.QuestionTypeSingleChoice
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// parseTime accepts RFC3339 with or without fractional seconds; the zero
// time is returned for anything unparseable.
func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
