// Package forms holds authoring drafts for the admin surfaces: course,
// test and user creation forms, plus bulk question import from Excel
// workbooks. Drafts validate locally before any request is sent.
package forms

import (
	"fmt"
	"strings"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// CourseDraft is an in-progress course creation form.
type CourseDraft struct {
	dto.CreateCourseRequest
}

// Validate returns field errors keyed by JSON field name, or nil.
func (d *CourseDraft) Validate() map[string]string {
	return validator.Struct(d.CreateCourseRequest)
}

// UserDraft is an in-progress user creation form.
type UserDraft struct {
	dto.CreateUserRequest
}

// Validate returns field errors keyed by JSON field name, or nil.
func (d *UserDraft) Validate() map[string]string {
	return validator.Struct(d.CreateUserRequest)
}

// TestDraft is an in-progress test authoring form with its question list.
type TestDraft struct {
	dto.CreateTestRequest
}

// Validate runs tag validation plus the cross-field question rules that
// tags cannot express: correct letters must reference provided options and
// single-choice questions carry exactly one correct letter.
func (d *TestDraft) Validate() map[string]string {
	fields := validator.Struct(d.CreateTestRequest)
	if fields == nil {
		fields = make(map[string]string)
	}

	for i, q := range d.Questions {
		validateQuestionSemantics(fmt.Sprintf("questions[%d]", i), q, fields)
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validateQuestionSemantics appends cross-field errors for one question
// under the given key prefix.
func validateQuestionSemantics(prefix string, q dto.QuestionPayload, fields map[string]string) {
	letters := mapper.SplitLetters(q.CorrectOption)
	if len(letters) == 0 {
		fields[prefix+".correctOption"] = "at least one correct option is required"
		return
	}
	if q.QuestionType == "single_choice" && len(letters) != 1 {
		fields[prefix+".correctOption"] = "single choice questions must have exactly one correct option"
	}

	for _, l := range letters {
		if !optionProvided(q, l) {
			fields[prefix+".correctOption"] = fmt.Sprintf("correct option %q has no answer text", l)
			return
		}
	}
}

// optionProvided reports whether the lettered option slot has text.
func optionProvided(q dto.QuestionPayload, letter string) bool {
	switch strings.ToLower(letter) {
	case "a":
		return q.OptionA != ""
	case "b":
		return q.OptionB != ""
	case "c":
		return q.OptionC != nil && *q.OptionC != ""
	case "d":
		return q.OptionD != nil && *q.OptionD != ""
	default:
		return false
	}
}
