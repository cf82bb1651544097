package mockapi

import (
	"fmt"

	"github.com/hmhbrian/qldt-go/internal/dto"
)

// Demo credentials served by the seeded dataset.
const (
	SeedAdminEmail      = "admin@qldt.local"
	SeedAdminPassword   = "admin123"
	SeedLearnerEmail    = "learner@qldt.local"
	SeedLearnerPassword = "learner123"
)

// Seed fills the store with a small consistent dataset: three departments,
// an admin and two learners, two published courses with lessons and a test,
// one draft course, and some enrollment/progress/feedback history.
func Seed(store *Store, tokens *TokenService) error {
	adminHash, err := tokens.HashPassword(SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}
	learnerHash, err := tokens.HashPassword(SeedLearnerPassword)
	if err != nil {
		return fmt.Errorf("seed: hash learner password: %w", err)
	}

	hr := store.AddDepartment(&departmentRecord{Name: "Human Resources"})
	eng := store.AddDepartment(&departmentRecord{Name: "Engineering"})
	store.AddDepartment(&departmentRecord{Name: "Operations", ParentID: eng.ID})

	admin := store.AddUser(&userRecord{
		FullName:      "Training Admin",
		Email:         SeedAdminEmail,
		PasswordHash:  adminHash,
		Role:          "ADMIN",
		DepartmentIDs: []string{hr.ID},
	})
	learner := store.AddUser(&userRecord{
		FullName:      "Linh Learner",
		Email:         SeedLearnerEmail,
		PasswordHash:  learnerHash,
		Role:          "LEARNER",
		DepartmentIDs: []string{eng.ID},
	})
	store.AddUser(&userRecord{
		FullName:      "Minh Nguyen",
		Email:         "minh@qldt.local",
		PasswordHash:  learnerHash,
		Role:          "LEARNER",
		DepartmentIDs: []string{eng.ID},
	})

	safety := store.AddCourse(&courseRecord{
		Name:          "Workplace Safety",
		Code:          "SAFE-101",
		Description:   "Mandatory annual workplace safety training.",
		Status:        "PUBLISHED",
		DepartmentIDs: []string{hr.ID, eng.ID},
		CreatedByID:   admin.ID,
		CreatedByName: admin.FullName,
	})
	onboarding := store.AddCourse(&courseRecord{
		Name:          "Engineering Onboarding",
		Code:          "ENG-001",
		Description:   "Tooling, process and code review basics.",
		Status:        "PUBLISHED",
		DepartmentIDs: []string{eng.ID},
		CreatedByID:   admin.ID,
		CreatedByName: admin.FullName,
	})
	store.AddCourse(&courseRecord{
		Name:          "Leadership Skills",
		Code:          "LEAD-201",
		Description:   "Draft curriculum, not yet open for enrollment.",
		Status:        "DRAFT",
		DepartmentIDs: []string{hr.ID},
		CreatedByID:   admin.ID,
		CreatedByName: admin.FullName,
	})

	handbook := store.AddLesson(&lessonRecord{
		CourseID:   safety.ID,
		Title:      "Safety Handbook",
		FileType:   "pdf",
		FileURL:    "https://files.qldt.local/safety-handbook.pdf",
		TotalPages: 24,
		Order:      0,
	})
	video := store.AddLesson(&lessonRecord{
		CourseID: safety.ID,
		Title:    "Fire Drill Walkthrough",
		FileType: "video",
		FileURL:  "https://files.qldt.local/fire-drill.mp4",
		Duration: 540,
		Order:    1,
	})
	store.AddLesson(&lessonRecord{
		CourseID: onboarding.ID,
		Title:    "Development Environment",
		FileType: "text",
		Order:    0,
	})

	optC := "Report it to your manager and the safety officer"
	optD := "Take a photo for the team chat"
	store.AddTest(&testRecord{
		CourseID:      safety.ID,
		Title:         "Safety Fundamentals Quiz",
		PassThreshold: 70,
		TimeTest:      10,
		CreatedByID:   admin.ID,
		CreatedByName: admin.FullName,
		Questions: []questionRecord{
			{QuestionPayload: questionPayload(
				"What should you do when you notice a blocked fire exit?",
				"select_all", "Ignore it", "Unblock it if safe, then report it", &optC, &optD, "b,c")},
			{QuestionPayload: questionPayload(
				"Which of these belong in the emergency kit?",
				"multiple_choice", "First aid supplies", "Flashlight", nil, nil, "a,b")},
		},
	})

	store.Enroll(learner.ID, safety.ID)
	store.Enroll(learner.ID, onboarding.ID)

	page := 12
	store.UpsertProgress(learner.ID, handbook.ID, &page, nil)
	second := 300
	store.UpsertProgress(learner.ID, video.ID, nil, &second)

	store.AddFeedback(safety.ID, 4.5)
	store.AddFeedback(safety.ID, 5)
	store.AddFeedback(onboarding.ID, 4)

	return nil
}

func questionPayload(text, qtype, a, b string, c, d *string, correct string) dto.QuestionPayload {
	return dto.QuestionPayload{
		QuestionText:  text,
		QuestionType:  qtype,
		OptionA:       a,
		OptionB:       b,
		OptionC:       c,
		OptionD:       d,
		CorrectOption: correct,
	}
}
