package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/forms"
)

// ─── Auth ────────────────────────────────────────────────────────────────────

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt login <email>")
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := a.auth.Login(ctx, args[0], string(bytePassword))
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Println("Signed out.")
	return nil
}

func (a *app) cmdWhoami() error {
	user, err := a.auth.CurrentUser()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s status=%s\n", user.Name, user.Email, user.Role, user.Status)
	return nil
}

// ─── Courses ─────────────────────────────────────────────────────────────────

func (a *app) cmdCourses(ctx context.Context, args []string) error {
	list, err := a.courses.List(ctx)
	if len(args) > 0 && args[0] == "--enrolled" {
		list, err = a.courses.Enrolled(ctx)
	}
	if err != nil {
		return err
	}

	for _, c := range list {
		marker := " "
		if c.IsEnrolled {
			marker = "*"
		}
		fmt.Printf("%s %-36s  %-10s %-9s lessons=%d tests=%d enrolled=%d  %s\n",
			marker, c.ID, c.Code, c.Status, c.LessonCount, c.TestCount, c.EnrolledCount, c.Name)
	}
	return nil
}

func (a *app) cmdCourse(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt course <courseID>")
	}
	c, err := a.courses.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\nStatus: %s\nCreated by: %s\n%s\n", c.Name, c.Code, c.Status, c.CreatedBy, c.Description)
	for _, d := range c.Departments {
		fmt.Printf("Department: %s\n", d.Name)
	}
	return nil
}

func (a *app) cmdEnroll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt enroll <courseID>")
	}
	if err := a.courses.Enroll(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Enrolled.")
	return nil
}

// ─── Lessons and progress ────────────────────────────────────────────────────

func (a *app) cmdLessons(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt lessons <courseID>")
	}
	lessons, err := a.lessons.List(ctx, args[0])
	if err != nil {
		return err
	}

	for _, l := range lessons {
		extent := ""
		switch l.Type {
		case "video":
			extent = fmt.Sprintf("%ds", l.DurationSeconds)
		case "pdf":
			extent = fmt.Sprintf("%d pages", l.TotalPages)
		}
		fmt.Printf("%-36s  %-5s %-10s %s\n", l.ID, l.Type, extent, l.Title)
	}
	return nil
}

func (a *app) cmdRead(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: qldt read <lessonID> <page>")
	}
	page, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("page must be a number: %w", err)
	}

	a.tracker.SetActiveLesson(args[0])
	a.tracker.RecordPage(ctx, args[0], page)
	a.tracker.Flush()
	fmt.Printf("Recorded page %d.\n", page)
	return nil
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: qldt watch <lessonID> <seconds>")
	}
	seconds, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("seconds must be a number: %w", err)
	}

	a.tracker.SetActiveLesson(args[0])
	a.tracker.RecordVideoTime(ctx, args[0], seconds)
	a.tracker.Flush()
	fmt.Printf("Recorded playback position %ds.\n", seconds)
	return nil
}

func (a *app) cmdProgress(ctx context.Context) error {
	entries, err := a.progressSvc.List(ctx)
	if err != nil {
		return err
	}

	for _, p := range entries {
		fmt.Printf("%-36s  page=%-4d time=%-6ds %.0f%%\n",
			p.LessonID, p.CurrentPage, p.CurrentTimeSecond, p.CompletionPercent)
	}
	return nil
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func (a *app) cmdTests(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt tests <courseID>")
	}
	tests, err := a.tests.List(ctx, args[0])
	if err != nil {
		return err
	}

	for _, t := range tests {
		limit := "untimed"
		if t.TimeMinutes > 0 {
			limit = fmt.Sprintf("%d min", t.TimeMinutes)
		}
		fmt.Printf("%-36s  pass=%.0f%% %-8s questions=%d  %s\n",
			t.ID, t.PassThreshold, limit, len(t.Questions), t.Title)
	}
	return nil
}

// ─── Administration ──────────────────────────────────────────────────────────

func (a *app) cmdUsers(ctx context.Context, args []string) error {
	list, err := a.users.List(ctx)
	if len(args) > 0 {
		list, err = a.users.Search(ctx, args[0])
	}
	if err != nil {
		return err
	}

	for _, u := range list {
		fmt.Printf("%-36s  %-9s %-9s %s <%s>\n", u.ID, u.Role, u.Status, u.Name, u.Email)
	}
	return nil
}

func (a *app) cmdDepartments(ctx context.Context) error {
	departments, err := a.departments.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range departments {
		fmt.Printf("%-36s  %s\n", d.ID, d.Name)
	}
	return nil
}

func (a *app) cmdReports(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qldt reports <courses|departments|feedback>")
	}

	switch args[0] {
	case "courses":
		rows, err := a.reports.CourseReport(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-30s enrolled=%-4d completed=%-4d avg_score=%-6.1f avg_progress=%.1f%%\n",
				r.CourseName, r.EnrolledCount, r.CompletedCount, r.AverageScore, r.AverageProgress)
		}
	case "departments":
		rows, err := a.reports.DepartmentReport(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-30s learners=%-4d enrollments=%-4d completion=%.1f%%\n",
				r.DepartmentName, r.LearnerCount, r.EnrolledCount, r.CompletionRate)
		}
	case "feedback":
		rows, err := a.reports.FeedbackReport(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-30s responses=%-4d rating=%.1f\n", r.CourseName, r.FeedbackCount, r.AverageRating)
		}
	default:
		return fmt.Errorf("unknown report %q", args[0])
	}
	return nil
}

func (a *app) cmdImportQuestions(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: qldt import-questions <courseID> <title> <file.xlsx>")
	}
	courseID, title, path := args[0], args[1], args[2]

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, rowErrs, err := forms.ImportQuestions(f)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		fmt.Printf("Skipping row %d:\n", re.Row)
		for field, msg := range re.Fields {
			fmt.Printf("  %s: %s\n", field, msg)
		}
	}
	if len(questions) == 0 {
		return fmt.Errorf("no valid questions in %s", path)
	}

	test, err := a.tests.Create(ctx, courseID, dto.CreateTestRequest{
		Title:     title,
		Questions: questions,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created test %s with %d questions.\n", test.ID, len(test.Questions))
	return nil
}
