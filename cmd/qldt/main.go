// Command qldt is the terminal client for the corporate training platform:
// sign in, browse courses, consume lessons, take tests and pull reports.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/auth"
	"github.com/hmhbrian/qldt-go/internal/config"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/logger"
	"github.com/hmhbrian/qldt-go/internal/mockapi"
	"github.com/hmhbrian/qldt-go/internal/notify"
	"github.com/hmhbrian/qldt-go/internal/progress"
	"github.com/hmhbrian/qldt-go/internal/service"
)

// app bundles the wired client stack shared by all subcommands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *auth.Session

	auth        *service.AuthService
	courses     *service.CourseService
	lessons     *service.LessonService
	tests       *service.TestService
	progressSvc *service.ProgressService
	users       *service.UserService
	departments *service.DepartmentService
	reports     *service.ReportService
	tracker     *progress.Tracker
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Optional In-Process Mock Backend ──────────────────────────────
	if cfg.UseMockAPI {
		startMockAPI(cfg, log)
	}

	// ─── Session and HTTP Client ───────────────────────────────────────
	session := auth.NewSession(cfg.TokenFile, log)
	if err := session.Hydrate(); err != nil {
		log.Debug().Err(err).Msg("no persisted session")
	}

	client := httpx.New(cfg.APIBaseURL, cfg.RequestTimeout, session.Token, log)
	notifier := notify.LogSink{Log: log}

	// ─── Services ──────────────────────────────────────────────────────
	progressSvc := service.NewProgressService(client, notifier, log)
	a := &app{
		cfg:         cfg,
		log:         log,
		session:     session,
		auth:        service.NewAuthService(client, session, notifier, log),
		courses:     service.NewCourseService(client, notifier, log),
		lessons:     service.NewLessonService(client, notifier, log),
		tests:       service.NewTestService(client, notifier, log),
		progressSvc: progressSvc,
		users:       service.NewUserService(client, notifier, log),
		departments: service.NewDepartmentService(client, notifier, log),
		reports:     service.NewReportService(client, notifier, log),
		tracker:     progress.NewTracker(progressSvc, notifier, log),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := a.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami()
	case "courses":
		return a.cmdCourses(ctx, args)
	case "course":
		return a.cmdCourse(ctx, args)
	case "enroll":
		return a.cmdEnroll(ctx, args)
	case "lessons":
		return a.cmdLessons(ctx, args)
	case "read":
		return a.cmdRead(ctx, args)
	case "watch":
		return a.cmdWatch(ctx, args)
	case "progress":
		return a.cmdProgress(ctx)
	case "tests":
		return a.cmdTests(ctx, args)
	case "take":
		return a.cmdTake(ctx, args)
	case "users":
		return a.cmdUsers(ctx, args)
	case "departments":
		return a.cmdDepartments(ctx)
	case "reports":
		return a.cmdReports(ctx, args)
	case "import-questions":
		return a.cmdImportQuestions(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// startMockAPI runs the seeded mock backend inside this process and points
// the client at it, so the whole stack works without a real backend.
func startMockAPI(cfg *config.Config, log zerolog.Logger) {
	store := mockapi.NewStore()
	tokens := mockapi.NewTokenService(cfg)
	if err := mockapi.Seed(store, tokens); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed mock data")
	}

	srv := &http.Server{
		Addr:    "127.0.0.1:" + cfg.MockPort,
		Handler: mockapi.NewRouter(cfg, store, tokens),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Mock API server error")
		}
	}()

	cfg.APIBaseURL = "http://127.0.0.1:" + cfg.MockPort + "/api"
	log.Info().
		Str("base_url", cfg.APIBaseURL).
		Str("admin", mockapi.SeedAdminEmail).
		Str("learner", mockapi.SeedLearnerEmail).
		Msg("Using in-process mock API")
}

func usage() {
	fmt.Print(`qldt - corporate training client

Usage:
  qldt login <email>                      Sign in (prompts for password)
  qldt logout                             Sign out and clear the session
  qldt whoami                             Show the signed-in user

  qldt courses [--enrolled]               List courses
  qldt course <courseID>                  Show one course
  qldt enroll <courseID>                  Enroll in a course
  qldt lessons <courseID>                 List a course's lessons
  qldt read <lessonID> <page>             Record a document reading position
  qldt watch <lessonID> <seconds>         Record a video playback position
  qldt progress                           Show lesson progress

  qldt tests <courseID>                   List a course's tests
  qldt take <courseID> <testID>           Take a test interactively

  qldt users [query]                      List or search users (admin)
  qldt departments                        List departments
  qldt reports <courses|departments|feedback>
  qldt import-questions <courseID> <title> <file.xlsx>

Set USE_MOCK_API=true to run against the seeded in-process backend.
`)
}
