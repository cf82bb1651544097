package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hmhbrian/qldt-go/internal/attempt"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// cmdTake runs one interactive test attempt: navigation, answer selection,
// review, countdown and submission.
func (a *app) cmdTake(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: qldt take <courseID> <testID>")
	}

	test, err := a.tests.Get(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	engine := attempt.NewEngine(test, a.tests, notify.LogSink{Log: a.log}, a.log)
	if err := engine.Start(); err != nil {
		if errors.Is(err, attempt.ErrNoQuestions) {
			fmt.Println("This test has no questions and cannot be taken.")
			return nil
		}
		return err
	}

	timerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go engine.RunTimer(timerCtx)

	fmt.Printf("%s — %d questions", test.Title, len(test.Questions))
	if engine.Timed() {
		fmt.Printf(", %d minutes", test.TimeMinutes)
	}
	fmt.Println()
	fmt.Println("Commands: a-d select, n next, p previous, g <num> go to, r review, s submit, q quit")

	reader := bufio.NewReader(os.Stdin)
	for engine.State() != attempt.StateSubmitted {
		a.printAttemptView(engine, test.TimeMinutes > 0)

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input := strings.ToLower(strings.TrimSpace(line))

		switch {
		case input == "":
			continue
		case input == "q":
			fmt.Println("Attempt abandoned.")
			return nil
		case input == "n":
			engine.Next()
		case input == "p":
			engine.Previous()
		case input == "r":
			engine.EnterReview()
		case input == "s":
			if _, err := engine.Submit(ctx); err != nil {
				return err
			}
		case strings.HasPrefix(input, "g "):
			num, err := strconv.Atoi(strings.TrimSpace(input[2:]))
			if err != nil {
				fmt.Println("Question numbers start at 1.")
				continue
			}
			engine.GoToQuestion(num - 1)
		case len(input) == 1 && input[0] >= 'a' && input[0] <= 'd':
			q, ok := engine.CurrentQuestion()
			if !ok {
				continue
			}
			if err := engine.SelectAnswer(q.ID, input); err != nil {
				fmt.Println(err)
			}
		default:
			fmt.Println("Unrecognized command.")
		}
	}

	result, localOnly, _ := engine.Result()
	fmt.Printf("\nScore: %.1f%% (%d/%d correct) — ", result.Score, result.CorrectAnswers, result.TotalQuestions)
	if result.IsPassed {
		fmt.Println("PASSED")
	} else {
		fmt.Println("NOT PASSED")
	}
	if localOnly {
		fmt.Println("Note: this score was computed locally and could not be saved to the server.")
	}
	return nil
}

func (a *app) printAttemptView(engine *attempt.Engine, timed bool) {
	if timed {
		remaining := engine.TimeRemaining()
		fmt.Printf("[%02d:%02d] ", remaining/60, remaining%60)
	}

	if engine.State() == attempt.StateReview {
		fmt.Printf("Review: %d answered. 's' to submit, 'g <num>' to revisit.\n", engine.AnsweredCount())
		return
	}

	q, ok := engine.CurrentQuestion()
	if !ok {
		return
	}
	selected := engine.Answers(q.ID)

	fmt.Printf("Question %d: %s\n", engine.CurrentIndex()+1, q.Text)
	for i, opt := range q.Options {
		letter := string(rune('a' + i))
		mark := " "
		for _, s := range selected {
			if s == letter {
				mark = "x"
			}
		}
		fmt.Printf("  [%s] %s) %s\n", mark, letter, opt)
	}
}
