package attempt

import "github.com/hmhbrian/qldt-go/internal/model"

// Score computes the local attempt result. A question counts as correct iff
// the learner's selection set and the correct-option set are identical as
// sets: same size, every selection correct, every correct option selected.
// A question with zero selections is always incorrect.
func Score(test model.Test, answers map[string][]string) model.TestResult {
	total := len(test.Questions)
	correct := 0

	for _, q := range test.Questions {
		if setsEqual(answers[q.ID], q.CorrectOptions) {
			correct++
		}
	}

	// Guard division by zero: a test with no questions displays 0, not NaN.
	var pct float64
	if total > 0 {
		pct = float64(correct) / float64(total) * 100
	}

	return model.TestResult{
		Score:          pct,
		TotalQuestions: total,
		CorrectAnswers: correct,
		IsPassed:       total > 0 && pct >= test.PassThreshold,
	}
}

// setsEqual compares two letter slices as sets, order-independent.
// Empty or nil selections never equal a non-empty correct set.
func setsEqual(selected, correct []string) bool {
	if len(selected) == 0 || len(correct) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	if len(set) != len(correct) {
		return false
	}
	for _, c := range correct {
		if _, ok := set[c]; !ok {
			return false
		}
	}
	return true
}
