package generator

import (
	"strings"

	"github.com/study-sprint/planner/internal/models"
)

// StructuralScore holds the structural checks for one generated question.
type StructuralScore struct {
	QuestionLengthOK       bool
	AllOptionsInRange      bool
	OptionsDistinct        bool
	CorrectAnswerDistribOK bool
}

// ComputeStructuralScore evaluates a single question. The answer
// distribution check is batch-level and set by AssessQuiz.
func ComputeStructuralScore(q models.Question) StructuralScore {
	qLen := len(strings.TrimSpace(q.Question))

	optionsOK := true
	seen := make(map[string]bool, len(q.Options))
	distinct := true
	for _, opt := range q.Options {
		text := strings.TrimSpace(opt)
		if len(text) == 0 || len(text) > 300 {
			optionsOK = false
		}
		key := strings.ToLower(text)
		if seen[key] {
			distinct = false
		}
		seen[key] = true
	}

	return StructuralScore{
		QuestionLengthOK:       qLen >= 10 && qLen <= 600,
		AllOptionsInRange:      optionsOK,
		OptionsDistinct:        distinct,
		CorrectAnswerDistribOK: true,
	}
}

// Score is the share of passed checks, 0.0-1.0.
func (s StructuralScore) Score() float64 {
	score := 0.0
	for _, ok := range []bool{s.QuestionLengthOK, s.AllOptionsInRange, s.OptionsDistinct, s.CorrectAnswerDistribOK} {
		if ok {
			score += 0.25
		}
	}
	return score
}

// ClassifyQuality returns a classification based on the quality score.
// Returns: "reject" (< 0.50), "flagged" (0.50-0.70), "passed" (> 0.70)
func ClassifyQuality(score float64) string {
	if score < 0.50 {
		return "reject"
	}
	if score <= 0.70 {
		return "flagged"
	}
	return "passed"
}

// AssessQuiz scores every question. Questions whose correct option is used
// by more than half of a quiz of four or more fail the distribution check.
func AssessQuiz(questions []models.Question) []StructuralScore {
	counts := make(map[int]int)
	for _, q := range questions {
		counts[q.Correct]++
	}

	out := make([]StructuralScore, len(questions))
	for i, q := range questions {
		out[i] = ComputeStructuralScore(q)
		if len(questions) >= 4 && counts[q.Correct] > len(questions)/2 {
			out[i].CorrectAnswerDistribOK = false
		}
	}
	return out
}
