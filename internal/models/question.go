package models

import "fmt"

// Question is one multiple-choice item as delivered by the quiz-generation
// call. It is never mutated after it has been received.
type Question struct {
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// DefaultOptionCount is the usual number of options per question.
const DefaultOptionCount = 4

// Validate reports whether the question can be shown and scored.
func (q Question) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("expected at least 2 options, got %d", len(q.Options))
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range [0, %d)", q.Correct, len(q.Options))
	}
	return nil
}

// OptionLabel returns the letter shown next to option i (A, B, C, ...).
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
