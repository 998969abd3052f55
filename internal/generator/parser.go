package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/study-sprint/planner/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

type quizEnvelope struct {
	Questions []models.Question `json:"questions"`
}

// ParseQuiz decodes a model reply into questions. Both {"questions": [...]}
// and a bare list are accepted.
func ParseQuiz(responseBody string) ([]models.Question, error) {
	cleaned := stripCodeFences(responseBody)

	var questions []models.Question
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
	} else {
		var env quizEnvelope
		if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		questions = env.Questions
	}

	if err := validateQuiz(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

type planEnvelope struct {
	Plan []models.Topic `json:"plan"`
}

// ParsePlan decodes a model reply into topics. Both a bare list and
// {"plan": [...]} are accepted.
func ParsePlan(responseBody string) ([]models.Topic, error) {
	cleaned := stripCodeFences(responseBody)

	var topics []models.Topic
	if strings.HasPrefix(cleaned, "{") {
		var env planEnvelope
		if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		topics = env.Plan
	} else if err := json.Unmarshal([]byte(cleaned), &topics); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validatePlan(topics); err != nil {
		return nil, err
	}
	for i := range topics {
		topics[i].Priority = normalizePriority(topics[i].Priority)
		topics[i].Difficulty = normalizeDifficulty(topics[i].Difficulty)
	}
	return topics, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateQuiz(questions []models.Question) error {
	if len(questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in response"}}
	}

	var errs []string
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		if len(q.Options) != models.DefaultOptionCount {
			log.Printf("WARNING: question %d has %d options, expected %d", i+1, len(q.Options), models.DefaultOptionCount)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	// Weak questions are logged, not rejected
	for i, s := range AssessQuiz(questions) {
		if class := ClassifyQuality(s.Score()); class != "passed" {
			log.Printf("WARNING: question %d %s (structural score %.2f: %+v)", i+1, class, s.Score(), s)
		}
	}
	return nil
}

func validatePlan(topics []models.Topic) error {
	if len(topics) == 0 {
		return &ValidationError{Errors: []string{"no topics in response"}}
	}

	var errs []string
	for i, t := range topics {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Sprintf("topic %d: empty name", i+1))
		}
		if t.Hours < 0 {
			errs = append(errs, fmt.Sprintf("topic %d: negative hours %v", i+1, t.Hours))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func normalizePriority(p models.Priority) models.Priority {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "high":
		return models.PriorityHigh
	case "low":
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

func normalizeDifficulty(d models.Difficulty) models.Difficulty {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "easy":
		return models.DifficultyEasy
	case "medium":
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}
