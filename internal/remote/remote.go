// Package remote holds the request/response contracts of the two external
// calls and the transports that carry them.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/study-sprint/planner/internal/models"
)

// Callable function names on the remote service.
const (
	FuncGenerateQuiz    = "generate_quiz"
	FuncAnalyzeSyllabus = "analyze_syllabus"
)

type QuizRequest struct {
	FilePath *string `json:"filePath"`
}

type QuizResponse struct {
	Questions []models.Question `json:"questions,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type AnalyzeRequest struct {
	FilePath string `json:"filePath"`
	Days     int    `json:"days"`
}

type AnalyzeResponse struct {
	Plan  []models.Topic `json:"plan,omitempty"`
	Error string         `json:"error,omitempty"`
}

type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, req QuizRequest) ([]models.Question, error)
}

type SyllabusAnalyzer interface {
	AnalyzeSyllabus(ctx context.Context, req AnalyzeRequest) ([]models.Topic, error)
}

// Client carries both calls over one transport.
type Client interface {
	QuizGenerator
	SyllabusAnalyzer
}

var (
	ErrEmptyQuiz = errors.New("no questions generated, backend returned empty")
	ErrEmptyPlan = errors.New("no topics generated, backend returned empty")
	ErrBadDays   = errors.New("days must be positive")
)

// CallError is an error reported by the service itself, either in a
// callable error envelope or an "error" field of the payload.
type CallError struct {
	Function string
	Status   string
	Message  string
}

func (e *CallError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: %s: %s", e.Function, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

// StatusError is a non-success transport status.
type StatusError struct {
	Function string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Function, e.Code, e.Body)
}

// checkQuiz turns a decoded quiz payload into questions or an error.
func checkQuiz(resp QuizResponse) ([]models.Question, error) {
	if resp.Error != "" {
		return nil, &CallError{Function: FuncGenerateQuiz, Message: resp.Error}
	}
	if len(resp.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return resp.Questions, nil
}

func checkPlan(resp AnalyzeResponse) ([]models.Topic, error) {
	if resp.Error != "" {
		return nil, &CallError{Function: FuncAnalyzeSyllabus, Message: resp.Error}
	}
	if len(resp.Plan) == 0 {
		return nil, ErrEmptyPlan
	}
	return resp.Plan, nil
}

func validateAnalyze(req AnalyzeRequest) error {
	if req.Days <= 0 {
		return ErrBadDays
	}
	if req.FilePath == "" {
		return fmt.Errorf("%s: filePath is required", FuncAnalyzeSyllabus)
	}
	return nil
}
