package remote

import (
	"context"

	"github.com/study-sprint/planner/internal/generator"
	"github.com/study-sprint/planner/internal/models"
)

// DirectClient answers both calls in-process by prompting a language model
// through the generator package.
type DirectClient struct {
	gen *generator.Generator
}

func NewDirectClient(gen *generator.Generator) *DirectClient {
	return &DirectClient{gen: gen}
}

func (c *DirectClient) GenerateQuiz(ctx context.Context, req QuizRequest) ([]models.Question, error) {
	questions, err := c.gen.GenerateQuiz(ctx, req.FilePath)
	if err != nil {
		return nil, &CallError{Function: FuncGenerateQuiz, Message: err.Error()}
	}
	return checkQuiz(QuizResponse{Questions: questions})
}

func (c *DirectClient) AnalyzeSyllabus(ctx context.Context, req AnalyzeRequest) ([]models.Topic, error) {
	if err := validateAnalyze(req); err != nil {
		return nil, err
	}
	topics, err := c.gen.GeneratePlan(ctx, req.FilePath, req.Days)
	if err != nil {
		return nil, &CallError{Function: FuncAnalyzeSyllabus, Message: err.Error()}
	}
	return checkPlan(AnalyzeResponse{Plan: topics})
}
