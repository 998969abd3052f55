package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/study-sprint/planner/internal/generator"
)

type staticLLM struct {
	content string
	err     error
}

func (s staticLLM) Generate(ctx context.Context, system, user string) (*generator.LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &generator.LLMResponse{Content: s.content}, nil
}

func TestDirect_GenerateQuiz(t *testing.T) {
	gen := generator.NewWithClient(generator.NewMockClient(), "mock", generator.Options{}, nil)
	questions, err := NewDirectClient(gen).GenerateQuiz(context.Background(), QuizRequest{})
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) == 0 {
		t.Error("expected questions from mock generator")
	}
}

func TestDirect_WrapsGeneratorErrors(t *testing.T) {
	gen := generator.NewWithClient(staticLLM{err: errors.New("rate limited")}, "x", generator.Options{}, nil)

	_, err := NewDirectClient(gen).AnalyzeSyllabus(context.Background(), AnalyzeRequest{FilePath: "a.pdf", Days: 5})
	var ce *CallError
	if !errors.As(err, &ce) || ce.Function != FuncAnalyzeSyllabus {
		t.Fatalf("expected CallError for %s, got %v", FuncAnalyzeSyllabus, err)
	}
}

func TestDirect_EmptyPlanFromModel(t *testing.T) {
	gen := generator.NewWithClient(staticLLM{content: `[]`}, "x", generator.Options{}, nil)

	_, err := NewDirectClient(gen).AnalyzeSyllabus(context.Background(), AnalyzeRequest{FilePath: "a.pdf", Days: 5})
	if err == nil {
		t.Fatal("expected error for empty plan")
	}
}
