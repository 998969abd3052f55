package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	content    string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	f.lastSystem, f.lastUser = systemPrompt, userPrompt
	if f.err != nil {
		return nil, f.err
	}
	return &LLMResponse{Content: f.content}, nil
}

func TestGenerateQuiz_UsesSyllabusText(t *testing.T) {
	llm := &fakeLLM{content: validQuizJSON(5)}
	src := func(ctx context.Context, path string) (string, error) {
		return "Chapter 1: Limits", nil
	}
	g := NewWithClient(llm, "fake", Options{}, src)

	path := "syllabi/calc.pdf"
	questions, err := g.GenerateQuiz(context.Background(), &path)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(questions))
	}
	if !strings.Contains(llm.lastUser, "Chapter 1: Limits") {
		t.Errorf("user prompt should contain syllabus text, got %q", llm.lastUser)
	}
}

func TestGenerateQuiz_NilPathFallsBackToSubject(t *testing.T) {
	llm := &fakeLLM{content: validQuizJSON(2)}
	g := NewWithClient(llm, "fake", Options{Subject: "Linear Algebra"}, nil)

	if _, err := g.GenerateQuiz(context.Background(), nil); err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if !strings.Contains(llm.lastUser, "Subject: Linear Algebra") {
		t.Errorf("expected subject fallback, got %q", llm.lastUser)
	}
}

func TestGenerateQuiz_UnreadableSyllabusFallsBack(t *testing.T) {
	llm := &fakeLLM{content: validQuizJSON(2)}
	src := func(ctx context.Context, path string) (string, error) {
		return "", errors.New("pdftotext missing")
	}
	g := NewWithClient(llm, "fake", Options{}, src)

	path := "syllabi/x.pdf"
	if _, err := g.GenerateQuiz(context.Background(), &path); err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if !strings.Contains(llm.lastUser, "Subject: Engineering Calculus") {
		t.Errorf("expected default subject, got %q", llm.lastUser)
	}
}

func TestGeneratePlan_LLMError(t *testing.T) {
	g := NewWithClient(&fakeLLM{err: errors.New("overloaded")}, "fake", Options{}, nil)

	_, err := g.GeneratePlan(context.Background(), "syllabi/a.pdf", 7)
	if err == nil || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("expected wrapped LLM error, got %v", err)
	}
}

func TestMockClient_ProducesParseableOutput(t *testing.T) {
	g := NewWithClient(NewMockClient(), "mock", Options{}, nil)

	questions, err := g.GenerateQuiz(context.Background(), nil)
	if err != nil {
		t.Fatalf("mock quiz did not parse: %v", err)
	}
	if len(questions) != 5 {
		t.Errorf("expected 5 mock questions, got %d", len(questions))
	}

	topics, err := g.GeneratePlan(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("mock plan did not parse: %v", err)
	}
	if len(topics) == 0 {
		t.Error("expected mock topics")
	}
}
