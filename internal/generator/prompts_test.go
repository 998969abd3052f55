package generator

import (
	"strings"
	"testing"
)

func TestQuizSystemPrompt(t *testing.T) {
	prompt := QuizSystemPrompt()

	required := []string{"4 options", "correct", "category", "JSON"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("quiz system prompt missing keyword %q", keyword)
		}
	}
}

func TestPlanSystemPrompt(t *testing.T) {
	prompt := PlanSystemPrompt()

	required := []string{"study plan", "priority", "difficulty", "hours", "JSON"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("plan system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildQuizUserPrompt(t *testing.T) {
	prompt := BuildQuizUserPrompt("Engineering Calculus", "", 5)

	for _, keyword := range []string{"5 questions", "Subject: Engineering Calculus", `"questions"`} {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("quiz user prompt missing %q", keyword)
		}
	}
}

func TestBuildPlanUserPrompt_WithSyllabus(t *testing.T) {
	prompt := BuildPlanUserPrompt("Engineering Calculus", "Week 1: Limits", 12)

	if !strings.Contains(prompt, "12 days") {
		t.Error("plan user prompt should mention the number of days")
	}
	if !strings.Contains(prompt, "Week 1: Limits") {
		t.Error("plan user prompt should embed the syllabus text")
	}
	if strings.Contains(prompt, "Subject:") {
		t.Error("plan user prompt should not fall back to the subject when syllabus text exists")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 2); got != "h" {
		t.Errorf("truncate split a rune: %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("truncate changed short input: %q", got)
	}
}
