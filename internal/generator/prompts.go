package generator

import (
	"fmt"
	"strings"
)

const quizSystemPrompt = `You write multiple-choice practice quizzes for university students.

Rules:
- Every question has exactly 4 options.
- "correct" is the zero-based index of the single correct option.
- "category" is a short topic label (two or three words).
- Spread the correct index across positions; do not always use the same one.
- Do not use Markdown formatting. Return raw JSON only.`

const planSystemPrompt = `You build a study plan for a student preparing for an exam.

Rules:
- Return a JSON list of objects.
- Each object must have: "name", "priority" (High/Medium/Low), "difficulty" (Easy/Medium/Hard), "hours" (integer).
- Order topics in the sequence they should be studied.
- Do not use Markdown formatting. Just raw JSON.`

func QuizSystemPrompt() string {
	return quizSystemPrompt
}

func PlanSystemPrompt() string {
	return planSystemPrompt
}

// BuildQuizUserPrompt asks for count questions drawn from the syllabus text,
// or from the subject when no text is available.
func BuildQuizUserPrompt(subject, syllabus string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d questions.\n\n", count)
	writeSource(&b, subject, syllabus)
	b.WriteString(`
Respond with this JSON shape:
{"questions": [{"category": "...", "question": "...", "options": ["...", "...", "...", "..."], "correct": 0}]}`)
	return b.String()
}

// BuildPlanUserPrompt asks for a plan that fits into days.
func BuildPlanUserPrompt(subject, syllabus string, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a study plan for %d days.\n\n", days)
	writeSource(&b, subject, syllabus)
	b.WriteString(`
Respond with this JSON shape:
[{"name": "...", "priority": "High", "difficulty": "Medium", "hours": 3}]`)
	return b.String()
}

func writeSource(b *strings.Builder, subject, syllabus string) {
	if syllabus == "" {
		fmt.Fprintf(b, "Subject: %s.\n", subject)
		return
	}
	b.WriteString("Syllabus:\n<<<\n")
	b.WriteString(syllabus)
	b.WriteString("\n>>>\n")
}
