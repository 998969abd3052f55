package quiz

import (
	"fmt"

	"github.com/study-sprint/planner/internal/models"
)

// Snapshot is an immutable copy of a session's state.
type Snapshot struct {
	State     State
	Questions []models.Question
	Answers   []int
	Current   int
	Remaining int
	Result    *Result
	LoadErr   error
}

type BubbleStatus string

const (
	BubbleCurrent    BubbleStatus = "current"
	BubbleAnswered   BubbleStatus = "answered"
	BubbleUnanswered BubbleStatus = "unanswered"
)

// View is the full description of the quiz screen for one state. Exactly
// one of Loading, Failure, Question and Results is set.
type View struct {
	State            State          `json:"state"`
	TotalQuestions   int            `json:"total_questions"`
	Clock            string         `json:"clock"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Score            int            `json:"score"`
	Loading          *LoadingPanel  `json:"loading,omitempty"`
	Failure          *FailurePanel  `json:"failure,omitempty"`
	Question         *QuestionPanel `json:"question,omitempty"`
	Sidebar          []Bubble       `json:"sidebar"`
	Nav              *NavControls   `json:"nav,omitempty"`
	Results          *ResultsPanel  `json:"results,omitempty"`
}

type LoadingPanel struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type FailurePanel struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Retry   bool   `json:"retry"`
}

type QuestionPanel struct {
	Number          int           `json:"number"`
	Header          string        `json:"header"`
	Text            string        `json:"text"`
	Options         []OptionEntry `json:"options"`
	ProgressPercent float64       `json:"progress_percent"`
}

type OptionEntry struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

type Bubble struct {
	Index  int          `json:"index"`
	Label  string       `json:"label"`
	Status BubbleStatus `json:"status"`
}

type NavControls struct {
	PreviousEnabled bool `json:"previous_enabled"`
	NextVisible     bool `json:"next_visible"`
	SubmitVisible   bool `json:"submit_visible"`
}

type ResultsPanel struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"max_score"`
	Percentage int    `json:"percentage"`
	TryAgain   bool   `json:"try_again"`
}

// Render is a pure function from a snapshot to the view for its state.
func Render(s Snapshot) View {
	v := View{
		State:            s.State,
		TotalQuestions:   len(s.Questions),
		Clock:            FormatClock(s.Remaining),
		RemainingSeconds: s.Remaining,
		Sidebar:          []Bubble{},
	}

	switch s.State {
	case StateLoading:
		v.Clock = FormatClock(0)
		v.Loading = &LoadingPanel{
			Title:    "Generating Your Quiz...",
			Subtitle: "Analyzing syllabus concepts",
		}
	case StateFailed:
		v.Clock = FormatClock(0)
		msg := "unknown error"
		if s.LoadErr != nil {
			msg = s.LoadErr.Error()
		}
		v.Failure = &FailurePanel{
			Title:   "Failed to Load Quiz",
			Message: msg,
			Detail:  "Error Details: " + msg,
			Retry:   true,
		}
	case StateInProgress:
		v.Question = renderQuestion(s)
		v.Sidebar = renderSidebar(s)
		v.Nav = &NavControls{
			PreviousEnabled: s.Current > 0,
			NextVisible:     s.Current < len(s.Questions)-1,
			SubmitVisible:   s.Current == len(s.Questions)-1,
		}
	case StateCompleted:
		v.Sidebar = renderSidebar(s)
		if s.Result != nil {
			v.Score = s.Result.Score
			v.Results = &ResultsPanel{
				Title:      "Quiz Completed!",
				Summary:    fmt.Sprintf("You scored %d out of %d points", s.Result.Score, s.Result.MaxScore),
				Score:      s.Result.Score,
				MaxScore:   s.Result.MaxScore,
				Percentage: s.Result.Percentage,
				TryAgain:   true,
			}
		}
	}
	return v
}

func renderQuestion(s Snapshot) *QuestionPanel {
	q := s.Questions[s.Current]
	p := &QuestionPanel{
		Number:          s.Current + 1,
		Header:          fmt.Sprintf("Question %d: %s", s.Current+1, q.Category),
		Text:            q.Question,
		Options:         make([]OptionEntry, len(q.Options)),
		ProgressPercent: float64(s.Current+1) / float64(len(s.Questions)) * 100,
	}
	for i, opt := range q.Options {
		p.Options[i] = OptionEntry{
			Index:    i,
			Label:    models.OptionLabel(i),
			Text:     opt,
			Selected: s.Answers[s.Current] == i,
		}
	}
	return p
}

func renderSidebar(s Snapshot) []Bubble {
	bubbles := make([]Bubble, len(s.Questions))
	for i := range s.Questions {
		b := Bubble{Index: i}
		switch {
		case s.State == StateInProgress && i == s.Current:
			b.Status = BubbleCurrent
			b.Label = fmt.Sprintf("Q%d", i+1)
		case s.Answers[i] != Unanswered:
			b.Status = BubbleAnswered
			b.Label = "✓"
		default:
			b.Status = BubbleUnanswered
			b.Label = fmt.Sprintf("%d", i+1)
		}
		bubbles[i] = b
	}
	return bubbles
}
