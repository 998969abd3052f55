package plan

import (
	"errors"
	"fmt"
	"sync"

	"github.com/study-sprint/planner/internal/models"
)

type Tab string

const (
	TabTable Tab = "table"
	TabByDay Tab = "by-day"
)

var (
	ErrEmptyPlan = errors.New("plan has no topics")
	ErrBadDays   = errors.New("days until exam must be positive")
	ErrBadRow    = errors.New("topic row out of range")
	ErrBadTab    = errors.New("unknown tab")
)

// Board is the rendered study plan with its per-row completion flags. The
// received topics are never modified.
type Board struct {
	mu        sync.Mutex
	topics    []models.Topic
	completed []bool
	days      int
	total     float64
	remaining float64
	tab       Tab
	schedule  []Day
}

// Render builds a board for topics with days until the exam.
func Render(topics []models.Topic, days int) (*Board, error) {
	if len(topics) == 0 {
		return nil, ErrEmptyPlan
	}
	if days <= 0 {
		return nil, ErrBadDays
	}
	for i, t := range topics {
		if t.Hours < 0 {
			return nil, fmt.Errorf("topic %d (%s): negative hours", i+1, t.Name)
		}
	}

	owned := append([]models.Topic(nil), topics...)
	total := TotalHours(owned)
	return &Board{
		topics:    owned,
		completed: make([]bool, len(owned)),
		days:      days,
		total:     total,
		remaining: total,
		tab:       TabTable,
		schedule:  BucketByDay(owned, days),
	}, nil
}

// ToggleComplete marks a row done or not done. Repeating the current state
// is a no-op, so remaining hours stay within [0, total].
func (b *Board) ToggleComplete(row int, checked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if row < 0 || row >= len(b.topics) {
		return ErrBadRow
	}
	if b.completed[row] == checked {
		return nil
	}
	b.completed[row] = checked
	b.remaining = b.remainingLocked()
	return nil
}

// remainingLocked sums the open rows in row order and rounds like
// TotalHours, so all-open yields exactly the total and all-done exactly zero.
func (b *Board) remainingLocked() float64 {
	r := 0.0
	for i, t := range b.topics {
		if !b.completed[i] {
			r += t.Hours
		}
	}
	return roundHours(r)
}

func (b *Board) SwitchTab(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch Tab(name) {
	case TabTable, TabByDay:
		b.tab = Tab(name)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBadTab, name)
	}
}

func (b *Board) TotalHours() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *Board) RemainingHours() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// View describes the plan screen.
type View struct {
	Tab            Tab     `json:"tab"`
	DaysUntilExam  int     `json:"days_until_exam"`
	TotalHours     float64 `json:"total_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	Pacing         float64 `json:"pacing"`
	PacingText     string  `json:"pacing_text"`
	Indicators     []Color `json:"indicators"`
	Rows           []Row   `json:"rows"`
	Days           []Day   `json:"days"`
}

type Row struct {
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	Priority        string  `json:"priority"`
	PriorityBadge   string  `json:"priority_badge"`
	Difficulty      string  `json:"difficulty"`
	DifficultyBadge string  `json:"difficulty_badge"`
	Hours           float64 `json:"hours"`
	HoursText       string  `json:"hours_text"`
	Necessary       *bool   `json:"necessary,omitempty"`
	Completed       bool    `json:"completed"`
}

func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	pacing := Pacing(b.remaining, b.days)
	v := View{
		Tab:            b.tab,
		DaysUntilExam:  b.days,
		TotalHours:     b.total,
		RemainingHours: b.remaining,
		Pacing:         pacing,
		PacingText:     fmt.Sprintf("%.1f hrs/day", pacing),
		Indicators:     Indicators(b.days, pacing),
		Rows:           make([]Row, len(b.topics)),
		Days:           b.schedule,
	}
	for i, t := range b.topics {
		v.Rows[i] = Row{
			Index:           i,
			Name:            t.Name,
			Priority:        string(t.Priority),
			PriorityBadge:   t.PriorityBadge(),
			Difficulty:      string(t.Difficulty),
			DifficultyBadge: t.DifficultyBadge(),
			Hours:           t.Hours,
			HoursText:       fmt.Sprintf("%g hours", t.Hours),
			Necessary:       t.Necessary,
			Completed:       b.completed[i],
		}
	}
	return v
}
