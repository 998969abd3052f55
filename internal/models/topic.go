package models

// Priority of a topic as classified by the analysis service.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Topic is one schedulable study unit returned by syllabus analysis.
type Topic struct {
	Name       string     `json:"name"`
	Priority   Priority   `json:"priority"`
	Difficulty Difficulty `json:"difficulty"`
	Hours      float64    `json:"hours"`
	Necessary  *bool      `json:"necessary,omitempty"`
}

// Badge names used by the plan table.
const (
	BadgeHighPriority   = "high-priority"
	BadgeMediumPriority = "medium-priority"
	BadgeEasy           = "easy"
	BadgeMedium         = "medium"
	BadgeHard           = "hard"
)

// PriorityBadge maps High to the high badge and everything else to medium.
func (t Topic) PriorityBadge() string {
	if t.Priority == PriorityHigh {
		return BadgeHighPriority
	}
	return BadgeMediumPriority
}

// DifficultyBadge maps Easy and Medium to their badges; anything else is hard.
func (t Topic) DifficultyBadge() string {
	switch t.Difficulty {
	case DifficultyEasy:
		return BadgeEasy
	case DifficultyMedium:
		return BadgeMedium
	default:
		return BadgeHard
	}
}
