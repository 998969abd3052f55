package plan

import (
	"math"

	"github.com/study-sprint/planner/internal/models"
)

// MaxIndicatorDays caps the number of day boxes shown in the pacing strip.
const MaxIndicatorDays = 30

type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// Day is one bucket of the by-day view.
type Day struct {
	Number int            `json:"number"`
	Topics []models.Topic `json:"topics"`
	Hours  float64        `json:"hours"`
}

// BucketByDay fills days greedily in topic order. A topic moves to a new day
// when it would push the current day past totalHours/days; topics are never
// split, so an oversized topic sits alone on its own day.
func BucketByDay(topics []models.Topic, days int) []Day {
	if len(topics) == 0 {
		return []Day{}
	}
	perDay := 0.0
	if days > 0 {
		perDay = TotalHours(topics) / float64(days)
	}

	var out []Day
	cur := Day{Number: 1}
	load := 0.0
	for _, t := range topics {
		if len(cur.Topics) > 0 && load+t.Hours > perDay {
			cur.Hours = roundHours(load)
			out = append(out, cur)
			cur = Day{Number: cur.Number + 1}
			load = 0
		}
		cur.Topics = append(cur.Topics, t)
		load += t.Hours
	}
	cur.Hours = roundHours(load)
	return append(out, cur)
}

// hourPrecision is the resolution every reported hour total is rounded to.
// Float sums taken in different groupings agree once rounded.
const hourPrecision = 1e6

func roundHours(h float64) float64 {
	return math.Round(h*hourPrecision) / hourPrecision
}

func TotalHours(topics []models.Topic) float64 {
	total := 0.0
	for _, t := range topics {
		total += t.Hours
	}
	return roundHours(total)
}

// ScheduledHours is the hours across all day buckets. It equals TotalHours of
// the topics that were bucketed.
func ScheduledHours(days []Day) float64 {
	total := 0.0
	for _, d := range days {
		total += d.Hours
	}
	return roundHours(total)
}

// Pacing is remaining hours per remaining day, rounded to one decimal.
func Pacing(remainingHours float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return math.Round(remainingHours/float64(days)*10) / 10
}

// PacingColor grades a daily load: above 6 hours red, above 4 yellow.
func PacingColor(pacing float64) Color {
	switch {
	case pacing > 6:
		return ColorRed
	case pacing > 4:
		return ColorYellow
	default:
		return ColorGreen
	}
}

// Indicators returns one box per day until the exam, up to
// MaxIndicatorDays, all colored by the current pacing.
func Indicators(days int, pacing float64) []Color {
	n := days
	if n > MaxIndicatorDays {
		n = MaxIndicatorDays
	}
	if n < 0 {
		n = 0
	}
	c := PacingColor(pacing)
	out := make([]Color, n)
	for i := range out {
		out[i] = c
	}
	return out
}
