package plan

import (
	"math/rand"
	"testing"

	"github.com/study-sprint/planner/internal/models"
)

func topics(hours ...float64) []models.Topic {
	out := make([]models.Topic, len(hours))
	for i, h := range hours {
		out[i] = models.Topic{
			Name:       "Topic " + models.OptionLabel(i),
			Priority:   models.PriorityMedium,
			Difficulty: models.DifficultyMedium,
			Hours:      h,
		}
	}
	return out
}

func TestBucketByDay(t *testing.T) {
	days := BucketByDay(topics(2, 2, 4, 1, 3), 3)

	// 12 hours over 3 days is 4 per day.
	want := [][]float64{{2, 2}, {4}, {1, 3}}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, d := range days {
		if d.Number != i+1 {
			t.Errorf("day %d numbered %d", i+1, d.Number)
		}
		if len(d.Topics) != len(want[i]) {
			t.Fatalf("day %d: expected %d topics, got %d", i+1, len(want[i]), len(d.Topics))
		}
		for j, topic := range d.Topics {
			if topic.Hours != want[i][j] {
				t.Errorf("day %d topic %d: expected %v hours, got %v", i+1, j, want[i][j], topic.Hours)
			}
		}
	}
}

func TestBucketByDayKeepsEveryTopicInOrder(t *testing.T) {
	in := topics(5, 1, 1, 7, 0.5, 2)
	days := BucketByDay(in, 4)

	var flat []models.Topic
	sum := 0.0
	for _, d := range days {
		if len(d.Topics) == 0 {
			t.Errorf("day %d is empty", d.Number)
		}
		flat = append(flat, d.Topics...)
		sum += d.Hours
	}
	if len(flat) != len(in) {
		t.Fatalf("expected %d topics, got %d", len(in), len(flat))
	}
	for i := range in {
		if flat[i].Name != in[i].Name {
			t.Errorf("position %d: expected %s, got %s", i, in[i].Name, flat[i].Name)
		}
	}
	if sum != TotalHours(in) || ScheduledHours(days) != TotalHours(in) {
		t.Errorf("expected %v hours across days, got %v", TotalHours(in), sum)
	}
}

func TestScheduledHoursMatchesTotalWithFractions(t *testing.T) {
	in := topics(2.5, 2, 1.6, 2, 1.4, 3.1, 0.2, 0.9)
	if got := ScheduledHours(BucketByDay(in, 4)); got != 13.7 || TotalHours(in) != 13.7 {
		t.Errorf("expected 13.7 hours, got %v scheduled of %v total", got, TotalHours(in))
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		hours := make([]float64, 1+rng.Intn(15))
		for j := range hours {
			hours[j] = float64(rng.Intn(80)) / 10
		}
		in := topics(hours...)
		days := 1 + rng.Intn(14)
		if got, want := ScheduledHours(BucketByDay(in, days)), TotalHours(in); got != want {
			t.Fatalf("hours %v over %d days: scheduled %v, total %v", hours, days, got, want)
		}

		b, err := Render(in, days)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		for row := range in {
			b.ToggleComplete(row, true)
		}
		if r := b.RemainingHours(); r != 0 {
			t.Fatalf("hours %v: expected 0 remaining with every row done, got %v", hours, r)
		}
		for row := range in {
			b.ToggleComplete(row, false)
		}
		if r := b.RemainingHours(); r != b.TotalHours() {
			t.Fatalf("hours %v: expected %v remaining with every row open, got %v", hours, b.TotalHours(), r)
		}
	}
}

func TestBucketByDayOversizedTopic(t *testing.T) {
	days := BucketByDay(topics(1, 10, 1), 3)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if len(days[1].Topics) != 1 || days[1].Hours != 10 {
		t.Errorf("expected the 10 hour topic alone on day 2, got %+v", days[1])
	}
}

func TestBucketByDayEmpty(t *testing.T) {
	if got := BucketByDay(nil, 3); len(got) != 0 {
		t.Errorf("expected no days, got %d", len(got))
	}
}

func TestPacing(t *testing.T) {
	tests := []struct {
		hours float64
		days  int
		want  float64
	}{
		{21, 5, 4.2},
		{10, 3, 3.3},
		{0, 4, 0},
		{7, 0, 0},
	}
	for _, tt := range tests {
		if got := Pacing(tt.hours, tt.days); got != tt.want {
			t.Errorf("Pacing(%v, %d) = %v, want %v", tt.hours, tt.days, got, tt.want)
		}
	}
}

func TestPacingColor(t *testing.T) {
	tests := []struct {
		pacing float64
		want   Color
	}{
		{0, ColorGreen},
		{4, ColorGreen},
		{4.1, ColorYellow},
		{6, ColorYellow},
		{6.1, ColorRed},
	}
	for _, tt := range tests {
		if got := PacingColor(tt.pacing); got != tt.want {
			t.Errorf("PacingColor(%v) = %s, want %s", tt.pacing, got, tt.want)
		}
	}
}

func TestIndicatorsCapped(t *testing.T) {
	if got := Indicators(45, 2); len(got) != MaxIndicatorDays {
		t.Errorf("expected %d indicators, got %d", MaxIndicatorDays, len(got))
	}
	got := Indicators(3, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 indicators, got %d", len(got))
	}
	for _, c := range got {
		if c != ColorYellow {
			t.Errorf("expected yellow, got %s", c)
		}
	}
}
