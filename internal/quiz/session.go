package quiz

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/study-sprint/planner/internal/models"
)

type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

const (
	// DefaultTimeLimit is the quiz length in seconds (5 minutes).
	DefaultTimeLimit = 300
	// PointsPerQuestion is awarded for each correctly answered question.
	PointsPerQuestion = 10
	// Unanswered marks a question without a recorded choice.
	Unanswered = -1
)

var (
	ErrNoQuestions   = errors.New("no questions generated")
	ErrNotInProgress = errors.New("quiz is not in progress")
	ErrBadQuestion   = errors.New("question index out of range")
	ErrBadOption     = errors.New("option index out of range")
	ErrBadDelta      = errors.New("delta must be -1 or +1")
)

// Result is the outcome computed once by Submit.
type Result struct {
	Score      int `json:"score"`
	MaxScore   int `json:"max_score"`
	Percentage int `json:"percentage"`
	Answered   int `json:"answered"`
	Correct    int `json:"correct"`
}

// Session holds the progress of one quiz attempt. All methods are safe for
// concurrent use; the countdown goroutine and HTTP handlers share it.
type Session struct {
	mu sync.Mutex

	state     State
	questions []models.Question
	answers   []int
	current   int
	remaining int
	timeLimit int
	result    *Result
	loadErr   error

	timer    Timer
	newTimer TimerFactory
	onChange func(View)
}

type Option func(*Session)

// WithTimeLimit overrides the default countdown in seconds.
func WithTimeLimit(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.timeLimit = seconds
		}
	}
}

// WithTimerFactory sets how the one-second ticker is created. A nil factory
// leaves the session without a running countdown; Tick can still be driven
// by hand.
func WithTimerFactory(f TimerFactory) Option {
	return func(s *Session) { s.newTimer = f }
}

// WithOnChange registers a callback invoked with the fresh view after every
// state change, including timer ticks. It is called without the lock held.
func WithOnChange(fn func(View)) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession returns a session in the loading state.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state:     StateLoading,
		timeLimit: DefaultTimeLimit,
		newTimer:  NewTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize moves a loading session to in-progress. An empty question list
// fails the session instead, and no timer is started.
func (s *Session) Initialize(questions []models.Question) error {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return fmt.Errorf("initialize: session is %s", s.state)
	}
	if len(questions) == 0 {
		s.failLocked(ErrNoQuestions)
		s.mu.Unlock()
		s.notify()
		return ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			err = fmt.Errorf("question %d: %w", i+1, err)
			s.failLocked(err)
			s.mu.Unlock()
			s.notify()
			return err
		}
	}

	s.questions = append([]models.Question(nil), questions...)
	s.answers = make([]int, len(questions))
	for i := range s.answers {
		s.answers[i] = Unanswered
	}
	s.current = 0
	s.remaining = s.timeLimit
	s.state = StateInProgress
	if s.newTimer != nil {
		s.timer = s.newTimer(s.tickAndNotify)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Fail records a load error. Only valid while loading.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return
	}
	s.failLocked(err)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) failLocked(err error) {
	s.state = StateFailed
	s.loadErr = err
}

// SelectOption records the chosen option, replacing any earlier choice. It
// never changes the current question.
func (s *Session) SelectOption(question, option int) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	if question < 0 || question >= len(s.questions) {
		s.mu.Unlock()
		return ErrBadQuestion
	}
	if option < 0 || option >= len(s.questions[question].Options) {
		s.mu.Unlock()
		return ErrBadOption
	}
	s.answers[question] = option
	s.mu.Unlock()
	s.notify()
	return nil
}

// Navigate moves the current question by delta. Moving past either end is a
// no-op.
func (s *Session) Navigate(delta int) error {
	if delta != -1 && delta != 1 {
		return ErrBadDelta
	}
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	next := s.current + delta
	if next < 0 || next >= len(s.questions) {
		s.mu.Unlock()
		return nil
	}
	s.current = next
	s.mu.Unlock()
	s.notify()
	return nil
}

// JumpTo sets the current question directly. Out-of-range indexes leave the
// session unchanged.
func (s *Session) JumpTo(index int) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	if index < 0 || index >= len(s.questions) {
		s.mu.Unlock()
		return nil
	}
	s.current = index
	s.mu.Unlock()
	s.notify()
	return nil
}

// Tick advances the countdown by one second and submits when it runs out.
// Ticks outside the in-progress state are ignored.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

func (s *Session) tickLocked() {
	if s.state != StateInProgress {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.submitLocked()
	}
}

func (s *Session) tickAndNotify() {
	s.mu.Lock()
	s.tickLocked()
	s.mu.Unlock()
	s.notify()
}

// Submit stops the countdown and scores the attempt. Only the first call has
// an effect; later calls return the same result.
func (s *Session) Submit() (Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateCompleted:
		r := *s.result
		s.mu.Unlock()
		return r, nil
	case StateInProgress:
	default:
		s.mu.Unlock()
		return Result{}, ErrNotInProgress
	}
	s.submitLocked()
	r := *s.result
	s.mu.Unlock()
	s.notify()
	return r, nil
}

func (s *Session) submitLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.result = score(s.questions, s.answers)
	s.state = StateCompleted
}

// Stop cancels the countdown without submitting, e.g. when the session is
// discarded by a reload.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

func score(questions []models.Question, answers []int) *Result {
	r := &Result{MaxScore: len(questions) * PointsPerQuestion}
	for i, ans := range answers {
		if ans == Unanswered {
			continue
		}
		r.Answered++
		if ans == questions[i].Correct {
			r.Correct++
			r.Score += PointsPerQuestion
		}
	}
	r.Percentage = Percentage(r.Score, r.MaxScore)
	return r
}

// Percentage returns round(100 * score / max), or 0 when max is 0.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(max)))
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot copies the state needed to render the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Questions: s.questions,
		Answers:   append([]int(nil), s.answers...),
		Current:   s.current,
		Remaining: s.remaining,
		LoadErr:   s.loadErr,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// View renders the current state.
func (s *Session) View() View {
	return Render(s.Snapshot())
}

func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.View())
}
