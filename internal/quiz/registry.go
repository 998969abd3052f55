package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/study-sprint/planner/internal/remote"
)

// ErrLoadInFlight is returned when a client starts a quiz while the previous
// generation call is still pending.
var ErrLoadInFlight = errors.New("quiz generation already in progress")

// Registry keeps the live session of every client. Starting a new quiz
// discards the previous session, like a page reload.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	touched  map[string]time.Time
	gen      remote.QuizGenerator
	opts     []Option
	onChange func(clientID string, v View)
	now      func() time.Time
}

func NewRegistry(gen remote.QuizGenerator, onChange func(clientID string, v View), opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		touched:  make(map[string]time.Time),
		gen:      gen,
		opts:     opts,
		onChange: onChange,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for idle tracking.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

func (r *Registry) Get(clientID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[clientID]
	if ok {
		r.touched[clientID] = r.now()
	}
	return s, ok
}

// Len reports how many clients have a session.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep stops and forgets sessions nobody has looked at for longer than
// maxIdle. Sessions still loading are kept so their load has somewhere to
// land. It returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, s := range r.sessions {
		if s.State() == StateLoading || !r.touched[id].Before(cutoff) {
			continue
		}
		s.Stop()
		delete(r.sessions, id)
		delete(r.touched, id)
		n++
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("[quiz-sweeper] Idle session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[quiz-sweeper] Shutting down")
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Printf("[quiz-sweeper] removed %d idle sessions", n)
			}
		}
	}
}

// Begin replaces the client's session with a fresh loading one. A previous
// session that is still loading is kept and ErrLoadInFlight returned.
func (r *Registry) Begin(clientID string) (*Session, error) {
	opts := append([]Option(nil), r.opts...)
	if r.onChange != nil {
		opts = append(opts, WithOnChange(func(v View) { r.onChange(clientID, v) }))
	}
	s := NewSession(opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.sessions[clientID]; ok {
		if prev.State() == StateLoading {
			return prev, ErrLoadInFlight
		}
		prev.Stop()
	}
	r.sessions[clientID] = s
	r.touched[clientID] = r.now()
	return s, nil
}

// Start begins a session and loads its questions. The returned session is
// in progress on success and failed otherwise; the load error is returned
// alongside it.
func (r *Registry) Start(ctx context.Context, clientID string, filePath *string) (*Session, error) {
	s, err := r.Begin(clientID)
	if err != nil {
		return s, err
	}
	return s, r.Load(ctx, s, filePath)
}

// Load runs the generation call for a session returned by Begin.
func (r *Registry) Load(ctx context.Context, s *Session, filePath *string) error {
	return Load(ctx, s, r.gen, filePath)
}

// Discard stops and forgets the client's session.
func (r *Registry) Discard(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[clientID]; ok {
		s.Stop()
		delete(r.sessions, clientID)
		delete(r.touched, clientID)
	}
}

// Load performs the quiz-generation call for a loading session.
func Load(ctx context.Context, s *Session, gen remote.QuizGenerator, filePath *string) error {
	source := "no file (using fallback)"
	if filePath != nil {
		source = *filePath
	}
	log.Printf("[quiz] fetching quiz for: %s", source)

	questions, err := gen.GenerateQuiz(ctx, remote.QuizRequest{FilePath: filePath})
	if err != nil {
		log.Printf("[quiz] load failed: %v", err)
		s.Fail(err)
		return fmt.Errorf("generate quiz: %w", err)
	}
	if err := s.Initialize(questions); err != nil {
		log.Printf("[quiz] initialize failed: %v", err)
		return err
	}
	return nil
}
