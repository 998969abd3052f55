package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/study-sprint/planner/internal/handoff"
	"github.com/study-sprint/planner/internal/remote"
	"github.com/study-sprint/planner/internal/upload"
)

var (
	ErrNoFile         = errors.New("no syllabus selected")
	ErrBusy           = errors.New("study plan generation already in progress")
	ErrGenerateFailed = errors.New("failed to generate study plan")
	ErrNoBoard        = errors.New("no study plan generated yet")
)

// Form is one client's upload/date-picker state plus the last rendered board.
// The selected file is held only until it is uploaded; after that the stored
// path stands in for it.
type Form struct {
	file     *upload.File
	uploaded string
	days     *int
	busy     bool
	board    *Board
	touched  time.Time
}

// Service drives the planning form: select a file, pick an exam date, then
// upload and analyze.
type Service struct {
	mu       sync.Mutex
	forms    map[string]*Form
	uploader *upload.Uploader
	analyzer remote.SyllabusAnalyzer
	handoff  handoff.Store
	now      func() time.Time
	maxBytes int64
}

func NewService(uploader *upload.Uploader, analyzer remote.SyllabusAnalyzer, store handoff.Store) *Service {
	return &Service{
		forms:    make(map[string]*Form),
		uploader: uploader,
		analyzer: analyzer,
		handoff:  store,
		now:      time.Now,
		maxBytes: upload.DefaultMaxBytes,
	}
}

// SetClock replaces the time source used for exam-date validation and
// idle tracking.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) formLocked(clientID string) *Form {
	f, ok := s.forms[clientID]
	if !ok {
		f = &Form{}
		s.forms[clientID] = f
	}
	f.touched = s.now()
	return f
}

// Sweep forgets forms untouched for longer than maxIdle. Forms with a
// generation in flight are kept. It returns how many were removed.
func (s *Service) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, f := range s.forms {
		if !f.busy && f.touched.Before(cutoff) {
			delete(s.forms, id)
			n++
		}
	}
	return n
}

// Forms reports how many clients have form state.
func (s *Service) Forms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("[plan-sweeper] Idle form sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[plan-sweeper] Shutting down")
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Printf("[plan-sweeper] removed %d idle forms", n)
			}
		}
	}
}

// SelectFile validates and holds the chosen syllabus until Generate. An
// invalid file clears any earlier selection.
func (s *Service) SelectFile(clientID, name, contentType string, r io.Reader) (*upload.File, error) {
	if err := upload.Validate(name, contentType); err != nil {
		s.mu.Lock()
		form := s.formLocked(clientID)
		form.file = nil
		form.uploaded = ""
		s.mu.Unlock()
		return nil, err
	}
	f, err := upload.Read(name, contentType, r, s.maxBytes)
	if err != nil {
		s.mu.Lock()
		form := s.formLocked(clientID)
		form.file = nil
		form.uploaded = ""
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	form := s.formLocked(clientID)
	form.file = f
	form.uploaded = ""
	s.mu.Unlock()
	return f, nil
}

// SetExamDate validates the date and records the day count. An invalid date
// clears the count.
func (s *Service) SetExamDate(clientID, date string) (int, error) {
	days, err := DaysUntil(date, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	form := s.formLocked(clientID)
	if err != nil {
		form.days = nil
		return 0, err
	}
	form.days = &days
	return days, nil
}

// Generate uploads the selected file, stores its path for the quiz flow, and
// renders the analyzed plan. A second call while one is running gets ErrBusy.
// Once uploaded the file bytes are dropped; a retry reuses the stored path.
func (s *Service) Generate(ctx context.Context, clientID string) (*Board, error) {
	s.mu.Lock()
	form := s.formLocked(clientID)
	switch {
	case form.file == nil && form.uploaded == "":
		s.mu.Unlock()
		return nil, ErrNoFile
	case form.days == nil || *form.days <= 0:
		s.mu.Unlock()
		return nil, ErrExamDateMissing
	case form.busy:
		s.mu.Unlock()
		return nil, ErrBusy
	}
	form.busy = true
	file, path, days := form.file, form.uploaded, *form.days
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		form.busy = false
		s.mu.Unlock()
	}()

	if path == "" {
		log.Printf("[plan] uploading %s", file.Name)
		var err error
		path, err = s.uploader.Upload(ctx, file)
		if err != nil {
			log.Printf("[plan] upload failed: %v", err)
			return nil, fmt.Errorf("%w: upload: %v", ErrGenerateFailed, err)
		}
		log.Printf("[plan] file uploaded, path: %s", path)

		s.mu.Lock()
		if form.file == file {
			form.file = nil
			form.uploaded = path
		}
		s.mu.Unlock()
	}

	if err := s.handoff.Set(ctx, clientID, path); err != nil {
		log.Printf("[plan] WARNING: could not persist syllabus path: %v", err)
	}

	topics, err := s.analyzer.AnalyzeSyllabus(ctx, remote.AnalyzeRequest{FilePath: path, Days: days})
	if err != nil {
		log.Printf("[plan] analysis failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}

	board, err := Render(topics, days)
	if err != nil {
		log.Printf("[plan] render failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}

	s.mu.Lock()
	form.board = board
	s.mu.Unlock()
	return board, nil
}

// Board returns the client's last rendered plan.
func (s *Service) Board(clientID string) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[clientID]
	if !ok || f.board == nil {
		return nil, ErrNoBoard
	}
	f.touched = s.now()
	return f.board, nil
}

// Message maps form errors to the text shown in the error banner.
func Message(err error) string {
	switch {
	case errors.Is(err, upload.ErrNotPDF):
		return "Please upload PDF files only"
	case errors.Is(err, upload.ErrEmpty):
		return "The selected file is empty"
	case errors.Is(err, upload.ErrTooLarge):
		return "The selected file is too large"
	case errors.Is(err, ErrNoFile):
		return "Please upload a syllabus PDF"
	case errors.Is(err, ErrExamDateNotFuture):
		return "Please select a future date"
	case errors.Is(err, ErrExamDateMissing):
		return "Please select a valid exam date"
	case errors.Is(err, ErrBusy):
		return "Your study plan is already being generated"
	case errors.Is(err, ErrGenerateFailed):
		return "Failed to generate study plan. Check console for details."
	case errors.Is(err, ErrNoBoard):
		return "Generate a study plan first"
	case errors.Is(err, ErrBadRow):
		return "Unknown topic"
	case errors.Is(err, ErrBadTab):
		return "Unknown tab"
	default:
		return "Something went wrong"
	}
}
