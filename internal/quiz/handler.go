package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/study-sprint/planner/internal/auth"
	"github.com/study-sprint/planner/internal/handoff"
	"github.com/study-sprint/planner/internal/models"
	"github.com/study-sprint/planner/internal/stream"
)

// MessageType tags quiz views pushed over the stream.
const MessageType = "quiz"

type Handler struct {
	registry    *Registry
	paths       handoff.Store
	hub         *stream.Hub
	upgrader    *websocket.Upgrader
	loadTimeout time.Duration
}

func NewHandler(registry *Registry, paths handoff.Store, hub *stream.Hub, upgrader *websocket.Upgrader, loadTimeout time.Duration) *Handler {
	if loadTimeout <= 0 {
		loadTimeout = 2 * time.Minute
	}
	return &Handler{registry: registry, paths: paths, hub: hub, upgrader: upgrader, loadTimeout: loadTimeout}
}

// Start loads a new quiz for the stored syllabus, replacing any current one.
// The load runs in the background and the loading view is returned at once,
// unless ?wait=true asks for the finished view.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r.Context())

	path, err := handoff.Lookup(r.Context(), h.paths, clientID)
	if err != nil {
		log.Printf("[quiz] could not read syllabus path for %s, using fallback: %v", clientID, err)
		path = nil
	}

	s, err := h.registry.Begin(clientID)
	if err != nil {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Quiz is already loading"})
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), h.loadTimeout)
		defer cancel()
		h.registry.Load(ctx, s, path)
		v := s.View()
		status := http.StatusOK
		if v.State == StateFailed {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, v)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.loadTimeout)
		defer cancel()
		h.registry.Load(ctx, s, path)
	}()
	writeJSON(w, http.StatusAccepted, s.View())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req models.SelectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.SelectOption(req.Question, req.Option); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req models.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Navigate(req.Delta); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) Jump(w http.ResponseWriter, r *http.Request) {
	var req models.JumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.JumpTo(req.Index); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Submit(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Stream pushes the quiz view to the browser on every change, including
// each countdown tick.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r.Context())
	err := h.hub.Serve(h.upgrader, w, r, clientID, func() {
		if s, ok := h.registry.Get(clientID); ok {
			h.hub.Send(clientID, MessageType, s.View())
		}
	})
	if err != nil {
		log.Printf("[quiz] stream upgrade failed: %v", err)
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := h.registry.Get(auth.ClientID(r.Context()))
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No quiz started"})
		return nil, false
	}
	return s, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotInProgress):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Quiz is not in progress"})
	case errors.Is(err, ErrBadQuestion), errors.Is(err, ErrBadOption), errors.Is(err, ErrBadDelta):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[quiz] unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
