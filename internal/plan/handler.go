package plan

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/study-sprint/planner/internal/auth"
	"github.com/study-sprint/planner/internal/models"
	"github.com/study-sprint/planner/internal/upload"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SelectFile takes the multipart "file" field.
func (h *Handler) SelectFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.DefaultMaxBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: Message(ErrNoFile)})
		return
	}
	defer file.Close()

	f, err := h.service.SelectFile(auth.ClientID(r.Context()), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.FileSelectedResponse{FileName: f.Name, Subtext: "Click to change file"})
}

func (h *Handler) SetExamDate(w http.ResponseWriter, r *http.Request) {
	var req models.ExamDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	days, err := h.service.SetExamDate(auth.ClientID(r.Context()), req.Date)
	if err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ExamDateResponse{DaysUntilExam: days, Text: DaysText(days)})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Generate(r.Context(), auth.ClientID(r.Context()))
	if err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board.View())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(auth.ClientID(r.Context()))
	if err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board.View())
}

func (h *Handler) ToggleTopic(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(mux.Vars(r)["row"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid topic row"})
		return
	}
	var req models.ToggleTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	board, err := h.service.Board(auth.ClientID(r.Context()))
	if err != nil {
		writeFormError(w, err)
		return
	}
	if err := board.ToggleComplete(row, req.Checked); err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board.View())
}

func (h *Handler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	var req models.SwitchTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	board, err := h.service.Board(auth.ClientID(r.Context()))
	if err != nil {
		writeFormError(w, err)
		return
	}
	if err := board.SwitchTab(req.Name); err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board.View())
}

func writeFormError(w http.ResponseWriter, err error) {
	resp := models.ErrorResponse{Error: Message(err)}
	switch {
	case errors.Is(err, ErrGenerateFailed):
		resp.Detail = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.Is(err, ErrBusy):
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, ErrNoBoard):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, upload.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, resp)
	case errors.Is(err, upload.ErrNotPDF), errors.Is(err, upload.ErrEmpty),
		errors.Is(err, ErrNoFile), errors.Is(err, ErrExamDateMissing), errors.Is(err, ErrExamDateNotFuture):
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, ErrBadRow), errors.Is(err, ErrBadTab):
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		log.Printf("[plan] unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
