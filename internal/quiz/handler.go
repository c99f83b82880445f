package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interview-prep/backend/internal/models"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the quiz session endpoints on api.
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/quiz/sessions", h.CreateSession).Methods("POST")
	api.HandleFunc("/quiz/sessions/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/quiz/sessions/{id}", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/quiz/sessions/{id}/answers", h.SubmitAnswer).Methods("POST")
	api.HandleFunc("/quiz/sessions/{id}/reset", h.ResetSession).Methods("POST")
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	id, engine := h.registry.Create()
	snap, err := engine.Start(r.Context(), req.CategoryIDs)
	if err != nil {
		h.registry.Delete(id)
		writeError(w, err)
		return
	}

	snap.ID = id
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	snap := engine.Snapshot()
	snap.ID = id
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	snap, err := engine.SubmitAnswer(req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("wait") == "true" && snap.State == models.StateEvaluating {
		snap, err = engine.Wait(r.Context())
		if err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("client stopped waiting for evaluation")
		}
	}

	snap.ID = id
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	snap := engine.Reset()
	snap.ID = id
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Delete(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (string, *Engine, bool) {
	id := mux.Vars(r)["id"]
	engine, ok := h.registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return "", nil, false
	}
	return id, engine, true
}

func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *ValidationError
		stateErr      *InvalidStateError
		dataErr       *SessionDataError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &dataErr):
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to load questions: " + dataErr.Err.Error()})
	default:
		log.Error().Err(err).Msg("quiz handler error")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
