package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/interview-prep/backend/internal/models"
	"github.com/interview-prep/backend/internal/render"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	source Source
	editor Editor
}

// NewHandler serves reads from source. Paging, single-question lookups and
// edits are only available when source also implements Editor.
func NewHandler(source Source) *Handler {
	h := &Handler{source: source}
	if ed, ok := source.(Editor); ok {
		h.editor = ed
	}
	return h
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/questions", h.ListQuestions).Methods("GET")
	api.HandleFunc("/questions", h.CreateQuestion).Methods("POST")
	api.HandleFunc("/questions/page", h.ListQuestionsPage).Methods("GET")
	api.HandleFunc("/questions/{id:[0-9]+}", h.GetQuestion).Methods("GET")
	api.HandleFunc("/questions/{id:[0-9]+}", h.UpdateQuestion).Methods("PUT")
	api.HandleFunc("/questions/{id:[0-9]+}", h.DeleteQuestion).Methods("DELETE")
	api.HandleFunc("/categories", h.ListCategories).Methods("GET")
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.source.ListQuestions(r.Context())
	if err != nil {
		writeSourceError(w, "Failed to list questions", err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) ListQuestionsPage(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w) {
		return
	}

	query := r.URL.Query()
	page := intQueryParam(query, "page", 0)
	size := intQueryParam(query, "size", 10)

	var categoryIDs []int64
	for _, raw := range query["categoryIds"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid category ID"})
			return
		}
		categoryIDs = append(categoryIDs, id)
	}

	result, err := h.editor.ListQuestionsPage(r.Context(), page, size, categoryIDs)
	if err != nil {
		writeSourceError(w, "Failed to list questions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	question, err := h.editor.GetQuestion(r.Context(), id)
	if err != nil {
		writeSourceError(w, "Failed to get question", err)
		return
	}

	if r.URL.Query().Get("render") == "html" {
		rendered, err := render.Question(*question)
		if err != nil {
			log.Error().Err(err).Int64("question_id", id).Msg("render question markdown")
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to render question"})
			return
		}
		writeJSON(w, http.StatusOK, rendered)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w) {
		return
	}
	q, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	created, err := h.editor.CreateQuestion(r.Context(), q)
	if err != nil {
		writeSourceError(w, "Failed to create question", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	updated, err := h.editor.UpdateQuestion(r.Context(), id, q)
	if err != nil {
		writeSourceError(w, "Failed to update question", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.editor.DeleteQuestion(r.Context(), id); err != nil {
		writeSourceError(w, "Failed to delete question", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.source.ListCategories(r.Context())
	if err != nil {
		writeSourceError(w, "Failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) requireEditor(w http.ResponseWriter) bool {
	if h.editor == nil {
		writeJSON(w, http.StatusNotImplemented, models.ErrorResponse{Error: "Not supported by the configured question source"})
		return false
	}
	return true
}

// decodeQuestion reads a question body and checks the fields the question
// form marks as required.
func decodeQuestion(w http.ResponseWriter, r *http.Request) (models.Question, bool) {
	var q models.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return q, false
	}

	switch {
	case q.Title == "":
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title is required"})
	case q.Content == "":
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "content is required"})
	case q.ExampleAnswer == "":
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "exampleAnswer is required"})
	case q.DetailedContent == "":
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "detailedContent is required"})
	default:
		return q, true
	}
	return q, false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return 0, false
	}
	return id, true
}

func writeSourceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidPage), errors.Is(err, ErrInvalidPageSize):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Msg(msg)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: msg})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
