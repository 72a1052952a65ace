// Package api provides HTTP handlers for the assessment API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rteja/assessly/internal/assess"
	"github.com/rteja/assessly/internal/evaluation"
	"github.com/rteja/assessly/internal/hybrid"
	"github.com/rteja/assessly/internal/question"
	"github.com/rteja/assessly/internal/session"
)

const maxTopicLength = 200

// Handler serves the assessment endpoints.
type Handler struct {
	sessions    session.Store
	questions   *question.Service
	evaluations *evaluation.Service
}

// NewHandler creates a Handler with its collaborators.
func NewHandler(sessions session.Store, questions *question.Service, evaluations *evaluation.Service) *Handler {
	return &Handler{
		sessions:    sessions,
		questions:   questions,
		evaluations: evaluations,
	}
}

type startSessionRequest struct {
	Topic             string `json:"topic"`
	InitialDifficulty string `json:"initial_difficulty"`
}

type startSessionResponse struct {
	SessionID         string            `json:"session_id"`
	Status            string            `json:"status"`
	Topic             string            `json:"topic"`
	InitialDifficulty assess.Difficulty `json:"initial_difficulty"`
}

// StartSession creates a new assessment session.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" || len(topic) > maxTopicLength {
		Error(w, http.StatusBadRequest, "topic must be 1-200 characters")
		return
	}
	difficulty, err := assess.ParseDifficulty(req.InitialDifficulty)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessions.Create(r.Context(), topic, difficulty)
	if err != nil {
		h.domainError(w, r, "create session", err)
		return
	}

	JSON(w, http.StatusCreated, startSessionResponse{
		SessionID:         sess.ID,
		Status:            "created",
		Topic:             sess.Topic,
		InitialDifficulty: sess.CurrentDifficulty,
	})
}

type questionResponse struct {
	QuestionID   string            `json:"question_id"`
	QuestionText string            `json:"question_text"`
	Difficulty   assess.Difficulty `json:"difficulty"`
}

// GetNextQuestion generates a question at the session's current difficulty.
// The question is retained in the store before it is returned, so that the
// answer can later be evaluated against the exact text that was asked.
func (h *Handler) GetNextQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if !validUUID(sessionID) {
		Error(w, http.StatusBadRequest, "session_id must be a valid UUID")
		return
	}

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.domainError(w, r, "get session", err)
		return
	}

	q, err := h.questions.Generate(r.Context(), sess.Topic, sess.CurrentDifficulty)
	if err != nil {
		h.domainError(w, r, "generate question", err)
		return
	}

	if err := h.sessions.PutQuestion(r.Context(), sessionID, *q); err != nil {
		h.domainError(w, r, "store question", err)
		return
	}

	JSON(w, http.StatusOK, questionResponse{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Difficulty:   q.Difficulty,
	})
}

type submitAnswerRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type submitAnswerResponse struct {
	Score         int               `json:"score"`
	IsCorrect     bool              `json:"is_correct"`
	FeedbackText  string            `json:"feedback_text"`
	NewDifficulty assess.Difficulty `json:"new_difficulty"`
}

// SubmitAnswer evaluates an answer and appends the result to the session's
// performance history. Evaluation fully completes before the session is
// touched: a failed evaluation leaves the history unchanged.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validUUID(req.SessionID) {
		Error(w, http.StatusBadRequest, "session_id must be a valid UUID")
		return
	}
	if !validUUID(req.QuestionID) {
		Error(w, http.StatusBadRequest, "question_id must be a valid UUID")
		return
	}
	if strings.TrimSpace(req.AnswerText) == "" {
		Error(w, http.StatusBadRequest, "answer_text must not be empty")
		return
	}

	sess, err := h.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		h.domainError(w, r, "get session", err)
		return
	}

	q, err := h.sessions.GetQuestion(r.Context(), req.SessionID, req.QuestionID)
	if err != nil {
		h.domainError(w, r, "get question", err)
		return
	}

	result, err := h.evaluations.Evaluate(r.Context(), q, req.AnswerText)
	if err != nil {
		h.domainError(w, r, "evaluate answer", err)
		return
	}

	// The record is tagged with the session's difficulty at submission
	// time; correctness is derived from the score.
	rec := assess.NewPerformanceRecord(q.ID, result.Score, sess.CurrentDifficulty, time.Now().UTC())
	updated, err := h.sessions.RecordAttempt(r.Context(), req.SessionID, rec)
	if err != nil {
		h.domainError(w, r, "record attempt", err)
		return
	}

	JSON(w, http.StatusOK, submitAnswerResponse{
		Score:         result.Score,
		IsCorrect:     result.IsCorrect,
		FeedbackText:  result.FeedbackText,
		NewDifficulty: updated.CurrentDifficulty,
	})
}

// GetSession returns the full session snapshot including its history.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := pathSessionID(r)
	if !validUUID(sessionID) {
		Error(w, http.StatusBadRequest, "session ID must be a valid UUID")
		return
	}

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.domainError(w, r, "get session", err)
		return
	}

	JSON(w, http.StatusOK, sess)
}

// domainError maps a domain failure onto a status code: unknown sessions or
// questions are the caller's fault, exhausted providers are a bad gateway,
// everything else is internal.
func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		sessNotFound *session.NotFoundError
		qNotFound    *session.QuestionNotFoundError
		genErr       *question.GenerationError
		evalErr      *evaluation.EvaluationError
		bothFailed   *hybrid.ErrBothProvidersFailed
	)

	switch {
	case errors.As(err, &sessNotFound), errors.As(err, &qNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.As(err, &genErr), errors.As(err, &evalErr), errors.As(err, &bothFailed):
		slog.ErrorContext(r.Context(), "providers unavailable", "op", op, "error", err)
		Error(w, http.StatusBadGateway, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "op", op, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
