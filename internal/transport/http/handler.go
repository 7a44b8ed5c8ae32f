package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-reply-service/internal/app"
	"quiz-reply-service/internal/domain"
)

// Handler exposes the chat service over plain JSON requests, one turn per request.
type Handler struct {
	service *app.ChatService
}

func NewHandler(service *app.ChatService) *Handler {
	return &Handler{service: service}
}

// Register mounts the session routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.resetSession)
		r.Post("/messages", h.postMessage)
	})
}

type messageRequest struct {
	Message string `json:"message"`
}

type replyResponse struct {
	SessionID string   `json:"sessionId"`
	Responses []string `json:"responses"`
	Status    string   `json:"status"`
	Error     string   `json:"error,omitempty"`
}

type sessionResponse struct {
	SessionID         string         `json:"sessionId"`
	CurrentQuestionID *int           `json:"currentQuestionId,omitempty"`
	Answers           map[int]string `json:"answers,omitempty"`
	Status            string         `json:"status"`
	Summary           string         `json:"summary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid message payload"})
		return
	}

	reply, err := h.service.Reply(r.Context(), sessionID, req.Message)
	if err != nil {
		log.Printf("reply session %s: %v", sessionID, err)
		writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toReplyResponse(reply))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	view, err := h.service.Status(r.Context(), sessionID)
	if err != nil {
		log.Printf("status session %s: %v", sessionID, err)
		writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:         view.SessionID,
		CurrentQuestionID: view.CurrentQuestionID,
		Answers:           view.Answers,
		Status:            string(view.Status),
		Summary:           view.Summary,
	})
}

func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.Reset(r.Context(), sessionID); err != nil {
		log.Printf("reset session %s: %v", sessionID, err)
		writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toReplyResponse(reply app.Reply) replyResponse {
	return replyResponse{
		SessionID: reply.SessionID,
		Responses: reply.Responses,
		Status:    string(reply.Status),
		Error:     errorCode(reply.Err),
	}
}

// errorCode names the reply error kinds for clients.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidAnswer):
		return "invalid_answer"
	case errors.Is(err, domain.ErrInvalidQuestion):
		return "invalid_question"
	default:
		return "error"
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
