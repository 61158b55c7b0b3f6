package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/messagely/messagely/internal/auth/middleware"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/logger"
	"github.com/messagely/messagely/internal/message/domain"
	"github.com/messagely/messagely/internal/message/service"
)

type sendRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type messageResponse struct {
	ID           string     `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

type readResponse struct {
	ID     string     `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}

// Handler serves the /messages subtree: send, fetch one, mark read.
type Handler struct {
	messages *service.MessageService
	guard    *middleware.Guard
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(messages *service.MessageService, guard *middleware.Guard, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{messages: messages, guard: guard, timeout: timeout, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/messages",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(h.timeout)(h.guard.EnsureAuthenticated(h.send))))
	mux.HandleFunc("/messages/",
		commonhttp.WithTimeout(h.timeout)(h.guard.EnsureAuthenticated(h.messageSubtree)))
}

func (h *Handler) messageSubtree(w http.ResponseWriter, r *http.Request) {
	remaining := strings.TrimPrefix(r.URL.Path, "/messages/")
	parts := strings.Split(remaining, "/")

	switch {
	case len(parts) == 1 && parts[0] != "" && r.Method == http.MethodGet:
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "read" && r.Method == http.MethodPost:
		h.markRead(w, r, parts[0])
	case len(parts) == 1 || (len(parts) == 2 && parts[1] == "read"):
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path", nil, "")
	}
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req sendRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("send failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	msg, err := h.messages.Send(r.Context(), claims.Username, req.ToUsername, req.Body)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{"message": toMessageResponse(msg)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	msg, err := h.messages.Get(r.Context(), id, claims.Username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"message": toMessageResponse(msg)})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	msg, err := h.messages.MarkRead(r.Context(), id, claims.Username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"message": readResponse{
		ID:     msg.ID,
		ReadAt: msg.ReadAt,
	}})
}

func toMessageResponse(msg domain.Message) messageResponse {
	return messageResponse{
		ID:           msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt,
		ReadAt:       msg.ReadAt,
	}
}
