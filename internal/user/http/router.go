package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/messagely/messagely/internal/auth/middleware"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/logger"
	messagerepo "github.com/messagely/messagely/internal/message/repository"
	"github.com/messagely/messagely/internal/user/domain"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

type userSummaryResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type userProfileResponse struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type inboundMessageResponse struct {
	ID       string              `json:"id"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
	FromUser userSummaryResponse `json:"from_user"`
}

type outboundMessageResponse struct {
	ID     string              `json:"id"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
	ReadAt *time.Time          `json:"read_at"`
	ToUser userSummaryResponse `json:"to_user"`
}

// Handler serves the /users subtree: the directory listing, a user's own
// profile and their inbound/outbound message lists.
type Handler struct {
	users    userrepo.Repository
	messages messagerepo.Repository
	guard    *middleware.Guard
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(
	users userrepo.Repository,
	messages messagerepo.Repository,
	guard *middleware.Guard,
	timeout time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		users:    users,
		messages: messages,
		guard:    guard,
		timeout:  timeout,
		log:      log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	correctUser := h.guard.EnsureCorrectUser(UsernameFromPath)

	mux.HandleFunc("/users",
		commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(h.timeout)(h.guard.EnsureAuthenticated(h.listUsers))))
	mux.HandleFunc("/users/",
		commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(h.timeout)(correctUser(h.userSubtree))))
}

// UsernameFromPath extracts the {username} segment of /users/{username}[/...].
func UsernameFromPath(r *http.Request) string {
	remaining := strings.TrimPrefix(r.URL.Path, "/users/")
	if remaining == r.URL.Path {
		return ""
	}
	if idx := strings.Index(remaining, "/"); idx != -1 {
		remaining = remaining[:idx]
	}
	return remaining
}

func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	username := UsernameFromPath(r)
	rest := strings.TrimPrefix(r.URL.Path, "/users/"+username)

	switch rest {
	case "", "/":
		h.getUser(w, r, username)
	case "/to":
		h.messagesTo(w, r, username)
	case "/from":
		h.messagesFrom(w, r, username)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path", nil, "")
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListAll(ctx)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toSummaryResponse(u))
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"users": resp})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	profile := user.Profile()
	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"user": userProfileResponse{
		Username:    profile.Username,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Phone:       profile.Phone,
		JoinAt:      profile.JoinAt,
		LastLoginAt: profile.LastLoginAt,
	}})
}

func (h *Handler) messagesTo(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()

	envelopes, err := h.messages.ListTo(ctx, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]inboundMessageResponse, 0, len(envelopes))
	for _, e := range envelopes {
		resp = append(resp, inboundMessageResponse{
			ID:       e.ID,
			Body:     e.Body,
			SentAt:   e.SentAt,
			ReadAt:   e.ReadAt,
			FromUser: toSummaryResponse(e.Party),
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"messages": resp})
}

func (h *Handler) messagesFrom(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()

	envelopes, err := h.messages.ListFrom(ctx, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]outboundMessageResponse, 0, len(envelopes))
	for _, e := range envelopes {
		resp = append(resp, outboundMessageResponse{
			ID:     e.ID,
			Body:   e.Body,
			SentAt: e.SentAt,
			ReadAt: e.ReadAt,
			ToUser: toSummaryResponse(e.Party),
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"messages": resp})
}

func toSummaryResponse(u domain.Summary) userSummaryResponse {
	return userSummaryResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
