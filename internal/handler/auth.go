package handler

import (
	"net/http"

	"github.com/calldesk/console/internal/session"
)

// AuthHandler mints and destroys console sessions. Credential checks are
// the upstream identity provider's job; by the time the browser reaches
// the gateway it already knows which agent it is acting for.
type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login creates a session for an agent and returns its token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID   string `json:"agentId"`
		AgentName string `json:"agentName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid login body")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_AGENT", "agentId is required")
		return
	}
	sess := h.sessions.Login(req.AgentID, req.AgentName)
	writeJSON(w, http.StatusCreated, sess)
}

// Logout destroys the calling session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	h.sessions.Logout(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}
