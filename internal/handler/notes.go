package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/event"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/types"
)

// NoteHandler serves reminder notes on leads.
type NoteHandler struct {
	backend *backend.Client
	bus     *eventbus.Bus
}

func NewNoteHandler(b *backend.Client, bus *eventbus.Bus) *NoteHandler {
	return &NoteHandler{backend: b, bus: bus}
}

// List returns the agent's notes on a lead.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	notes, err := h.backend.NotesForLead(r.Context(), chi.URLParam(r, "leadID"), sess.AgentID)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Create stores a reminder note against a lead.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var note types.Note
	if err := decodeJSON(r, &note); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid note body")
		return
	}
	if note.Message == "" {
		writeError(w, http.StatusBadRequest, "MISSING_MESSAGE", "message is required")
		return
	}

	sess := SessionFrom(r.Context())
	note.LeadID = chi.URLParam(r, "leadID")
	note.AgentID = sess.AgentID
	if err := h.backend.AddNote(r.Context(), &note); err != nil {
		errorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewNoteAdded(sess.AgentID, event.NoteAddedPayload{Note: note}))
	writeJSON(w, http.StatusCreated, note)
}
