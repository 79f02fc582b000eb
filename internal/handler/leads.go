package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/event"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/types"
)

// LeadHandler serves the Leads and PassportHolder views.
type LeadHandler struct {
	backend *backend.Client
	bus     *eventbus.Bus
}

func NewLeadHandler(b *backend.Client, bus *eventbus.Bus) *LeadHandler {
	return &LeadHandler{backend: b, bus: bus}
}

// List returns one page of the agent's assigned leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	page, err := h.backend.AssignedLeads(r.Context(), sess.AgentID, parseListQuery(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PassportHolders returns passport-holder leads still awaiting a form.
func (h *LeadHandler) PassportHolders(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	page, err := h.backend.PassportHolderLeads(r.Context(), sess.AgentID, parseListQuery(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UpdateStatus records a call outcome against a lead.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	var req struct {
		Status         types.LeadStatus `json:"status"`
		PassportNumber string           `json:"passportNumber"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid status body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown lead status")
		return
	}
	if req.Status == types.StatusPassportHolder && req.PassportNumber == "" {
		writeError(w, http.StatusBadRequest, "PASSPORT_REQUIRED",
			`Passport number is required when status is "Passport Holder"`)
		return
	}

	if err := h.backend.UpdateLeadStatus(r.Context(), leadID, req.Status, req.PassportNumber); err != nil {
		errorToHTTP(w, err)
		return
	}

	sess := SessionFrom(r.Context())
	h.bus.Publish(r.Context(), event.NewLeadStatusChanged(sess.AgentID, event.LeadStatusChangedPayload{
		LeadID:         leadID,
		Status:         req.Status,
		PassportNumber: req.PassportNumber,
	}))
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// Get returns a single lead.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.backend.Lead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}
