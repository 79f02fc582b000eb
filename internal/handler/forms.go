package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/event"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/types"
)

// FormHandler serves the FilledForm and MarkConfirmation views plus the
// client form itself.
type FormHandler struct {
	backend *backend.Client
	bus     *eventbus.Bus
}

func NewFormHandler(b *backend.Client, bus *eventbus.Bus) *FormHandler {
	return &FormHandler{backend: b, bus: bus}
}

// List returns one page of the agent's filled forms.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	page, err := h.backend.FilledForms(r.Context(), sess.AgentID, parseListQuery(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// DispatchQueue returns forms awaiting confirmation/cancel/agreement
// dispatch.
func (h *FormHandler) DispatchQueue(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	page, err := h.backend.FormsAwaitingDispatch(r.Context(), sess.AgentID, parseListQuery(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetByLead returns the form filled against a lead.
func (h *FormHandler) GetByLead(w http.ResponseWriter, r *http.Request) {
	form, err := h.backend.FormByLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Create submits a freshly filled client form for a lead.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form types.FilledForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid form body")
		return
	}
	form.LeadID = chi.URLParam(r, "leadID")
	if form.FullName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "fullName is required")
		return
	}
	if err := h.backend.CreateForm(r.Context(), &form); err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// Update applies a partial form update.
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid patch body")
		return
	}
	if err := h.backend.UpdateForm(r.Context(), chi.URLParam(r, "formID"), patch); err != nil {
		errorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transfer hands selected leads' forms to a staff head.
func (h *FormHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadIDs       []string `json:"leadIds"`
		TransferredTo string   `json:"transferredTo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid transfer body")
		return
	}
	if len(req.LeadIDs) == 0 || req.TransferredTo == "" {
		writeError(w, http.StatusBadRequest, "INVALID_TRANSFER", "leadIds and transferredTo are required")
		return
	}

	sess := SessionFrom(r.Context())
	if err := h.backend.Transfer(r.Context(), req.LeadIDs, sess.AgentID, req.TransferredTo); err != nil {
		errorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewFormTransferred(sess.AgentID, event.FormTransferredPayload{
		LeadIDs:       req.LeadIDs,
		TransferredTo: req.TransferredTo,
	}))
	w.WriteHeader(http.StatusNoContent)
}

// ApplyInterview queues a lead's form with an interview manager.
func (h *FormHandler) ApplyInterview(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	var req struct {
		InterviewManagerID string `json:"interviewManagerId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid interview body")
		return
	}
	if req.InterviewManagerID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_MANAGER", "interviewManagerId is required")
		return
	}

	sess := SessionFrom(r.Context())
	if err := h.backend.ApplyInterview(r.Context(), leadID, req.InterviewManagerID, sess.AgentID); err != nil {
		errorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewInterviewApplied(sess.AgentID, event.InterviewAppliedPayload{
		LeadID:             leadID,
		InterviewManagerID: req.InterviewManagerID,
	}))
	w.WriteHeader(http.StatusNoContent)
}

// MarkDispatch flips one of the form's monotonic send flags.
func (h *FormHandler) MarkDispatch(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	kind := backend.DispatchKind(chi.URLParam(r, "kind"))

	if err := h.backend.MarkDispatch(r.Context(), formID, kind); err != nil {
		switch kind {
		case backend.DispatchConfirmation, backend.DispatchCancel, backend.DispatchAgreement:
			errorToHTTP(w, err)
		default:
			writeError(w, http.StatusBadRequest, "INVALID_DISPATCH", "unknown dispatch kind")
		}
		return
	}

	sess := SessionFrom(r.Context())
	h.bus.Publish(r.Context(), event.NewDispatchMarked(sess.AgentID, event.DispatchMarkedPayload{
		FormID: formID,
		Kind:   string(kind),
	}))
	w.WriteHeader(http.StatusNoContent)
}

// Countries lists the job countries for the client form.
func (h *FormHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.backend.Countries(r.Context())
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// Jobs lists the open jobs in one country.
func (h *FormHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.backend.JobsByCountry(r.Context(), chi.URLParam(r, "countryID"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// StaffHeads lists transfer targets.
func (h *FormHandler) StaffHeads(w http.ResponseWriter, r *http.Request) {
	heads, err := h.backend.StaffHeads(r.Context())
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heads)
}

// InterviewManagers lists interview managers.
func (h *FormHandler) InterviewManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.backend.InterviewManagers(r.Context())
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, managers)
}
