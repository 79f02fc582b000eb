package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/event"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/ledger"
	"github.com/calldesk/console/internal/types"
)

// PaymentHandler serves the payment book: the reconciled summary, the
// history table, and new payment submission.
type PaymentHandler struct {
	backend *backend.Client
	bus     *eventbus.Bus
}

func NewPaymentHandler(b *backend.Client, bus *eventbus.Bus) *PaymentHandler {
	return &PaymentHandler{backend: b, bus: bus}
}

// bookResponse is what the payment book view renders from.
type bookResponse struct {
	Summary  ledger.Summary  `json:"summary"`
	Payments []types.Payment `json:"payments"`
}

// Book returns the reconciled payment book for a lead.
func (h *PaymentHandler) Book(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	book := ledger.NewBook(h.backend, chi.URLParam(r, "leadID"), sess.AgentID)
	if err := book.Refresh(r.Context()); err != nil {
		errorToHTTP(w, err)
		return
	}
	summary, _ := book.Summary()
	writeJSON(w, http.StatusOK, bookResponse{Summary: summary, Payments: book.Payments()})
}

// Submit validates and records a payment, then returns the book rebuilt
// from a fresh fetch so the browser never renders a stale summary.
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	var req struct {
		Category types.PaymentCategory `json:"paymentFor"`
		Amount   types.Paise           `json:"amount"`
		Mode     types.PaymentMode     `json:"modeOfPayment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid payment body")
		return
	}

	sess := SessionFrom(r.Context())
	book := ledger.NewBook(h.backend, leadID, sess.AgentID)
	if err := book.Refresh(r.Context()); err != nil {
		errorToHTTP(w, err)
		return
	}

	created, err := book.SubmitPayment(r.Context(), req.Category, req.Amount, req.Mode)
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewPaymentRecorded(sess.AgentID, event.PaymentRecordedPayload{
		Payment: *created,
	}))

	summary, _ := book.Summary()
	writeJSON(w, http.StatusCreated, struct {
		Created *types.Payment `json:"created"`
		bookResponse
	}{created, bookResponse{Summary: summary, Payments: book.Payments()}})
}
