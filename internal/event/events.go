// Package event defines the console's domain events. Handlers publish an
// event after the upstream confirms a write; consumers (logging, live
// view refresh) never see an event for a write that failed.
package event

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/calldesk/console/internal/types"
)

// Event is the canonical shape of every console event.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	LeadID     string          `json:"leadId,omitempty"`
	AgentID    string          `json:"agentId"`
	Summary    string          `json:"summary"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func newEvent(typ, leadID, agentID, summary string, payload any) Event {
	b, _ := json.Marshal(payload)
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		OccurredAt: time.Now(),
		LeadID:     leadID,
		AgentID:    agentID,
		Summary:    summary,
		Payload:    b,
	}
}

// LeadStatusChangedPayload carries the status transition details.
type LeadStatusChangedPayload struct {
	LeadID         string           `json:"leadId"`
	Status         types.LeadStatus `json:"status"`
	PassportNumber string           `json:"passportNumber,omitempty"`
}

func NewLeadStatusChanged(agentID string, p LeadStatusChangedPayload) Event {
	return newEvent("lead_status_changed", p.LeadID, agentID,
		fmt.Sprintf("Lead moved to %s", p.Status), p)
}

// PaymentRecordedPayload carries the confirmed payment.
type PaymentRecordedPayload struct {
	Payment types.Payment `json:"payment"`
}

func NewPaymentRecorded(agentID string, p PaymentRecordedPayload) Event {
	return newEvent("payment_recorded", p.Payment.LeadID, agentID,
		fmt.Sprintf("%s payment of %s via %s", p.Payment.Category, p.Payment.Amount, p.Payment.Mode), p)
}

// FormTransferredPayload carries a batch transfer to a staff head.
type FormTransferredPayload struct {
	LeadIDs       []string `json:"leadIds"`
	TransferredTo string   `json:"transferredTo"`
}

func NewFormTransferred(agentID string, p FormTransferredPayload) Event {
	leadID := ""
	if len(p.LeadIDs) == 1 {
		leadID = p.LeadIDs[0]
	}
	return newEvent("form_transferred", leadID, agentID,
		fmt.Sprintf("%d form(s) transferred to staff %s", len(p.LeadIDs), p.TransferredTo), p)
}

// InterviewAppliedPayload carries an interview application.
type InterviewAppliedPayload struct {
	LeadID             string `json:"leadId"`
	InterviewManagerID string `json:"interviewManagerId"`
}

func NewInterviewApplied(agentID string, p InterviewAppliedPayload) Event {
	return newEvent("interview_applied", p.LeadID, agentID,
		fmt.Sprintf("Interview applied with manager %s", p.InterviewManagerID), p)
}

// DispatchMarkedPayload carries a flipped send flag.
type DispatchMarkedPayload struct {
	FormID string `json:"formId"`
	Kind   string `json:"kind"` // "confirmation", "cancel", "agreement"
}

func NewDispatchMarked(agentID string, p DispatchMarkedPayload) Event {
	return newEvent("dispatch_marked", "", agentID,
		fmt.Sprintf("Form %s marked for %s", p.FormID, p.Kind), p)
}

// NoteAddedPayload carries a new reminder note.
type NoteAddedPayload struct {
	Note types.Note `json:"note"`
}

func NewNoteAdded(agentID string, p NoteAddedPayload) Event {
	return newEvent("note_added", p.Note.LeadID, agentID, "Reminder note added", p)
}
