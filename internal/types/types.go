// Package types holds the domain model shared across the console: leads,
// filled client forms, payments, and the references that tie them to agents.
// Field tags follow the upstream CRM's JSON shapes.
package types

import (
	"time"

	json "github.com/goccy/go-json"
)

// LeadStatus is the calling-team disposition of a lead.
type LeadStatus string

const (
	StatusInterested     LeadStatus = "Interested"
	StatusNotInterested  LeadStatus = "Not Interested"
	StatusPassportHolder LeadStatus = "Passport Holder"
	StatusClient         LeadStatus = "Client"
	StatusAgent          LeadStatus = "Agent"
)

// LeadStatuses lists every assignable status, in display order.
var LeadStatuses = []LeadStatus{
	StatusInterested,
	StatusNotInterested,
	StatusPassportHolder,
	StatusClient,
	StatusAgent,
}

// Valid reports whether s is one of the assignable statuses.
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead is an assigned contact the calling team works through.
// Leads are never deleted on this side; only status and the form-filled
// flag change.
type Lead struct {
	ID             string     `json:"_id"`
	Phone          string     `json:"phone"`
	Status         LeadStatus `json:"status,omitempty"`
	PassportNumber string     `json:"passportNumber,omitempty"`
	ZoneID         string     `json:"zone,omitempty"`
	AssignedBy     string     `json:"assignedBy,omitempty"`
	AssignedDate   *time.Time `json:"assignedDate,omitempty"`
	FormFilled     bool       `json:"formFilled"`
}

// InterviewStatus tracks a form through the interview pipeline.
type InterviewStatus string

const (
	InterviewNotApplied InterviewStatus = "Not Applied"
	InterviewApplied    InterviewStatus = "Applied"
	InterviewPass       InterviewStatus = "Pass"
	InterviewFail       InterviewStatus = "Fail"
	InterviewPending    InterviewStatus = "Pending"
)

// OfficeConfirmation is the office's sign-off on a filled form. It is
// absent until the office confirms, so it is carried as a pointer; the
// charge totals inside it drive the payment book.
type OfficeConfirmation struct {
	ServiceCharge Paise      `json:"ServiceCharge"`
	MedicalCharge Paise      `json:"MedicalCharge"`
	ConfirmedBy   string     `json:"confirmedBy,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmedAt,omitempty"`
}

// FilledForm is the client registration form filled against a lead.
// The sent-for-* flags only ever move false→true.
type FilledForm struct {
	ID                 string              `json:"_id"`
	LeadID             string              `json:"leadId"`
	FullName           string              `json:"fullName"`
	ContactNo          string              `json:"contactNo,omitempty"`
	Email              string              `json:"email,omitempty"`
	Address            string              `json:"address,omitempty"`
	PassportNumber     string              `json:"passportNumber,omitempty"`
	PassportExpiry     *time.Time          `json:"passportExpiry,omitempty"`
	JobCountry         string              `json:"jobCountry,omitempty"`
	JobTitle           string              `json:"jobTitle,omitempty"`
	Photo              string              `json:"photo,omitempty"`
	OfficeConfirmation *OfficeConfirmation `json:"officeConfirmation,omitempty"`
	InterviewStatus    InterviewStatus     `json:"interviewStatus,omitempty"`
	TransferredTo      *StaffRef           `json:"transferredTo,omitempty"`
	SentForCancel      bool                `json:"sentForCancel"`
	SentConfirmation   bool                `json:"sentConfirmation"`
	SentForAgreement   bool                `json:"sentForAgreement"`
	CreatedAt          *time.Time          `json:"createdAt,omitempty"`
}

// ChargeTotals extracts the payment book's charge totals. A form without
// an office confirmation has zero totals.
func (f *FilledForm) ChargeTotals() (service, medical Paise) {
	if f.OfficeConfirmation == nil {
		return 0, 0
	}
	return f.OfficeConfirmation.ServiceCharge, f.OfficeConfirmation.MedicalCharge
}

// StaffRef identifies a staff member referenced from a form. The upstream
// sometimes inlines the whole staff document and sometimes just the ID,
// so both shapes decode into this.
type StaffRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either a bare ID string or a staff object.
func (r *StaffRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = StaffRef{ID: id}
		return nil
	}
	type alias StaffRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = StaffRef(a)
	return nil
}

// Country is a job-country option for the client form dropdown.
type Country struct {
	ID   string `json:"_id"`
	Name string `json:"countryName"`
}

// Job is a job opening in one country. Its service charge prefills the
// office confirmation when the client is placed.
type Job struct {
	ID            string `json:"_id"`
	Title         string `json:"jobTitle"`
	Salary        Paise  `json:"salary,omitempty"`
	ServiceCharge Paise  `json:"serviceCharge,omitempty"`
}

// PaymentCategory says which charge bucket a payment settles.
type PaymentCategory string

const (
	CategoryService PaymentCategory = "Service"
	CategoryMedical PaymentCategory = "Medical"
)

// PaymentMode is how the money changed hands.
type PaymentMode string

const (
	ModeCash PaymentMode = "Cash"
	ModeUPI  PaymentMode = "UPI"
	ModeBank PaymentMode = "Bank"
)

// Payment is one append-only ledger entry against a lead's charges.
// Payments are immutable once recorded; corrections happen upstream.
type Payment struct {
	ID        string          `json:"_id"`
	LeadID    string          `json:"leadId"`
	Category  PaymentCategory `json:"paymentFor"`
	Amount    Paise           `json:"amount"`
	Mode      PaymentMode     `json:"modeOfPayment"`
	AddedBy   string          `json:"addedBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewPayment is the payload for recording a payment upstream.
type NewPayment struct {
	LeadID   string          `json:"leadId"`
	Category PaymentCategory `json:"paymentFor"`
	Amount   Paise           `json:"amount"`
	Mode     PaymentMode     `json:"modeOfPayment"`
	AddedBy  string          `json:"addedBy"`
}

// Note is a follow-up reminder an agent attaches to a lead.
type Note struct {
	ID       string     `json:"_id,omitempty"`
	LeadID   string     `json:"leadId"`
	AgentID  string     `json:"agentId"`
	Message  string     `json:"message"`
	RemindAt *time.Time `json:"remindAt,omitempty"`
}
