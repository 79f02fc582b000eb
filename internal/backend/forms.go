package backend

import (
	"context"
	"fmt"

	"github.com/calldesk/console/internal/listctl"
	"github.com/calldesk/console/internal/types"
)

// filledFormsResponse is the upstream's paged-forms envelope.
type filledFormsResponse struct {
	Success bool               `json:"success"`
	Data    []types.FilledForm `json:"data"`
	Total   int                `json:"total"`
}

// FilledForms fetches one page of the forms this agent has filled.
func (c *Client) FilledForms(ctx context.Context, agentID string, q listctl.Query) (listctl.Page[types.FilledForm], error) {
	var resp filledFormsResponse
	err := c.get(ctx, "/contact/filled-forms/"+agentID, listParams(q), &resp)
	if err != nil {
		return listctl.Page[types.FilledForm]{}, err
	}
	if !resp.Success {
		return listctl.Page[types.FilledForm]{}, &ServerRejection{Status: 200, Message: "filled forms lookup failed"}
	}
	return listctl.Page[types.FilledForm]{Rows: resp.Data, Total: resp.Total}, nil
}

// FormsAwaitingDispatch fetches the forms pending confirmation, cancel,
// or agreement dispatch for this agent.
func (c *Client) FormsAwaitingDispatch(ctx context.Context, agentID string, q listctl.Query) (listctl.Page[types.FilledForm], error) {
	var resp filledFormsResponse
	err := c.get(ctx, "/client-form/filled-by/"+agentID, listParams(q), &resp)
	if err != nil {
		return listctl.Page[types.FilledForm]{}, err
	}
	if !resp.Success {
		return listctl.Page[types.FilledForm]{}, &ServerRejection{Status: 200, Message: "dispatch queue lookup failed"}
	}
	return listctl.Page[types.FilledForm]{Rows: resp.Data, Total: resp.Total}, nil
}

// FormByLead fetches the client form filled against a lead, including
// the nested office confirmation when the office has signed off.
func (c *Client) FormByLead(ctx context.Context, leadID string) (*types.FilledForm, error) {
	var form types.FilledForm
	if err := c.get(ctx, "/client-form/getbyleadId/"+leadID, nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateForm submits a newly filled client form and flips the lead's
// form-filled flag.
func (c *Client) CreateForm(ctx context.Context, form *types.FilledForm) error {
	if err := c.MarkFormFilled(ctx, form.LeadID); err != nil {
		return err
	}
	return c.send(ctx, "POST", "/client-form/add", form, nil)
}

// UpdateForm sends a partial form update. Only the fields set in patch
// are touched upstream.
func (c *Client) UpdateForm(ctx context.Context, formID string, patch map[string]any) error {
	return c.send(ctx, "PUT", "/client-form/update/"+formID, patch, nil)
}

// Transfer hands a batch of leads' forms to a staff head.
func (c *Client) Transfer(ctx context.Context, leadIDs []string, transferredBy, transferredTo string) error {
	if len(leadIDs) == 0 {
		return fmt.Errorf("no leads selected for transfer")
	}
	body := map[string]any{
		"leadIds":       leadIDs,
		"transferredBy": transferredBy,
		"transferredTo": transferredTo,
	}
	return c.send(ctx, "POST", "/client-form/transfer", body, nil)
}

// ApplyInterview queues a form with an interview manager.
func (c *Client) ApplyInterview(ctx context.Context, leadID, interviewManagerID, agentID string) error {
	body := map[string]string{
		"leadId":             leadID,
		"interviewManagerId": interviewManagerID,
		"callingTeamId":      agentID,
	}
	return c.send(ctx, "POST", "/client-form/apply-interview", body, nil)
}

// DispatchKind selects which monotonic send flag MarkDispatch flips.
type DispatchKind string

const (
	DispatchConfirmation DispatchKind = "confirmation"
	DispatchCancel       DispatchKind = "cancel"
	DispatchAgreement    DispatchKind = "agreement"
)

// dispatchPaths maps a dispatch kind to the upstream's route segment.
// The agreement path carries the upstream's own spelling.
var dispatchPaths = map[DispatchKind]string{
	DispatchConfirmation: "markSendConfirmation",
	DispatchCancel:       "markSendForCancel",
	DispatchAgreement:    "markSendForAggrement",
}

// MarkDispatch flips one of the form's send flags. The flags are
// monotonic false→true; marking an already marked form is a no-op
// upstream.
func (c *Client) MarkDispatch(ctx context.Context, formID string, kind DispatchKind) error {
	path, ok := dispatchPaths[kind]
	if !ok {
		return fmt.Errorf("unknown dispatch kind %q", kind)
	}
	return c.send(ctx, "PUT", "/client-form/"+path+"/"+formID, nil, nil)
}

// lookupResponse is the `{data: [...]}` envelope the lookup endpoints use.
type lookupResponse[T any] struct {
	Data []T `json:"data"`
}

// Countries lists the job countries for the client form dropdown.
func (c *Client) Countries(ctx context.Context) ([]types.Country, error) {
	var resp lookupResponse[types.Country]
	if err := c.get(ctx, "/countries", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// JobsByCountry lists the open jobs in one country.
func (c *Client) JobsByCountry(ctx context.Context, countryID string) ([]types.Job, error) {
	var resp lookupResponse[types.Job]
	if err := c.get(ctx, "/jobs/country/"+countryID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// StaffHeads lists the staff heads forms can be transferred to.
func (c *Client) StaffHeads(ctx context.Context) ([]types.StaffRef, error) {
	var heads []types.StaffRef
	if err := c.get(ctx, "/staff-heads", nil, &heads); err != nil {
		return nil, err
	}
	return heads, nil
}

// InterviewManagers lists the managers a form can be queued with.
func (c *Client) InterviewManagers(ctx context.Context) ([]types.StaffRef, error) {
	var managers []types.StaffRef
	if err := c.get(ctx, "/interview-manager/getAll", nil, &managers); err != nil {
		return nil, err
	}
	return managers, nil
}
