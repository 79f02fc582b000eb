package backend

import (
	"context"
	"fmt"

	"github.com/calldesk/console/internal/listctl"
	"github.com/calldesk/console/internal/types"
)

// AssignedLeads fetches one page of the agent's assigned leads. The
// upstream clamps out-of-range pages itself; its total is authoritative.
func (c *Client) AssignedLeads(ctx context.Context, agentID string, q listctl.Query) (listctl.Page[types.Lead], error) {
	var resp struct {
		Leads []types.Lead `json:"leads"`
		Total int          `json:"total"`
	}
	err := c.get(ctx, "/contact/get-assigned-leads/"+agentID, listParams(q), &resp)
	if err != nil {
		return listctl.Page[types.Lead]{}, err
	}
	return listctl.Page[types.Lead]{Rows: resp.Leads, Total: resp.Total}, nil
}

// PassportHolderLeads fetches passport-holder leads that still need a
// client form filled.
func (c *Client) PassportHolderLeads(ctx context.Context, agentID string, q listctl.Query) (listctl.Page[types.Lead], error) {
	var resp struct {
		Data       []types.Lead `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	err := c.get(ctx, "/contact/get-passport-holder-leads/"+agentID, listParams(q), &resp)
	if err != nil {
		return listctl.Page[types.Lead]{}, err
	}
	// The upstream occasionally leaks other statuses into this feed;
	// keep only unfilled passport holders.
	rows := resp.Data[:0]
	for _, lead := range resp.Data {
		if lead.Status == types.StatusPassportHolder && !lead.FormFilled {
			rows = append(rows, lead)
		}
	}
	return listctl.Page[types.Lead]{Rows: rows, Total: resp.Pagination.Total}, nil
}

// UpdateLeadStatus changes a lead's disposition. A passport number is
// required when moving to Passport Holder and is dropped otherwise.
func (c *Client) UpdateLeadStatus(ctx context.Context, leadID string, status types.LeadStatus, passportNumber string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid lead status %q", status)
	}
	body := map[string]string{"status": string(status)}
	if status == types.StatusPassportHolder {
		if passportNumber == "" {
			return fmt.Errorf("passport number is required for status %q", status)
		}
		body["passportNumber"] = passportNumber
	}
	return c.send(ctx, "PUT", "/contact/update-lead-status/"+leadID, body, nil)
}

// MarkFormFilled flips the lead's form-filled flag. Monotonic: the
// upstream never clears it.
func (c *Client) MarkFormFilled(ctx context.Context, leadID string) error {
	return c.send(ctx, "PUT", "/contact/form-filled/"+leadID, nil, nil)
}

// Lead fetches a single lead by ID.
func (c *Client) Lead(ctx context.Context, leadID string) (*types.Lead, error) {
	var lead types.Lead
	if err := c.get(ctx, "/contact/getbyId/"+leadID, nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}
