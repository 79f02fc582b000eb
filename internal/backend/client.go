// Package backend is the HTTP client for the upstream CRM, the system of
// record for leads, forms, and payments. The console never persists any
// of this data; every read goes back to the upstream and every write is
// fire-and-confirm.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/calldesk/console/internal/listctl"
)

const defaultTimeout = 15 * time.Second

// Client talks to the upstream CRM API. Methods are safe for concurrent
// use. No call is ever retried automatically; retry is a user action.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the upstream API rooted at baseURL
// (e.g. "http://crm.internal:5000/api"). A nil httpClient gets a default
// with a bounded timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// listParams encodes a list query the way the upstream expects it:
// one-based page plus limit, with empty search/status omitted.
func listParams(q listctl.Query) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page+1))
	v.Set("limit", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Filtered() {
		v.Set("status", q.Status)
	}
	return v
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	return c.do(req, out)
}

// send issues a request with a JSON body and decodes the response into
// out (which may be nil).
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding body for %s: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejectionFrom(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: req.Method + " " + req.URL.Path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
