package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/session"
	"github.com/calldesk/console/internal/types"
)

// fakeCRM is a minimal upstream serving one lead with a confirmed form.
type fakeCRM struct {
	mu       sync.Mutex
	payments []types.Payment
}

func (f *fakeCRM) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /client-form/getbyleadId/lead-1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"_id": "form-1", "leadId": "lead-1", "fullName": "Asha Verma",
			"officeConfirmation": {"ServiceCharge": 5000, "MedicalCharge": 2000}
		}`)
	})
	mux.HandleFunc("GET /payment/payment/lead-1", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.payments)
	})
	mux.HandleFunc("POST /payment/payment", func(w http.ResponseWriter, r *http.Request) {
		var np types.NewPayment
		json.NewDecoder(r.Body).Decode(&np)
		f.mu.Lock()
		p := types.Payment{
			ID:        fmt.Sprintf("pay-%d", len(f.payments)+1),
			LeadID:    np.LeadID,
			Category:  np.Category,
			Amount:    np.Amount,
			Mode:      np.Mode,
			AddedBy:   np.AddedBy,
			CreatedAt: time.Now(),
		}
		f.payments = append(f.payments, p)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	})
	return mux
}

type testGateway struct {
	srv   *httptest.Server
	token string
}

func newTestGateway(t *testing.T, crm *fakeCRM) *testGateway {
	t.Helper()
	upstream := httptest.NewServer(crm.handler())
	t.Cleanup(upstream.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := eventbus.New(16)
	cfg := Config{
		Backend:  backend.NewClient(upstream.URL, upstream.Client()),
		Sessions: session.NewManager(time.Hour, time.Hour),
		Bus:      bus,
	}
	srv := httptest.NewServer(Router(cfg))
	t.Cleanup(srv.Close)
	bus.Start(ctx)

	g := &testGateway{srv: srv}
	resp := g.do(t, "POST", "/v1/login", `{"agentId":"agent-1","agentName":"Asha"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess session.Session
	decode(t, resp, &sess)
	g.token = sess.Token
	return g
}

func (g *testGateway) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, g.srv.URL+path, rd)
	require.NoError(t, err)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRouter_RequiresSession(t *testing.T) {
	g := newTestGateway(t, &fakeCRM{})

	req, err := http.NewRequest("GET", g.srv.URL+"/v1/leads/lead-1/payments", nil)
	require.NoError(t, err)
	resp, err := g.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer not-a-session")
	resp2, err := g.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestRouter_PaymentBookFlow(t *testing.T) {
	g := newTestGateway(t, &fakeCRM{})

	var book struct {
		Summary struct {
			Service struct {
				Total   types.Paise `json:"total"`
				Pending types.Paise `json:"pending"`
			} `json:"service"`
			FullyPaid bool `json:"fullyPaid"`
		} `json:"summary"`
		Payments []types.Payment `json:"payments"`
	}
	resp := g.do(t, "GET", "/v1/leads/lead-1/payments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &book)
	assert.Equal(t, types.Rupees(5000), book.Summary.Service.Total)
	assert.Equal(t, types.Rupees(5000), book.Summary.Service.Pending)
	assert.False(t, book.Summary.FullyPaid)
	assert.Empty(t, book.Payments)

	// Over-balance attempts never reach the upstream.
	resp = g.do(t, "POST", "/v1/leads/lead-1/payments",
		`{"paymentFor":"Service","amount":6000,"modeOfPayment":"Cash"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errBody struct {
		Code string `json:"code"`
	}
	decode(t, resp, &errBody)
	assert.Equal(t, "AMOUNT_EXCEEDS_BALANCE", errBody.Code)

	resp = g.do(t, "POST", "/v1/leads/lead-1/payments",
		`{"paymentFor":"Service","amount":3000,"modeOfPayment":"Cash"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Created *types.Payment `json:"created"`
		Summary struct {
			Service struct {
				Paid    types.Paise `json:"paid"`
				Pending types.Paise `json:"pending"`
			} `json:"service"`
		} `json:"summary"`
	}
	decode(t, resp, &created)
	require.NotNil(t, created.Created)
	assert.Equal(t, "agent-1", created.Created.AddedBy)
	assert.Equal(t, types.Rupees(3000), created.Summary.Service.Paid)
	assert.Equal(t, types.Rupees(2000), created.Summary.Service.Pending)
}

func TestRouter_ActivityRecordsPayments(t *testing.T) {
	g := newTestGateway(t, &fakeCRM{})

	resp := g.do(t, "POST", "/v1/leads/lead-1/payments",
		`{"paymentFor":"Medical","amount":500,"modeOfPayment":"UPI"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The feed is filled asynchronously from the bus.
	var feed struct {
		Events []struct {
			Type   string `json:"type"`
			LeadID string `json:"leadId"`
		} `json:"events"`
		Total int `json:"total"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp := g.do(t, "GET", "/v1/leads/lead-1/activity", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &feed)
		if feed.Total > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, feed.Total)
	assert.Equal(t, "payment_recorded", feed.Events[0].Type)
	assert.Equal(t, "lead-1", feed.Events[0].LeadID)
}

func TestRouter_UpstreamUnreachable(t *testing.T) {
	cfg := Config{
		Backend:  backend.NewClient("http://127.0.0.1:1", nil),
		Sessions: session.NewManager(time.Hour, time.Hour),
		Bus:      eventbus.New(16),
	}
	srv := httptest.NewServer(Router(cfg))
	defer srv.Close()

	g := &testGateway{srv: srv}
	resp := g.do(t, "POST", "/v1/login", `{"agentId":"agent-1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess session.Session
	decode(t, resp, &sess)
	g.token = sess.Token

	resp = g.do(t, "GET", "/v1/leads/lead-1/payments", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var errBody struct {
		Code string `json:"code"`
	}
	decode(t, resp, &errBody)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", errBody.Code)
}
