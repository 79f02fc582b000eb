package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/ledger"
	"github.com/calldesk/console/internal/listctl"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response. message is what the
// browser shows the agent, so upstream rejections pass through verbatim.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// parseListQuery extracts page, limit, search, and status query params
// into a canonical list query.
func parseListQuery(r *http.Request) listctl.Query {
	q := listctl.DefaultQuery()
	params := r.URL.Query()
	if v := params.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.Page = n
		}
	}
	if v := params.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.PageSize = n
		}
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	q.Search = params.Get("search")
	if v := params.Get("status"); v != "" {
		q.Status = v
	}
	return q
}

// errorToHTTP maps domain and upstream errors to HTTP responses.
// Validation failures never left the process; upstream rejections keep
// their status and message; transport failures read as a bad gateway.
func errorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNoCategorySelected):
		writeError(w, http.StatusUnprocessableEntity, "NO_CATEGORY", err.Error())
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		writeError(w, http.StatusUnprocessableEntity, "NON_POSITIVE_AMOUNT", err.Error())
	case errors.Is(err, ledger.ErrCategoryFullyPaid):
		writeError(w, http.StatusUnprocessableEntity, "CATEGORY_FULLY_PAID", err.Error())
	default:
		var balErr *ledger.BalanceExceededError
		if errors.As(err, &balErr) {
			writeError(w, http.StatusUnprocessableEntity, "AMOUNT_EXCEEDS_BALANCE", balErr.Error())
			return
		}
		var rej *backend.ServerRejection
		if errors.As(err, &rej) {
			status := rej.Status
			if status < 400 {
				status = http.StatusBadGateway
			}
			writeError(w, status, "UPSTREAM_REJECTED", rej.Error())
			return
		}
		var netErr *backend.NetworkError
		if errors.As(err, &netErr) {
			writeError(w, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", "upstream CRM is unreachable, please retry")
			return
		}
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
