package backend

import (
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// NetworkError is a transport-level failure: the request never completed
// or the response could not be read. Callers keep their prior state and
// surface a transient notification; nothing is retried automatically.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejection is a completed request the upstream refused. Message is
// the upstream's own `{message}` body, surfaced verbatim to the user.
type ServerRejection struct {
	Status  int
	Message string
}

func (e *ServerRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// rejectionFrom builds a ServerRejection from a non-2xx response, pulling
// the upstream's message out of the body when present.
func rejectionFrom(resp *http.Response) *ServerRejection {
	rej := &ServerRejection{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return rej
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		rej.Message = payload.Message
	}
	return rej
}
