package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// HeaderRequestID carries a per-request id; a retry after refresh reuses it.
const HeaderRequestID = "X-Request-ID"

// Request describes one API call. Body is kept as bytes so the call can be replayed
// after a token refresh.
type Request struct {
	Method string
	Path   string // Relative to the base URL, or an absolute URL (pagination links)
	Query  url.Values
	Header http.Header
	Body   []byte
}

// NewJSONRequest builds a Request whose body is `in` encoded as JSON. A nil `in` sends no body.
func NewJSONRequest(method, path string, in any) (*Request, error) {
	req := &Request{Method: method, Path: path}
	if in == nil {
		return req, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("[NewJSONRequest] marshal body: %w", err)
	}
	req.Body = body
	req.Header = http.Header{"Content-Type": []string{"application/json"}}
	return req, nil
}

// Response is a completed 2xx response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if v == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// pendingRequest is a request on its way through dispatch. attempted is set once a
// refresh has been spent on it; an attempted request is never refreshed again.
type pendingRequest struct {
	req       *Request
	requestID string
	attempted bool
}
