package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	interrors "github.com/d-madiou/job-board-client/internal/errors"
	"github.com/d-madiou/job-board-client/internal/utils"
)

// Sentinels callers match with errors.Is.
var (
	ErrUnauthorized  = interrors.ErrUnauthorized
	ErrNotFound      = interrors.ErrNotFound
	ErrRefreshFailed = interrors.ErrRefreshFailed
	ErrSessionEnded  = interrors.ErrSessionEnded
)

// APIError is a non-2xx response. The raw body is kept for callers that need more than
// Message.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if m := e.Message(); m != "" {
		msg += ": " + m
	}
	return msg
}

// Message is the best human-readable message in the body, or "".
func (e *APIError) Message() string {
	return ParseErrorMessage(e.Body)
}

// FieldErrors decodes a per-field validation body ({"email": ["..."]}).
func (e *APIError) FieldErrors() map[string][]string {
	var raw map[string]any
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}
	fields := make(map[string][]string)
	for k, v := range raw {
		if k == "detail" {
			continue
		}
		if msgs := messages(v); len(msgs) > 0 {
			fields[k] = msgs
		}
	}
	return fields
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// RefreshError is returned instead of the original 401 when the silent refresh failed.
// It matches ErrRefreshFailed and unwraps to the refresh call's own failure, usually an
// *APIError from the refresh endpoint.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "token refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() []error {
	return []error{ErrRefreshFailed, e.Err}
}

// ParseErrorMessage extracts a message from an API error body. A "detail" string wins;
// otherwise every field message is joined, non_field_errors first and the rest sorted by
// field name.
func ParseErrorMessage(body []byte) string {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}

	switch v := raw.(type) {
	case string:
		return v
	case []any:
		return strings.Join(utils.ToStringSlice(v), " ")
	case map[string]any:
		for _, key := range []string{"detail", "error", "message"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			if k != "non_field_errors" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if _, ok := v["non_field_errors"]; ok {
			keys = append([]string{"non_field_errors"}, keys...)
		}
		var parts []string
		for _, k := range keys {
			parts = append(parts, messages(v[k])...)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func messages(v any) []string {
	switch m := v.(type) {
	case string:
		if m == "" {
			return nil
		}
		return []string{m}
	case []any:
		return utils.ToStringSlice(m)
	case map[string]any:
		if s := ParseErrorMessage(mustJSON(m)); s != "" {
			return []string{s}
		}
	}
	return nil
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
