package apifake

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/d-madiou/job-board-client/forms"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeDetail writes the {"detail": msg} error body.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeFieldErrors writes a 400 with one message list per field.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body := make(map[string][]string, len(fields))
	for field, msg := range fields {
		body[field] = []string{msg}
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeFieldErrors(w, forms.FieldErrors(err))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

// pathID reads the numeric {id} wildcard. Writes a 404 and returns false when it is not
// a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	}
}
