package apifake

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/internal/utils"
)

const invalidPageMsg = "Invalid page."

// paginate writes one page of items as a {count, next, previous, results} body. Links are
// absolute, built from the request. A page outside the list is a 404, except the first
// page of an empty list.
func paginate[T any](w http.ResponseWriter, r *http.Request, items []T) {
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeDetail(w, http.StatusNotFound, invalidPageMsg)
			return
		}
		page = n
	}
	size := apiclient.DefaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = min(n, apiclient.MaxPageSize)
		}
	}

	start := (page - 1) * size
	if start >= len(items) && page != 1 {
		writeDetail(w, http.StatusNotFound, invalidPageMsg)
		return
	}
	end := min(start+size, len(items))

	out := apiclient.Page[T]{
		Count:   len(items),
		Results: make([]T, 0, end-start),
	}
	if start < end {
		out.Results = append(out.Results, items[start:end]...)
	}
	if end < len(items) {
		out.Next = utils.Ptr(pageLink(r, page+1))
	}
	if page > 1 {
		out.Previous = utils.Ptr(pageLink(r, page-1))
	}
	writeJSON(w, http.StatusOK, out)
}

// pageLink is the request URL with page replaced. Page 1 drops the parameter.
func pageLink(r *http.Request, page int) string {
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   getScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
