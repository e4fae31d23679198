package apiclient

import (
	"context"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`

	// Number and Size are the page requested, not part of the body.
	Number int `json:"-"`
	Size   int `json:"-"`
}

func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

func (p Page[T]) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}

// TotalPages is the number of pages of Size items needed for Count items.
func (p Page[T]) TotalPages() int {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	if p.Count <= 0 {
		return 0
	}
	return (p.Count + size - 1) / size
}

// ClampPage normalises page and size: page is at least 1, size is 1..MaxPageSize and
// defaults to DefaultPageSize.
func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

// SetPage writes clamped page and page_size parameters into q.
func SetPage(q url.Values, page, size int) (int, int) {
	page, size = ClampPage(page, size)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	return page, size
}

// GetPage fetches one page from path with query. Page and size are recorded on the result.
func GetPage[T any](ctx context.Context, api JSONAPI, path string, query url.Values, page, size int) (Page[T], error) {
	if query == nil {
		query = url.Values{}
	}
	page, size = SetPage(query, page, size)

	var out Page[T]
	if err := api.GetJSON(ctx, path, query, &out); err != nil {
		return Page[T]{}, err
	}
	out.Number, out.Size = page, size
	return out, nil
}

// NextPage follows p's next link. It returns ok=false when there is no next page.
func NextPage[T any](ctx context.Context, api JSONAPI, p Page[T]) (Page[T], bool, error) {
	if !p.HasNext() {
		return Page[T]{}, false, nil
	}
	var out Page[T]
	if err := api.GetJSON(ctx, *p.Next, nil, &out); err != nil {
		return Page[T]{}, false, err
	}
	out.Number, out.Size = p.Number+1, p.Size
	return out, true, nil
}
