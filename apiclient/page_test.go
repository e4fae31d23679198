package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{page: 0, size: 0, wantPage: 1, wantSize: 10},
		{page: -3, size: 5, wantPage: 1, wantSize: 5},
		{page: 4, size: 100, wantPage: 4, wantSize: 100},
		{page: 2, size: 500, wantPage: 2, wantSize: 100},
		{page: 1, size: 1, wantPage: 1, wantSize: 1},
	}
	for _, tt := range tests {
		page, size := apiclient.ClampPage(tt.page, tt.size)
		require.Equal(t, tt.wantPage, page)
		require.Equal(t, tt.wantSize, size)
	}
}

func TestPage_Navigation(t *testing.T) {
	p := apiclient.Page[int]{Count: 25, Size: 10}
	require.Equal(t, 3, p.TotalPages())
	require.False(t, p.HasNext())
	require.False(t, p.HasPrevious())

	p.Next = utils.Ptr("http://localhost/api/jobs/?page=2")
	p.Previous = utils.Ptr("")
	require.True(t, p.HasNext())
	require.False(t, p.HasPrevious())

	require.Equal(t, 0, apiclient.Page[int]{}.TotalPages())
	require.Equal(t, 1, apiclient.Page[int]{Count: 3}.TotalPages())
}

func TestGetPageAndNextPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		body := map[string]any{"count": 3, "results": []int{page}}
		if page == 1 {
			body["next"] = "http://" + r.Host + "/api/items/?page=2&page_size=2"
		} else {
			body["previous"] = "http://" + r.Host + "/api/items/?page=1&page_size=2"
		}
		writeJSON(w, http.StatusOK, body)
	}))
	defer server.Close()

	c := newClient(t, server.URL+"/api", nil)
	ctx := context.Background()

	first, err := apiclient.GetPage[int](ctx, c, "/items/", nil, 0, 2)
	require.NoError(t, err)
	require.Equal(t, []int{1}, first.Results)
	require.Equal(t, 1, first.Number)
	require.Equal(t, 2, first.TotalPages())

	second, ok, err := apiclient.NextPage(ctx, c, first)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{2}, second.Results)
	require.Equal(t, 2, second.Number)
	require.True(t, second.HasPrevious())

	_, ok, err = apiclient.NextPage(ctx, c, second)
	require.NoError(t, err)
	require.False(t, ok)
}
