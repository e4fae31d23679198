package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/sessions/memstore"
	"github.com/d-madiou/job-board-client/users"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal job board API: /protected/ accepts only the current access token,
// /token/refresh/ answers with whatever refreshHandler says.
type fakeAPI struct {
	server *httptest.Server

	mu             sync.Mutex
	validAccess    string
	authHeaders    []string
	requestIDs     []string
	refreshBodies  []string
	refreshHeaders []string
	refreshHandler func(w http.ResponseWriter, r *http.Request)

	protectedCalls atomic.Int32
	refreshCalls   atomic.Int32
}

func newFakeAPI(t *testing.T, validAccess string) *fakeAPI {
	t.Helper()

	api := &fakeAPI{validAccess: validAccess}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/protected/", func(w http.ResponseWriter, r *http.Request) {
		api.protectedCalls.Add(1)
		api.mu.Lock()
		api.authHeaders = append(api.authHeaders, r.Header.Get("Authorization"))
		api.requestIDs = append(api.requestIDs, r.Header.Get(apiclient.HeaderRequestID))
		valid := "Bearer " + api.validAccess
		api.mu.Unlock()

		if r.Header.Get("Authorization") != valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"id": 7})
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		api.refreshCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.refreshBodies = append(api.refreshBodies, string(body))
		api.refreshHeaders = append(api.refreshHeaders, r.Header.Get("Authorization"))
		handler := api.refreshHandler
		api.mu.Unlock()
		handler(w, r)
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) URL() string {
	return a.server.URL + "/api"
}

func (a *fakeAPI) seen() (authHeaders, requestIDs, refreshBodies, refreshHeaders []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authHeaders, a.requestIDs, a.refreshBodies, a.refreshHeaders
}

func (a *fakeAPI) onRefresh(h func(w http.ResponseWriter, r *http.Request)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshHandler = h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newSessionStore(t *testing.T, access, refresh string) *sessions.Store {
	t.Helper()
	store, err := sessions.NewStore(memstore.New())
	require.NoError(t, err)
	if access != "" || refresh != "" {
		err = store.Save(context.Background(), sessions.Session{
			User:         users.User{ID: 1, Email: "jane@example.com"},
			AccessToken:  access,
			RefreshToken: refresh,
		})
		require.NoError(t, err)
	}
	return store
}

func newClient(t *testing.T, baseURL string, creds apiclient.CredentialProvider, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(baseURL, creds, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := apiclient.New("::not a url", nil)
	require.Error(t, err)

	_, err = apiclient.New("/relative/only", nil)
	require.Error(t, err)

	c, err := apiclient.New("http://localhost:8000/api/", nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/api", c.BaseURL())
}

func TestClient_AttachesBearerToken(t *testing.T) {
	api := newFakeAPI(t, "A1")
	store := newSessionStore(t, "A1", "R1")
	c := newClient(t, api.URL(), store)

	var out struct{ ID int }
	require.NoError(t, c.GetJSON(context.Background(), "/protected/", nil, &out))
	require.Equal(t, 7, out.ID)
	authHeaders, requestIDs, _, _ := api.seen()
	require.Equal(t, []string{"Bearer A1"}, authHeaders)
	require.NotEmpty(t, requestIDs[0])
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestClient_AnonymousSendsNoAuthorization(t *testing.T) {
	api := newFakeAPI(t, "A1")
	c := newClient(t, api.URL(), nil)

	err := c.GetJSON(context.Background(), "/protected/", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	authHeaders, _, _, _ := api.seen()
	require.Equal(t, []string{""}, authHeaders)
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestClient_RefreshAndRetryOnce(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t, "A2")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	store := newSessionStore(t, "A1", "R1")
	c := newClient(t, api.URL(), store)

	var out struct{ ID int }
	require.NoError(t, c.GetJSON(ctx, "/protected/", nil, &out))
	require.Equal(t, 7, out.ID)

	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.protectedCalls.Load())
	authHeaders, requestIDs, refreshBodies, refreshHeaders := api.seen()
	require.Equal(t, []string{"Bearer A1", "Bearer A2"}, authHeaders)
	require.JSONEq(t, `{"refresh":"R1"}`, refreshBodies[0])
	require.Empty(t, refreshHeaders[0])

	// The retry is the same logical request.
	require.Equal(t, requestIDs[0], requestIDs[1])

	access, ok := store.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "A2", access)
	refresh, _ := store.RefreshToken(ctx)
	require.Equal(t, "R1", refresh)
}

func TestClient_RefreshRejected(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t, "never")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted"})
	})
	store := newSessionStore(t, "A1", "R1")
	c := newClient(t, api.URL(), store)

	_, err := c.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)

	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Contains(t, apiErr.URL, "/token/refresh/")
	require.Equal(t, "Token is blacklisted", apiErr.Message())

	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(1), api.protectedCalls.Load())

	// The client never clears the session itself.
	access, ok := store.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, "A1", access)
}

func TestClient_RetryRejectedIsTerminal(t *testing.T) {
	api := newFakeAPI(t, "never")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	c := newClient(t, api.URL(), newSessionStore(t, "A1", "R1"))

	_, err := c.Do(context.Background(), &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.NotErrorIs(t, err, apiclient.ErrRefreshFailed)

	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Contains(t, apiErr.URL, "/protected/")

	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.protectedCalls.Load())
}

func TestClient_NoRefreshTokenReturnsOriginal401(t *testing.T) {
	api := newFakeAPI(t, "A2")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "unexpected refresh"})
	})
	creds := &apiclient.StaticCredentials{Access: "A1"}
	c := newClient(t, api.URL(), creds)

	_, err := c.Do(context.Background(), &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)

	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Given token not valid for any token type", apiErr.Message())
	require.Equal(t, int32(0), api.refreshCalls.Load())
	require.Equal(t, int32(1), api.protectedCalls.Load())
}

func TestClient_DoOnceNeverRefreshes(t *testing.T) {
	api := newFakeAPI(t, "A2")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	c := newClient(t, api.URL(), newSessionStore(t, "A1", "R1"))

	_, err := c.DoOnce(context.Background(), &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestClient_RefreshWithoutAccessToken(t *testing.T) {
	api := newFakeAPI(t, "A2")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	c := newClient(t, api.URL(), newSessionStore(t, "A1", "R1"))

	_, err := c.Do(context.Background(), &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)
	require.Equal(t, int32(1), api.protectedCalls.Load())
}

func TestClient_SessionEndedDuringRefresh(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t, "A2")
	store := newSessionStore(t, "A1", "R1")
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		// The user logs out while the refresh is in flight.
		_ = store.Clear(ctx)
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	c := newClient(t, api.URL(), store)

	_, err := c.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/protected/"})
	require.ErrorIs(t, err, apiclient.ErrSessionEnded)
	require.Equal(t, int32(1), api.protectedCalls.Load())

	_, ok := store.AccessToken(ctx)
	require.False(t, ok)
}

func TestClient_StatusPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"email":["Enter a valid email address."]}`, wantMsg: "Enter a valid email address."},
		{name: "forbidden", status: http.StatusForbidden, body: `{"detail":"You do not have permission to perform this action."}`, wantMsg: "You do not have permission to perform this action."},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not found."}`, wantMsg: "Not found."},
		{name: "server error", status: http.StatusInternalServerError, body: `<h1>Server Error</h1>`, wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var refreshCalls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/token/refresh/" {
					refreshCalls.Add(1)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newClient(t, server.URL, newSessionStore(t, "A1", "R1"))
			_, err := c.Do(context.Background(), &apiclient.Request{Method: http.MethodGet, Path: "/thing/"})

			var apiErr *apiclient.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.body, string(apiErr.Body))
			require.Equal(t, tt.wantMsg, apiErr.Message())
			require.Equal(t, tt.status == http.StatusNotFound, errors.Is(err, apiclient.ErrNotFound))
			require.Equal(t, int32(0), refreshCalls.Load())
		})
	}
}

func TestClient_ConcurrentRefreshIsShared(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t, "A2")
	release := make(chan struct{})
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	c := newClient(t, api.URL(), newSessionStore(t, "A1", "R1"))

	const callers = 4
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.GetJSON(ctx, "/protected/", nil, nil)
		}()
	}

	require.Eventually(t, func() bool {
		return api.protectedCalls.Load() == callers
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(release)

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2*callers), api.protectedCalls.Load())
}

func TestClient_WithoutRefreshDedup(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t, "A2")
	var inFlight sync.WaitGroup
	inFlight.Add(2)
	api.onRefresh(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Done()
		inFlight.Wait()
		writeJSON(w, http.StatusOK, map[string]string{"access": "A2"})
	})
	c := newClient(t, api.URL(), newSessionStore(t, "A1", "R1"), apiclient.WithoutRefreshDedup())

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.GetJSON(ctx, "/protected/", nil, nil)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(2), api.refreshCalls.Load())
}

func TestClient_QueryAndAbsoluteURLs(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.RequestURI())
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	defer server.Close()

	c := newClient(t, server.URL+"/api", nil)
	ctx := context.Background()

	require.NoError(t, c.GetJSON(ctx, "jobs/", url.Values{"search": {"go dev"}, "page": {"2"}}, nil))
	require.NoError(t, c.GetJSON(ctx, server.URL+"/api/jobs/?page=3&search=go", url.Values{"page": {"4"}}, nil))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{
		"/api/jobs/?page=2&search=go+dev",
		"/api/jobs/?page=4&search=go",
	}, seen)
}

func TestClient_JSONBodies(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod, gotType, gotBody = r.Method, r.Header.Get("Content-Type"), string(body)
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "status": "pending"})
	}))
	defer server.Close()

	c := newClient(t, server.URL, nil)
	ctx := context.Background()

	var out struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	last := func() (string, string, string) {
		mu.Lock()
		defer mu.Unlock()
		return gotMethod, gotType, gotBody
	}

	require.NoError(t, c.PostJSON(ctx, "/applications/", map[string]int{"job": 9}, &out))
	method, contentType, body := last()
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "application/json", contentType)
	require.JSONEq(t, `{"job":9}`, body)
	require.Equal(t, 3, out.ID)

	require.NoError(t, c.PatchJSON(ctx, "/applications/3/", map[string]string{"status": "reviewed"}, nil))
	method, _, _ = last()
	require.Equal(t, http.MethodPatch, method)

	require.NoError(t, c.Delete(ctx, "/applications/3/"))
	method, _, body = last()
	require.Equal(t, http.MethodDelete, method)
	require.Empty(t, body)
}
