package apifake_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/apifake"
	"github.com/d-madiou/job-board-client/applications"
	"github.com/d-madiou/job-board-client/auth"
	"github.com/d-madiou/job-board-client/forms"
	"github.com/d-madiou/job-board-client/internal/config"
	"github.com/d-madiou/job-board-client/jobs"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/sessions/memstore"
	"github.com/d-madiou/job-board-client/users"
)

type testConfig struct {
	config.EnvVars
	config.Cors
	config.DevAPI
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testFixture struct {
	server *apifake.Server
	url    string
	clock  *clock
}

// testSession is one client: its own session store, API client and controller.
type testSession struct {
	store      *sessions.Store
	client     *apiclient.Client
	controller *auth.Controller
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	cfg := testConfig{
		EnvVars: config.EnvVars{Env: "TEST", AppName: "Job Board"},
		Cors:    config.Cors{Origins: []string{"http://localhost:3000"}},
		DevAPI: config.DevAPI{
			JWTSecret:  "test-secret",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
			Seed:       true,
		},
	}
	clk := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	srv, err := apifake.New(cfg,
		apifake.WithNowTime(clk.Now),
		apifake.WithBasePath("/api"),
		apifake.WithBcryptCost(bcrypt.MinCost),
		apifake.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &testFixture{server: srv, url: ts.URL, clock: clk}
}

func (f *testFixture) newSession(t *testing.T) *testSession {
	t.Helper()
	store, err := sessions.NewStore(memstore.New())
	require.NoError(t, err)
	client, err := apiclient.New(f.url+"/api", store, apiclient.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	controller, err := auth.NewController(store, client, auth.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	controller.Init(context.Background())
	return &testSession{store: store, client: client, controller: controller}
}

func (f *testFixture) login(t *testing.T, email string) *testSession {
	t.Helper()
	s := f.newSession(t)
	res := s.controller.Login(context.Background(), forms.LoginCredentials{Email: email, Password: apifake.SeedPassword})
	require.True(t, res.Success, res.Error)
	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := apifake.New(nil)
	require.Error(t, err)

	_, err = apifake.New(testConfig{})
	require.Error(t, err)
}

func TestServer_LoginBrowseApply(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.login(t, apifake.SeedSeekerEmail)

	snap := s.controller.Snapshot()
	require.Equal(t, auth.Authenticated, snap.State)
	require.Equal(t, apifake.SeedSeekerEmail, snap.User.Email)
	require.Equal(t, users.RoleUser, snap.User.Role)

	jobSvc, err := jobs.NewService(s.client)
	require.NoError(t, err)

	first, err := jobSvc.ListJobs(ctx, jobs.Filter{})
	require.NoError(t, err)
	require.Equal(t, 12, first.Count)
	require.Len(t, first.Results, apiclient.DefaultPageSize)
	require.True(t, first.HasNext())
	require.False(t, first.HasPrevious())
	require.True(t, strings.HasPrefix(*first.Next, f.url+"/api/jobs/"))
	require.Equal(t, "Engineering Lead", first.Results[0].Title)

	second, ok, err := jobSvc.NextJobs(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, second.Results, 2)
	require.False(t, second.HasNext())
	require.True(t, second.HasPrevious())

	remote, err := jobSvc.ListJobs(ctx, jobs.Filter{JobType: jobs.Remote})
	require.NoError(t, err)
	require.Equal(t, 2, remote.Count)

	job, err := jobSvc.GetJob(ctx, first.Results[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Globex", job.Company.Name)

	appSvc, err := applications.NewService(s.client)
	require.NoError(t, err)

	app, err := appSvc.Apply(ctx, job.ID, applications.Submission{CoverLetter: "Hello", Resume: "https://cv.example.com/jane"})
	require.NoError(t, err)
	require.Equal(t, applications.StatusPending, app.Status)
	require.Equal(t, job.Title, app.JobTitle)

	_, err = appSvc.Apply(ctx, job.ID, applications.Submission{CoverLetter: "Again"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "You have already applied for this job.", apiErr.Message())

	mine, err := appSvc.ListMine(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Count)

	require.NoError(t, appSvc.Withdraw(ctx, app.ID))
	_, err = appSvc.Get(ctx, app.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestServer_TransparentRefresh(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.login(t, apifake.SeedSeekerEmail)

	before, ok := s.store.AccessToken(ctx)
	require.True(t, ok)

	profiles, err := users.NewProfileService(s.client)
	require.NoError(t, err)

	f.server.ResetCalls()
	f.clock.Advance(2 * time.Minute)

	u, err := profiles.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, apifake.SeedSeekerEmail, u.Email)

	require.Equal(t, 2, f.server.Calls("GET "+apifake.RouteProfile))
	require.Equal(t, 1, f.server.Calls("POST "+apifake.RouteTokenRefresh))

	after, ok := s.store.AccessToken(ctx)
	require.True(t, ok)
	require.NotEqual(t, before, after)

	_, err = profiles.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.server.Calls("POST "+apifake.RouteTokenRefresh))
}

func TestServer_RevokedRefreshExpiresSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.login(t, apifake.SeedSeekerEmail)

	revoked, err := f.server.RevokeRefreshTokens(s.controller.Snapshot().User.ID)
	require.NoError(t, err)
	require.Equal(t, 1, revoked)
	f.clock.Advance(2 * time.Minute)

	profiles, err := users.NewProfileService(s.client)
	require.NoError(t, err)
	_, err = profiles.Get(ctx)
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)

	require.True(t, s.controller.ExpireSession(ctx, err))
	snap := s.controller.Snapshot()
	require.Equal(t, auth.Anonymous, snap.State)
	require.Equal(t, auth.SessionExpiredMsg, snap.Error)

	_, ok := s.store.Load(ctx)
	require.False(t, ok)
}

func TestServer_Register(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.newSession(t)

	form := forms.RegistrationForm{
		Username:        "sam",
		Email:           "sam@example.com",
		Password:        "Str0ngPass",
		PasswordConfirm: "Str0ngPass",
		FirstName:       "Sam",
		LastName:        "Diallo",
	}
	res := s.controller.Register(ctx, form)
	require.True(t, res.Success, res.Error)
	snap := s.controller.Snapshot()
	require.Equal(t, users.RoleUser, snap.User.Role)
	require.Equal(t, 1, f.server.Calls("POST "+apifake.RouteRegister))

	other := f.newSession(t)
	form.Username = "sam2"
	res = other.controller.Register(ctx, form)
	require.False(t, res.Success)
	require.Equal(t, "user with this email already exists.", res.Error)
	require.Equal(t, auth.Anonymous, other.controller.Snapshot().State)
}

func TestServer_LoginFailure(t *testing.T) {
	f := setupTestFixture(t)
	s := f.newSession(t)

	res := s.controller.Login(context.Background(), forms.LoginCredentials{Email: apifake.SeedSeekerEmail, Password: "wrong"})
	require.False(t, res.Success)
	require.Equal(t, "Invalid credentials", res.Error)
	require.Equal(t, 0, f.server.Calls("POST "+apifake.RouteTokenRefresh))
}

func TestServer_AnonymousAccess(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.newSession(t)

	jobSvc, err := jobs.NewService(s.client)
	require.NoError(t, err)
	companies, err := jobSvc.ListCompanies(ctx, "glob", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, companies.Count)
	require.Equal(t, "Globex", companies.Results[0].Name)

	appSvc, err := applications.NewService(s.client)
	require.NoError(t, err)
	_, err = appSvc.ListMine(ctx, "", 1, 10)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Equal(t, 0, f.server.Calls("POST "+apifake.RouteTokenRefresh))
}

func TestServer_EmployerReviewsApplication(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	seeker := f.login(t, apifake.SeedSeekerEmail)
	employer := f.login(t, apifake.SeedEmployerEmail)

	seekerApps, err := applications.NewService(seeker.client)
	require.NoError(t, err)
	employerApps, err := applications.NewService(employer.client)
	require.NoError(t, err)

	_, err = employerApps.Apply(ctx, 4, applications.Submission{})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	app, err := seekerApps.Apply(ctx, 4, applications.Submission{CoverLetter: "Hi"})
	require.NoError(t, err)

	_, err = seekerApps.UpdateStatus(ctx, app.ID, applications.StatusAccepted)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	reviewed, err := employerApps.UpdateStatus(ctx, app.ID, applications.StatusShortlisted)
	require.NoError(t, err)
	require.Equal(t, applications.StatusShortlisted, reviewed.Status)

	err = seekerApps.Withdraw(ctx, app.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	got, err := seekerApps.Get(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, applications.StatusShortlisted, got.Status)
}

func TestServer_HTTP(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name       string
		method     string
		path       string
		header     http.Header
		wantStatus int
		wantHeader map[string]string
	}{
		{
			name:       "invalid page",
			method:     http.MethodGet,
			path:       "/api/jobs/?page=99",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non numeric page",
			method:     http.MethodGet,
			path:       "/api/jobs/?page=abc",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown job",
			method:     http.MethodGet,
			path:       "/api/jobs/999/",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope/",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "garbage bearer token on public route",
			method:     http.MethodGet,
			path:       "/api/jobs/",
			header:     http.Header{"Authorization": {"Bearer garbage"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "request id echoed",
			method:     http.MethodGet,
			path:       "/api/companies/",
			header:     http.Header{"X-Request-Id": {"req-1"}},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"X-Request-ID": "req-1"},
		},
		{
			name:   "cors preflight",
			method: http.MethodOptions,
			path:   "/api/jobs/",
			header: http.Header{
				"Origin":                        {"http://localhost:3000"},
				"Access-Control-Request-Method": {"GET"},
			},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"Access-Control-Allow-Origin": "http://localhost:3000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, f.url+tt.path, nil)
			require.NoError(t, err)
			for k, v := range tt.header {
				req.Header[http.CanonicalHeaderKey(k)] = v
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			for k, v := range tt.wantHeader {
				require.Equal(t, v, resp.Header.Get(k))
			}
		})
	}
}

func TestServer_Profile(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	s := f.login(t, apifake.SeedSeekerEmail)

	profiles, err := users.NewProfileService(s.client)
	require.NoError(t, err)

	bio := "Go developer"
	u, err := profiles.Update(ctx, users.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, bio, u.Bio)
	require.Equal(t, "Jane", u.FirstName)

	require.NoError(t, s.controller.UpdateUser(ctx, u))
	sess, ok := s.store.Load(ctx)
	require.True(t, ok)
	require.Equal(t, bio, sess.User.Bio)

	empty := ""
	_, err = profiles.Update(ctx, users.ProfileUpdate{FirstName: &empty})
	require.Error(t, err)
	require.False(t, errors.Is(err, apiclient.ErrRefreshFailed))
}
