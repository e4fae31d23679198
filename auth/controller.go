package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/forms"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/users"
)

// State is the authentication lifecycle state.
type State int

const (
	Initializing State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

// Snapshot is the state consumers observe.
type Snapshot struct {
	State           State
	User            *users.User
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// Result is the outcome of Login and Register. Error is empty on success.
type Result struct {
	Success bool
	Error   string
}

// Controller owns the session lifecycle: restoring it at start, creating it on login
// or registration and destroying it on logout or expiry. Apart from the API client's
// access-token write during refresh, it is the only writer of the session store.
type Controller struct {
	store        SessionRepo
	api          API
	logger       zerolog.Logger
	loginPath    string
	registerPath string

	mu      sync.RWMutex
	state   State
	user    *users.User
	loading bool
	errMsg  string

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPaths overrides the login and register endpoints.
func WithPaths(loginPath, registerPath string) ControllerOption {
	return func(c *Controller) {
		c.loginPath = loginPath
		c.registerPath = registerPath
	}
}

// NewController creates a Controller in the Initializing state. Call Init before use.
func NewController(store SessionRepo, api API, options ...ControllerOption) (*Controller, error) {
	if store == nil {
		return nil, errors.New("[NewController] session store is required")
	}
	if api == nil {
		return nil, errors.New("[NewController] api is required")
	}

	c := &Controller{
		store:        store,
		api:          api,
		logger:       log.Logger,
		loginPath:    DefaultLoginPath,
		registerPath: DefaultRegisterPath,
		state:        Initializing,
		loading:      true,
		subscribers:  make(map[int]func(Snapshot)),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Init restores a persisted session. Partial or malformed leftovers are removed and the
// Controller ends Anonymous. Loading is false afterwards in every case.
func (c *Controller) Init(ctx context.Context) {
	sess, ok := c.store.Load(ctx)
	if !ok {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("failed to clear leftover session entries")
		}
	}

	c.mu.Lock()
	if ok {
		user := sess.User
		c.state, c.user = Authenticated, &user
	} else {
		c.state, c.user = Anonymous, nil
	}
	c.loading = false
	c.mu.Unlock()

	c.logger.Debug().Bool("restored", ok).Msg("session initialized")
	c.notify()
}

// Login authenticates with email and password. It never returns an error: failures are
// reported in the Result and in Snapshot.Error, and leave the session untouched.
func (c *Controller) Login(ctx context.Context, creds forms.LoginCredentials) Result {
	return c.authenticate(ctx, c.loginPath, creds, LoginFailedMsg)
}

// Register creates an account and signs it in, with the same contract as Login.
func (c *Controller) Register(ctx context.Context, form forms.RegistrationForm) Result {
	return c.authenticate(ctx, c.registerPath, form, RegistrationFailedMsg)
}

func (c *Controller) authenticate(ctx context.Context, path string, body any, fallback string) Result {
	authResp, err := c.post(ctx, path, body)
	if err != nil {
		msg := errorMessage(err, fallback)
		c.logger.Info().Err(err).Str("path", path).Msg("authentication failed")
		return c.fail(msg)
	}

	sess := sessions.Session{
		User:         authResp.User,
		AccessToken:  authResp.Tokens.Access,
		RefreshToken: authResp.Tokens.Refresh,
	}
	if err := c.store.Save(ctx, sess); err != nil {
		c.logger.Error().Err(err).Msg("failed to save session")
		// Save may have overwritten part of an earlier session before failing.
		c.mu.Lock()
		c.state, c.user = Anonymous, nil
		c.mu.Unlock()
		return c.fail(SessionSaveFailedMsg)
	}

	user := sess.User
	c.mu.Lock()
	c.state, c.user, c.errMsg = Authenticated, &user, ""
	c.mu.Unlock()

	c.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("signed in")
	c.notify()
	return Result{Success: true}
}

func (c *Controller) post(ctx context.Context, path string, body any) (*AuthResponse, error) {
	req, err := apiclient.NewJSONRequest(http.MethodPost, path, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Controller.post] NewJSONRequest")
	}
	resp, err := c.api.DoOnce(ctx, req)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := resp.Decode(&out); err != nil {
		return nil, errors.Wrap(MalformedAuthErr, err.Error())
	}
	if err := validateAuthResponse(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Controller) fail(msg string) Result {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
	c.notify()
	return Result{Success: false, Error: msg}
}

// Logout clears the local session. It makes no network call and cannot fail; storage
// errors are logged.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear session")
	}

	c.mu.Lock()
	c.state, c.user, c.errMsg = Anonymous, nil, ""
	c.mu.Unlock()

	c.logger.Info().Msg("signed out")
	c.notify()
}

// ClearError resets the error message. It changes nothing else.
func (c *Controller) ClearError() {
	c.mu.Lock()
	changed := c.errMsg != ""
	c.errMsg = ""
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// ExpireSession ends the session when err is an irrecoverable refresh failure returned by
// the API client, leaving the Controller Anonymous with SessionExpiredMsg. It reports
// whether it did so.
func (c *Controller) ExpireSession(ctx context.Context, err error) bool {
	if !errors.Is(err, apiclient.ErrRefreshFailed) {
		return false
	}
	if clearErr := c.store.Clear(ctx); clearErr != nil {
		c.logger.Warn().Err(clearErr).Msg("failed to clear expired session")
	}

	c.mu.Lock()
	c.state, c.user, c.errMsg = Anonymous, nil, SessionExpiredMsg
	c.mu.Unlock()

	c.logger.Info().Err(err).Msg("session expired")
	c.notify()
	return true
}

// UpdateUser persists a changed user record for the signed-in user.
func (c *Controller) UpdateUser(ctx context.Context, user users.User) error {
	c.mu.RLock()
	current := c.user
	c.mu.RUnlock()

	if current == nil {
		return NotAuthenticatedErr
	}
	if user.ID != current.ID {
		return errors.Errorf("[Controller.UpdateUser] user %d is not the signed-in user", user.ID)
	}
	if err := c.store.UpdateUser(ctx, user); err != nil {
		return errors.Wrap(err, "[Controller.UpdateUser] store.UpdateUser")
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	c.notify()
	return nil
}

// Snapshot returns the current state. The User is a copy.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		State:           c.state,
		IsAuthenticated: c.state == Authenticated,
		Loading:         c.loading,
		Error:           c.errMsg,
	}
	if c.user != nil {
		user := *c.user
		snap.User = &user
	}
	return snap
}

// Subscribe registers fn to receive a Snapshot after every change. fn runs synchronously
// on the goroutine that made the change and must not block. The returned func removes it.
func (c *Controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subscribers, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) notify() {
	snap := c.Snapshot()

	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// errorMessage picks the text shown to the user: the API's own message when there is
// one, otherwise fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
