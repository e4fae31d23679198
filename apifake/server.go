// Package apifake is an in-memory implementation of the job board API for local
// development and end-to-end tests.
package apifake

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/d-madiou/job-board-client/apifake/accounts"
	fakeaccountrepo "github.com/d-madiou/job-board-client/apifake/accounts/repofake"
	"github.com/d-madiou/job-board-client/apifake/catalog"
	"github.com/d-madiou/job-board-client/apifake/token"
	refreshrepofake "github.com/d-madiou/job-board-client/apifake/token/repofake"
	"github.com/d-madiou/job-board-client/internal/config"
)

// Config is what the development API reads from the environment.
type Config interface {
	config.EnvConfig
	config.CorsConfig
	config.DevAPIConfig
}

type Server struct {
	env        string
	config     Config
	logger     zerolog.Logger
	mux        *http.ServeMux
	handler    http.HandlerFunc
	routes     []string
	basePath   string
	bcryptCost int

	nowLock sync.RWMutex
	nowFunc func() time.Time

	accounts accounts.Repo
	catalog  *catalog.Store
	creator  *token.Creator
	refresh  *token.RefreshManager

	callsLock sync.Mutex
	calls     map[string]int
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the clock used for token issue and expiry.
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowFunc = nowFunc
	}
}

// WithBasePath mounts every route under prefix, e.g. "/api".
func WithBasePath(prefix string) ServerOption {
	return func(s *Server) {
		s.basePath = strings.TrimRight(prefix, "/")
	}
}

func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) ServerOption {
	return func(s *Server) {
		s.bcryptCost = cost
	}
}

func WithAccountRepo(repo accounts.Repo) ServerOption {
	return func(s *Server) {
		s.accounts = repo
	}
}

func WithCatalog(store *catalog.Store) ServerOption {
	return func(s *Server) {
		s.catalog = store
	}
}

func New(cfg Config, options ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[apifake.New] config is required")
	}
	if cfg.GetJWTSecret() == "" {
		return nil, fmt.Errorf("[apifake.New] jwt secret is required")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		config:     cfg,
		logger:     log.Logger,
		mux:        http.NewServeMux(),
		bcryptCost: bcrypt.DefaultCost,
		nowFunc:    time.Now,
		calls:      make(map[string]int),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.accounts == nil {
		s.accounts = fakeaccountrepo.NewFakeAccountRepo()
	}
	if s.catalog == nil {
		s.catalog = catalog.NewStore()
	}

	var err error
	s.creator, err = token.NewCreator(token.NewHMACSigner(cfg.GetJWTSecret()), cfg.GetAccessTokenExpiry(), token.WithCreatorNowTime(s.Now))
	if err != nil {
		return nil, fmt.Errorf("[apifake.New] %w", err)
	}
	s.refresh, err = token.NewRefreshManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg.GetRefreshTokenExpiry(), s.Now)
	if err != nil {
		return nil, fmt.Errorf("[apifake.New] %w", err)
	}

	if cfg.GetSeedData() {
		if err := s.Seed(); err != nil {
			return nil, fmt.Errorf("[apifake.New] failed to seed data: %w", err)
		}
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.RequestIDMiddleware, s.CorsMiddleware)
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

// Now is the server clock.
func (s *Server) Now() time.Time {
	s.nowLock.RLock()
	defer s.nowLock.RUnlock()
	return s.nowFunc()
}

// SetNowTime swaps the clock while the server is running.
func (s *Server) SetNowTime(nowFunc func() time.Time) {
	s.nowLock.Lock()
	defer s.nowLock.Unlock()
	s.nowFunc = nowFunc
}

// Calls reports how often route ("POST /token/refresh/") has been hit.
func (s *Server) Calls(route string) int {
	s.callsLock.Lock()
	defer s.callsLock.Unlock()
	return s.calls[route]
}

func (s *Server) ResetCalls() {
	s.callsLock.Lock()
	defer s.callsLock.Unlock()
	s.calls = make(map[string]int)
}

// RevokeRefreshTokens invalidates every refresh token of userID, as a server-side
// logout or password change would.
func (s *Server) RevokeRefreshTokens(userID int64) (int, error) {
	return s.refresh.RevokeUser(userID)
}

func (s *Server) Catalog() *catalog.Store {
	return s.catalog
}

func (s *Server) Accounts() accounts.Repo {
	return s.accounts
}

func (s *Server) count(route string) {
	s.callsLock.Lock()
	defer s.callsLock.Unlock()
	s.calls[route]++
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		s.logRoute(parts[0], s.basePath+parts[1])
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	displayMethod := Gray + paddedMethod + ResetColor
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	}
	s.logger.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
