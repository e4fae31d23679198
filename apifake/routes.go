package apifake

import (
	"net/http"
	"strings"
)

type middleware = func(http.HandlerFunc) http.HandlerFunc

func (s *Server) initRoutes() {
	// AUTH
	s.route(http.MethodPost, RouteLogin, s.LoginHandler())
	s.route(http.MethodPost, RouteRegister, s.RegisterHandler())
	s.route(http.MethodPost, RouteTokenRefresh, s.TokenRefreshHandler())
	s.route(http.MethodGet, RouteProfile, s.ProfileHandler(), s.RequireAuth())
	s.route(http.MethodPatch, RouteProfile, s.ProfileUpdateHandler(), s.RequireAuth())

	// CATALOG
	s.route(http.MethodGet, RouteJobs, s.JobsHandler(), s.OptionalAuth())
	s.route(http.MethodGet, RouteJob, s.JobHandler(), s.OptionalAuth())
	s.route(http.MethodGet, RouteCompanies, s.CompaniesHandler(), s.OptionalAuth())
	s.route(http.MethodGet, RouteCompany, s.CompanyHandler(), s.OptionalAuth())

	// APPLICATIONS
	s.route(http.MethodGet, RouteApplications, s.ApplicationsHandler(), s.RequireAuth())
	s.route(http.MethodPost, RouteApplications, s.ApplyHandler(), s.RequireAuth())
	s.route(http.MethodGet, RouteApplication, s.ApplicationHandler(), s.RequireAuth())
	s.route(http.MethodPatch, RouteApplication, s.ApplicationStatusHandler(), s.RequireAuth())
	s.route(http.MethodDelete, RouteApplication, s.WithdrawHandler(), s.RequireAuth())

	s.mux.HandleFunc("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware("")...))
}

// route registers handler for method and path under the base path. Paths without a
// wildcard match exactly.
func (s *Server) route(method, path string, handler http.HandlerFunc, mw ...middleware) {
	key := method + " " + path
	pattern := s.basePath + path
	if !strings.Contains(path, "{") {
		pattern += "{$}"
	}
	s.routes = append(s.routes, key)
	s.mux.HandleFunc(method+" "+pattern, ChainMiddleware(handler, s.APIMiddleware(key, mw...)...))
}
