package apifake

const (
	RouteLogin        = "/auth/login/"
	RouteRegister     = "/auth/register/"
	RouteProfile      = "/auth/profile/"
	RouteTokenRefresh = "/token/refresh/"

	RouteJobs         = "/jobs/"
	RouteJob          = "/jobs/{id}/"
	RouteCompanies    = "/companies/"
	RouteCompany      = "/companies/{id}/"
	RouteApplications = "/applications/"
	RouteApplication  = "/applications/{id}/"
)
