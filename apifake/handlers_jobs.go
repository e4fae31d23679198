package apifake

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/d-madiou/job-board-client/apifake/catalog"
	"github.com/d-madiou/job-board-client/jobs"
)

func (s *Server) JobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := jobs.Filter{
			Search:          q.Get("search"),
			Location:        q.Get("location"),
			JobType:         jobs.JobType(q.Get("job_type")),
			ExperienceLevel: jobs.ExperienceLevel(q.Get("experience_level")),
			Ordering:        q.Get("ordering"),
		}
		if raw := q.Get("company"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeFieldErrors(w, map[string]string{"company": "Select a valid choice."})
				return
			}
			f.Company = id
		}
		paginate(w, r, s.catalog.Jobs(f))
	}
}

func (s *Server) JobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		job, err := s.catalog.Job(id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) CompaniesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paginate(w, r, s.catalog.Companies(r.URL.Query().Get("search")))
	}
}

func (s *Server) CompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		company, err := s.catalog.Company(id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.NotFoundErr) {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.logger.Error().Err(err).Msg("catalog lookup failed")
	writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
}
