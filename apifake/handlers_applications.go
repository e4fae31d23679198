package apifake

import (
	"errors"
	"net/http"

	"github.com/d-madiou/job-board-client/apifake/catalog"
	"github.com/d-madiou/job-board-client/applications"
	"github.com/d-madiou/job-board-client/users"
)

const forbiddenMsg = "You do not have permission to perform this action."

type applyRequest struct {
	Job int64 `json:"job"`
	applications.Submission
}

type statusRequest struct {
	Status applications.Status `json:"status"`
}

func (s *Server) ApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := applications.Status(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			writeFieldErrors(w, map[string]string{"status": "Select a valid choice."})
			return
		}
		account := accountFrom(r.Context())
		paginate(w, r, s.catalog.Applications(account.User.ID, status))
	}
}

// ApplyHandler submits an application. Only job seekers may apply, once per job.
func (s *Server) ApplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := accountFrom(r.Context())
		if account.User.Role != users.RoleUser {
			writeDetail(w, http.StatusForbidden, "Only job seekers can apply for jobs.")
			return
		}

		var req applyRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Job <= 0 {
			writeFieldErrors(w, map[string]string{"job": requiredFieldMsg})
			return
		}
		if err := req.Submission.Validate(); err != nil {
			writeValidationError(w, err)
			return
		}
		if job, err := s.catalog.Job(req.Job); err != nil || !job.Open(s.Now()) {
			writeFieldErrors(w, map[string]string{"job": "This job is not accepting applications."})
			return
		}

		app, err := s.catalog.Apply(account.User.ID, req.Job, req.Submission, s.Now().UTC())
		switch {
		case errors.Is(err, catalog.AlreadyAppliedErr):
			writeFieldErrors(w, map[string]string{"non_field_errors": err.Error()})
			return
		case errors.Is(err, catalog.NotFoundErr):
			writeFieldErrors(w, map[string]string{"job": "This job is not accepting applications."})
			return
		case err != nil:
			s.logger.Error().Err(err).Msg("failed to store application")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusCreated, app)
	}
}

func (s *Server) ApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		app, err := s.catalog.Application(id, accountFrom(r.Context()).User.ID)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

// ApplicationStatusHandler lets the employer owning the job move an application along.
func (s *Server) ApplicationStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		account := accountFrom(r.Context())
		app, err := s.catalog.Application(id, account.User.ID)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		if s.catalog.JobOwner(app.Job) != account.User.ID {
			writeDetail(w, http.StatusForbidden, forbiddenMsg)
			return
		}

		var req statusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			writeFieldErrors(w, map[string]string{"status": `"` + string(req.Status) + `" is not a valid choice.`})
			return
		}
		app, err = s.catalog.SetStatus(id, req.Status, s.Now().UTC())
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

// WithdrawHandler deletes an application. Only its applicant may, and only while it is
// still pending.
func (s *Server) WithdrawHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		account := accountFrom(r.Context())
		app, err := s.catalog.Application(id, account.User.ID)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		if app.Applicant != account.User.ID {
			writeDetail(w, http.StatusForbidden, forbiddenMsg)
			return
		}
		if app.Status != applications.StatusPending {
			writeDetail(w, http.StatusBadRequest, "Only pending applications can be withdrawn.")
			return
		}
		if err := s.catalog.DeleteApplication(id); err != nil {
			s.writeLookupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
