package applications

import (
	"context"
	"fmt"
	"net/url"

	"github.com/d-madiou/job-board-client/apiclient"
	interrors "github.com/d-madiou/job-board-client/internal/errors"
)

const applicationsPath = "/applications/"

type Service struct {
	api apiclient.JSONAPI
}

func NewService(api apiclient.JSONAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("[applications.NewService] api is required")
	}
	return &Service{api: api}, nil
}

type applyRequest struct {
	Job int64 `json:"job"`
	Submission
}

// Apply submits an application for jobID as the signed-in user.
func (s *Service) Apply(ctx context.Context, jobID int64, sub Submission) (Application, error) {
	if jobID <= 0 {
		return Application{}, interrors.Wrapf(interrors.ErrInvalidRequest, "[applications.Apply] job id %d", jobID)
	}
	if err := sub.Validate(); err != nil {
		return Application{}, fmt.Errorf("[applications.Apply] %w", err)
	}

	var a Application
	if err := s.api.PostJSON(ctx, applicationsPath, applyRequest{Job: jobID, Submission: sub}, &a); err != nil {
		return Application{}, fmt.Errorf("[applications.Apply] %w", err)
	}
	return a, nil
}

// ListMine lists the signed-in user's applications, optionally only those in status.
func (s *Service) ListMine(ctx context.Context, status Status, page, pageSize int) (apiclient.Page[Application], error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	p, err := apiclient.GetPage[Application](ctx, s.api, applicationsPath, q, page, pageSize)
	if err != nil {
		return p, fmt.Errorf("[applications.ListMine] %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Application, error) {
	var a Application
	if err := s.api.GetJSON(ctx, path(id), nil, &a); err != nil {
		return Application{}, fmt.Errorf("[applications.Get] %d: %w", id, err)
	}
	return a, nil
}

// Withdraw deletes a pending application.
func (s *Service) Withdraw(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, path(id)); err != nil {
		return fmt.Errorf("[applications.Withdraw] %d: %w", id, err)
	}
	return nil
}

// UpdateStatus moves an application to status. Only the employer owning the job may.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Application, error) {
	if !status.Valid() {
		return Application{}, interrors.Wrapf(interrors.ErrInvalidRequest, "[applications.UpdateStatus] status %q", status)
	}
	var a Application
	if err := s.api.PatchJSON(ctx, path(id), map[string]Status{"status": status}, &a); err != nil {
		return Application{}, fmt.Errorf("[applications.UpdateStatus] %d: %w", id, err)
	}
	return a, nil
}

func path(id int64) string {
	return fmt.Sprintf("%s%d/", applicationsPath, id)
}
