package jobs

import (
	"context"
	"fmt"
	"net/url"

	"github.com/d-madiou/job-board-client/apiclient"
)

const (
	jobsPath      = "/jobs/"
	companiesPath = "/companies/"
)

type Service struct {
	api apiclient.JSONAPI
}

func NewService(api apiclient.JSONAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("[jobs.NewService] api is required")
	}
	return &Service{api: api}, nil
}

func (s *Service) ListJobs(ctx context.Context, f Filter) (apiclient.Page[Job], error) {
	q := f.Values()
	page, size := apiclient.ClampPage(f.Page, f.PageSize)
	p, err := apiclient.GetPage[Job](ctx, s.api, jobsPath, q, page, size)
	if err != nil {
		return p, fmt.Errorf("[jobs.ListJobs] %w", err)
	}
	return p, nil
}

// NextJobs follows the next link of p. ok is false on the last page.
func (s *Service) NextJobs(ctx context.Context, p apiclient.Page[Job]) (apiclient.Page[Job], bool, error) {
	next, ok, err := apiclient.NextPage(ctx, s.api, p)
	if err != nil {
		return next, false, fmt.Errorf("[jobs.NextJobs] %w", err)
	}
	return next, ok, nil
}

func (s *Service) GetJob(ctx context.Context, id int64) (Job, error) {
	var j Job
	if err := s.api.GetJSON(ctx, fmt.Sprintf("%s%d/", jobsPath, id), nil, &j); err != nil {
		return Job{}, fmt.Errorf("[jobs.GetJob] %d: %w", id, err)
	}
	return j, nil
}

// ListCompanies lists companies, optionally matching search.
func (s *Service) ListCompanies(ctx context.Context, search string, page, pageSize int) (apiclient.Page[Company], error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	p, err := apiclient.GetPage[Company](ctx, s.api, companiesPath, q, page, pageSize)
	if err != nil {
		return p, fmt.Errorf("[jobs.ListCompanies] %w", err)
	}
	return p, nil
}

func (s *Service) GetCompany(ctx context.Context, id int64) (Company, error) {
	var c Company
	if err := s.api.GetJSON(ctx, fmt.Sprintf("%s%d/", companiesPath, id), nil, &c); err != nil {
		return Company{}, fmt.Errorf("[jobs.GetCompany] %d: %w", id, err)
	}
	return c, nil
}
