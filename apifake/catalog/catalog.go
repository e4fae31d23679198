// Package catalog holds the development API's companies, jobs and applications.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/d-madiou/job-board-client/applications"
	"github.com/d-madiou/job-board-client/jobs"
)

var (
	NotFoundErr       = errors.New("not found")
	AlreadyAppliedErr = errors.New("You have already applied for this job.")
)

type company struct {
	jobs.Company
	ownerID int64
}

// Store is an in-memory catalog safe for concurrent use.
type Store struct {
	lock         sync.RWMutex
	companies    map[int64]*company
	jobs         map[int64]*jobs.Job
	applications map[int64]*applications.Application
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		companies:    make(map[int64]*company),
		jobs:         make(map[int64]*jobs.Job),
		applications: make(map[int64]*applications.Application),
		nextID:       1,
	}
}

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddCompany stores c owned by the employer ownerID and returns it with its id.
func (s *Store) AddCompany(c jobs.Company, ownerID int64) jobs.Company {
	s.lock.Lock()
	defer s.lock.Unlock()

	c.ID = s.id()
	s.companies[c.ID] = &company{Company: c, ownerID: ownerID}
	return c
}

// AddJob stores j under the company j.Company.ID.
func (s *Store) AddJob(j jobs.Job) (jobs.Job, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, ok := s.companies[j.Company.ID]
	if !ok {
		return jobs.Job{}, NotFoundErr
	}
	j.ID = s.id()
	j.Company = c.Company
	s.jobs[j.ID] = &j
	return j, nil
}

func (s *Store) Job(id int64) (jobs.Job, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return jobs.Job{}, NotFoundErr
	}
	return *j, nil
}

// Jobs returns active jobs matching f, ordered by f.Ordering (newest first by default).
// Paging is left to the caller.
func (s *Store) Jobs(f jobs.Filter) []jobs.Job {
	s.lock.RLock()
	defer s.lock.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	location := strings.ToLower(strings.TrimSpace(f.Location))

	out := make([]jobs.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if !j.IsActive {
			continue
		}
		if search != "" && !containsAny(search, j.Title, j.Description, j.Company.Name) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(j.Location), location) {
			continue
		}
		if f.JobType != "" && j.JobType != f.JobType {
			continue
		}
		if f.ExperienceLevel != "" && j.ExperienceLevel != f.ExperienceLevel {
			continue
		}
		if f.Company != 0 && j.Company.ID != f.Company {
			continue
		}
		out = append(out, *j)
	}

	sortJobs(out, f.Ordering)
	return out
}

func sortJobs(list []jobs.Job, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	if field == "" {
		field, desc = "created_at", true
	}

	less := func(a, b jobs.Job) bool {
		switch field {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func containsAny(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (s *Store) Company(id int64) (jobs.Company, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return jobs.Company{}, NotFoundErr
	}
	out := c.Company
	out.JobCount = s.activeJobCount(id)
	return out, nil
}

// Companies returns companies whose name matches search, ordered by name.
func (s *Store) Companies(search string) []jobs.Company {
	s.lock.RLock()
	defer s.lock.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]jobs.Company, 0, len(s.companies))
	for id, c := range s.companies {
		if search != "" && !containsAny(search, c.Name, c.Industry, c.Location) {
			continue
		}
		item := c.Company
		item.JobCount = s.activeJobCount(id)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) activeJobCount(companyID int64) int {
	n := 0
	for _, j := range s.jobs {
		if j.Company.ID == companyID && j.IsActive {
			n++
		}
	}
	return n
}

// JobOwner is the employer owning the job's company, or 0.
func (s *Store) JobOwner(jobID int64) int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.jobOwner(jobID)
}

func (s *Store) jobOwner(jobID int64) int64 {
	j, ok := s.jobs[jobID]
	if !ok {
		return 0
	}
	if c, ok := s.companies[j.Company.ID]; ok {
		return c.ownerID
	}
	return 0
}

// Apply records an application by applicant. One application per job and applicant.
func (s *Store) Apply(applicant, jobID int64, sub applications.Submission, now time.Time) (applications.Application, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return applications.Application{}, NotFoundErr
	}
	for _, a := range s.applications {
		if a.Applicant == applicant && a.Job == jobID {
			return applications.Application{}, AlreadyAppliedErr
		}
	}

	a := &applications.Application{
		ID:          s.id(),
		Job:         jobID,
		JobTitle:    j.Title,
		CompanyName: j.Company.Name,
		Applicant:   applicant,
		CoverLetter: sub.CoverLetter,
		Resume:      sub.Resume,
		Status:      applications.StatusPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	s.applications[a.ID] = a
	return *a, nil
}

// Application returns the application if userID may see it: its applicant or the
// employer owning the job.
func (s *Store) Application(id, userID int64) (applications.Application, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	a, ok := s.applications[id]
	if !ok || (a.Applicant != userID && s.jobOwner(a.Job) != userID) {
		return applications.Application{}, NotFoundErr
	}
	return *a, nil
}

// Applications lists what userID may see, newest first, optionally only in status.
func (s *Store) Applications(userID int64, status applications.Status) []applications.Application {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make([]applications.Application, 0)
	for _, a := range s.applications {
		if a.Applicant != userID && s.jobOwner(a.Job) != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) SetStatus(id int64, status applications.Status, now time.Time) (applications.Application, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return applications.Application{}, NotFoundErr
	}
	a.Status = status
	a.UpdatedAt = now
	return *a, nil
}

func (s *Store) DeleteApplication(id int64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.applications[id]; !ok {
		return NotFoundErr
	}
	delete(s.applications, id)
	return nil
}
