package apifake

import (
	"fmt"
	"time"

	"github.com/d-madiou/job-board-client/apifake/accounts"
	"github.com/d-madiou/job-board-client/internal/utils"
	"github.com/d-madiou/job-board-client/jobs"
	"github.com/d-madiou/job-board-client/users"
)

// Seeded accounts, for local development and tests.
const (
	SeedEmployerEmail = "hiring@acme.example.com"
	SeedSeekerEmail   = "jane@example.com"
	SeedPassword      = "Secret123"
)

type seedJob struct {
	title    string
	company  int
	location string
	jobType  jobs.JobType
	level    jobs.ExperienceLevel
	min, max string
}

var seedCompanies = []jobs.Company{
	{Name: "Acme Corp", Industry: "Manufacturing", Location: "Conakry", Website: "https://acme.example.com"},
	{Name: "Globex", Industry: "Software", Location: "Dakar", Website: "https://globex.example.com"},
	{Name: "Initech", Industry: "Finance", Location: "Remote"},
}

var seedJobs = []seedJob{
	{"Backend Engineer", 1, "Dakar", jobs.FullTime, jobs.MidLevel, "45000.00", "60000.00"},
	{"Frontend Engineer", 1, "Dakar", jobs.FullTime, jobs.EntryLevel, "30000.00", "42000.00"},
	{"Site Reliability Engineer", 1, "Remote", jobs.Remote, jobs.SeniorLevel, "70000.00", "90000.00"},
	{"Data Analyst", 2, "Remote", jobs.Contract, jobs.MidLevel, "", ""},
	{"Accountant", 2, "Remote", jobs.FullTime, jobs.SeniorLevel, "50000.00", ""},
	{"Finance Intern", 2, "Remote", jobs.Internship, jobs.EntryLevel, "", "12000.00"},
	{"Plant Manager", 0, "Conakry", jobs.FullTime, jobs.LeadLevel, "80000.00", "95000.00"},
	{"Quality Inspector", 0, "Conakry", jobs.PartTime, jobs.EntryLevel, "", ""},
	{"Logistics Coordinator", 0, "Kindia", jobs.FullTime, jobs.MidLevel, "35000.00", "45000.00"},
	{"Mobile Developer", 1, "Remote", jobs.Remote, jobs.MidLevel, "50000.00", "65000.00"},
	{"Product Designer", 1, "Dakar", jobs.Contract, jobs.SeniorLevel, "", ""},
	{"Engineering Lead", 1, "Dakar", jobs.FullTime, jobs.LeadLevel, "95000.00", "120000.00"},
}

// Seed creates an employer owning a few companies and jobs, and a job seeker.
func (s *Server) Seed() error {
	employer, err := s.createSeedAccount(users.User{
		Email:     SeedEmployerEmail,
		Username:  "acme-hiring",
		FirstName: "Alex",
		LastName:  "Hiring",
		Role:      users.RoleEmployer,
	})
	if err != nil {
		return fmt.Errorf("[Server Seed] employer: %w", err)
	}
	if _, err := s.createSeedAccount(users.User{
		Email:     SeedSeekerEmail,
		Username:  "jane",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      users.RoleUser,
		Location:  "Dakar",
	}); err != nil {
		return fmt.Errorf("[Server Seed] job seeker: %w", err)
	}

	now := s.Now().UTC()
	companyIDs := make([]int64, 0, len(seedCompanies))
	for _, c := range seedCompanies {
		c.CreatedAt = now
		companyIDs = append(companyIDs, s.catalog.AddCompany(c, employer.User.ID).ID)
	}

	for i, sj := range seedJobs {
		j := jobs.Job{
			Title:           sj.title,
			Description:     sj.title + " wanted at a growing team.",
			Company:         jobs.Company{ID: companyIDs[sj.company]},
			Location:        sj.location,
			JobType:         sj.jobType,
			ExperienceLevel: sj.level,
			IsActive:        true,
			Deadline:        utils.Ptr(now.AddDate(0, 1, 0)),
			CreatedAt:       now.Add(time.Duration(i) * time.Minute),
		}
		if sj.min != "" {
			j.SalaryMin = utils.Ptr(sj.min)
		}
		if sj.max != "" {
			j.SalaryMax = utils.Ptr(sj.max)
		}
		if _, err := s.catalog.AddJob(j); err != nil {
			return fmt.Errorf("[Server Seed] job %q: %w", sj.title, err)
		}
	}

	s.logger.Info().
		Str("employer", SeedEmployerEmail).
		Str("job_seeker", SeedSeekerEmail).
		Int("jobs", len(seedJobs)).
		Msg("seeded development data")
	return nil
}

func (s *Server) createSeedAccount(u users.User) (*accounts.Account, error) {
	u.DateJoined = s.Now().UTC()
	account := &accounts.Account{User: u}
	if err := account.SetPassword(SeedPassword, s.bcryptCost); err != nil {
		return nil, err
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}
