package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/d-madiou/job-board-client/jobs"
)

func runJobs(cc *commandContext, args []string) error {
	fs := cc.flagSet("jobs")
	var f jobs.Filter
	var jobType, level string
	fs.StringVar(&f.Search, "search", "", "search title, description and company")
	fs.StringVar(&f.Location, "location", "", "location contains")
	fs.StringVar(&jobType, "type", "", "full_time, part_time, contract, internship or remote")
	fs.StringVar(&level, "level", "", "entry, mid, senior or lead")
	fs.Int64Var(&f.Company, "company", 0, "company id")
	fs.StringVar(&f.Ordering, "order", "", "created_at, -created_at, title or -title")
	fs.IntVar(&f.Page, "page", 1, "page number")
	fs.IntVar(&f.PageSize, "size", 0, "page size (default 10, max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.JobType = jobs.JobType(strings.ToLower(jobType))
	f.ExperienceLevel = jobs.ExperienceLevel(strings.ToLower(level))

	svc, err := jobs.NewService(cc.Client)
	if err != nil {
		return err
	}
	page, err := svc.ListJobs(cc.Ctx, f)
	if err != nil {
		return err
	}
	return printJobs(cc.Out, page)
}

func runJob(cc *commandContext, args []string) error {
	id, err := parseID(args, "job")
	if err != nil {
		return err
	}
	svc, err := jobs.NewService(cc.Client)
	if err != nil {
		return err
	}
	job, err := svc.GetJob(cc.Ctx, id)
	if err != nil {
		return err
	}
	return printJob(cc.Out, &job)
}

func runCompanies(cc *commandContext, args []string) error {
	fs := cc.flagSet("companies")
	search := fs.String("search", "", "company name contains")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 0, "page size (default 10, max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := jobs.NewService(cc.Client)
	if err != nil {
		return err
	}
	companies, err := svc.ListCompanies(cc.Ctx, *search, *page, *size)
	if err != nil {
		return err
	}
	return printCompanies(cc.Out, companies)
}

// parseID reads a positive numeric id from the first argument.
func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s id is required", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, args[0])
	}
	return id, nil
}
