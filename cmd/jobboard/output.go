package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/applications"
	"github.com/d-madiou/job-board-client/jobs"
	"github.com/d-madiou/job-board-client/users"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printUser(w io.Writer, u *users.User) error {
	tw := newTable(w)
	_, _ = fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
	_, _ = fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	if u.Username != "" {
		_, _ = fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	}
	_, _ = fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.Location != "" {
		_, _ = fmt.Fprintf(tw, "Location:\t%s\n", u.Location)
	}
	if u.Phone != "" {
		_, _ = fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	}
	if u.Bio != "" {
		_, _ = fmt.Fprintf(tw, "Bio:\t%s\n", u.Bio)
	}
	return tw.Flush()
}

func printJobs(w io.Writer, page apiclient.Page[jobs.Job]) error {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tLEVEL\tSALARY")
	for _, j := range page.Results {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Title, j.Company.Name, j.Location, j.JobType, j.ExperienceLevel, j.SalaryRange())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printPageFooter(w, page.Number, page.TotalPages(), page.Count, "jobs")
}

func printJob(w io.Writer, j *jobs.Job) error {
	tw := newTable(w)
	_, _ = fmt.Fprintf(tw, "Title:\t%s\n", j.Title)
	_, _ = fmt.Fprintf(tw, "Company:\t%s\n", j.Company.Name)
	_, _ = fmt.Fprintf(tw, "Location:\t%s\n", j.Location)
	_, _ = fmt.Fprintf(tw, "Type:\t%s\n", j.JobType)
	_, _ = fmt.Fprintf(tw, "Level:\t%s\n", j.ExperienceLevel)
	if s := j.SalaryRange(); s != "" {
		_, _ = fmt.Fprintf(tw, "Salary:\t%s\n", s)
	}
	if j.Deadline != nil {
		_, _ = fmt.Fprintf(tw, "Deadline:\t%s\n", j.Deadline.Format(dateLayout))
	}
	_, _ = fmt.Fprintf(tw, "Posted:\t%s\n", j.CreatedAt.Format(dateLayout))
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", j.Description)
	if j.Requirements != "" {
		_, _ = fmt.Fprintf(w, "\nRequirements:\n%s\n", j.Requirements)
	}
	return nil
}

func printCompanies(w io.Writer, page apiclient.Page[jobs.Company]) error {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tINDUSTRY\tLOCATION\tOPEN JOBS")
	for _, c := range page.Results {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Industry, c.Location, c.JobCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printPageFooter(w, page.Number, page.TotalPages(), page.Count, "companies")
}

func printApplications(w io.Writer, page apiclient.Page[applications.Application]) error {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tJOB\tCOMPANY\tSTATUS\tAPPLIED")
	for _, a := range page.Results {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.JobTitle, a.CompanyName, a.Status, a.AppliedAt.Format(dateLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printPageFooter(w, page.Number, page.TotalPages(), page.Count, "applications")
}

func printPageFooter(w io.Writer, number, total, count int, noun string) error {
	if count == 0 {
		_, err := fmt.Fprintf(w, "No %s found\n", noun)
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d %s)\n", number, total, count, noun)
	return err
}
