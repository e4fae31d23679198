package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d-madiou/job-board-client/applications"
	"github.com/d-madiou/job-board-client/forms"
)

func runApply(cc *commandContext, args []string) error {
	if _, err := cc.requireLogin(); err != nil {
		return err
	}
	jobID, err := parseID(args, "job")
	if err != nil {
		return err
	}
	fs := cc.flagSet("apply")
	var sub applications.Submission
	fs.StringVar(&sub.CoverLetter, "cover", "", "cover letter")
	fs.StringVar(&sub.Resume, "resume", "", "link to your CV")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := sub.Validate(); err != nil {
		return errors.New(forms.Message(err))
	}

	svc, err := applications.NewService(cc.Client)
	if err != nil {
		return err
	}
	app, err := svc.Apply(cc.Ctx, jobID, sub)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "Applied to %s at %s (application %d, %s)\n", app.JobTitle, app.CompanyName, app.ID, app.Status)
	return err
}

func runApplications(cc *commandContext, args []string) error {
	if _, err := cc.requireLogin(); err != nil {
		return err
	}
	fs := cc.flagSet("applications")
	status := fs.String("status", "", "only applications in this status")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 0, "page size (default 10, max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var st applications.Status
	if *status != "" {
		parsed, err := applications.ParseStatus(strings.ToLower(*status))
		if err != nil {
			return err
		}
		st = parsed
	}

	svc, err := applications.NewService(cc.Client)
	if err != nil {
		return err
	}
	list, err := svc.ListMine(cc.Ctx, st, *page, *size)
	if err != nil {
		return err
	}
	return printApplications(cc.Out, list)
}

func runWithdraw(cc *commandContext, args []string) error {
	if _, err := cc.requireLogin(); err != nil {
		return err
	}
	id, err := parseID(args, "application")
	if err != nil {
		return err
	}
	svc, err := applications.NewService(cc.Client)
	if err != nil {
		return err
	}
	if err := svc.Withdraw(cc.Ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "Withdrew application %d\n", id)
	return err
}
