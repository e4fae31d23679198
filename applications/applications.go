// Package applications submits and tracks job applications.
package applications

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewed    Status = "reviewed"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusAccepted}
}

func (s Status) Valid() bool {
	for _, v := range Statuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Final reports whether no further status change is expected.
func (s Status) Final() bool {
	return s == StatusRejected || s == StatusAccepted
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

type Application struct {
	ID          int64     `json:"id"`
	Job         int64     `json:"job"`
	JobTitle    string    `json:"job_title,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	Applicant   int64     `json:"applicant"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Resume      string    `json:"resume,omitempty"`
	Status      Status    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Submission is what an applicant sends with an application.
type Submission struct {
	CoverLetter string `json:"cover_letter"`
	Resume      string `json:"resume,omitempty"` // link to a hosted CV
}

func (s Submission) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.CoverLetter, validation.Length(0, 5000)),
		validation.Field(&s.Resume, is.URL),
	)
}
