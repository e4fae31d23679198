// Package jobs browses job postings and companies.
package jobs

import (
	"time"
)

type JobType string

const (
	FullTime   JobType = "full_time"
	PartTime   JobType = "part_time"
	Contract   JobType = "contract"
	Internship JobType = "internship"
	Remote     JobType = "remote"
)

func JobTypes() []JobType {
	return []JobType{FullTime, PartTime, Contract, Internship, Remote}
}

type ExperienceLevel string

const (
	EntryLevel  ExperienceLevel = "entry"
	MidLevel    ExperienceLevel = "mid"
	SeniorLevel ExperienceLevel = "senior"
	LeadLevel   ExperienceLevel = "lead"
)

func ExperienceLevels() []ExperienceLevel {
	return []ExperienceLevel{EntryLevel, MidLevel, SeniorLevel, LeadLevel}
}

type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Location    string    `json:"location,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	JobCount    int       `json:"job_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type Job struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements,omitempty"`
	Company         Company         `json:"company"`
	Location        string          `json:"location"`
	JobType         JobType         `json:"job_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	SalaryMin       *string         `json:"salary_min,omitempty"` // decimal string, e.g. "45000.00"
	SalaryMax       *string         `json:"salary_max,omitempty"`
	IsActive        bool            `json:"is_active"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Open reports whether the job still takes applications at now.
func (j *Job) Open(now time.Time) bool {
	if !j.IsActive {
		return false
	}
	return j.Deadline == nil || now.Before(*j.Deadline)
}

// SalaryRange formats the salary bounds for display, or "" when neither is set.
func (j *Job) SalaryRange() string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return *j.SalaryMin + " - " + *j.SalaryMax
	case j.SalaryMin != nil:
		return "from " + *j.SalaryMin
	case j.SalaryMax != nil:
		return "up to " + *j.SalaryMax
	}
	return ""
}
