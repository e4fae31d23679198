package jobs

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/d-madiou/job-board-client/apiclient"
)

// Filter narrows a job listing. Zero fields are not sent.
type Filter struct {
	Search          string
	Location        string
	JobType         JobType
	ExperienceLevel ExperienceLevel
	Company         int64
	Ordering        string // e.g. "-created_at"
	Page            int
	PageSize        int
}

// Values encodes the filter as query parameters. Page and PageSize are always sent,
// clamped to the range the API accepts.
func (f Filter) Values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			q.Set(key, v)
		}
	}
	set("search", f.Search)
	set("location", f.Location)
	set("job_type", string(f.JobType))
	set("experience_level", string(f.ExperienceLevel))
	set("ordering", f.Ordering)
	if f.Company != 0 {
		q.Set("company", strconv.FormatInt(f.Company, 10))
	}
	apiclient.SetPage(q, f.Page, f.PageSize)
	return q
}
