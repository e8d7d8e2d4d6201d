package visits

import (
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/scheduling"
)

// Filter narrows a visit history. Zero values match everything.
type Filter struct {
	Search         string
	Doctor         string
	Hospital       string
	Specialization string
	StartDate      *time.Time
	EndDate        *time.Time
}

// FilterFromQuery reads search, doctor, hospital, specialization,
// start_date and end_date query parameters.
func FilterFromQuery(q url.Values, loc *time.Location) (Filter, error) {
	f := Filter{
		Search:         q.Get("search"),
		Doctor:         q.Get("doctor"),
		Hospital:       q.Get("hospital"),
		Specialization: q.Get("specialization"),
	}
	if raw := q.Get("start_date"); raw != "" {
		d, err := scheduling.ParseDate(raw, loc)
		if err != nil {
			return Filter{}, err
		}
		f.StartDate = &d
	}
	if raw := q.Get("end_date"); raw != "" {
		d, err := scheduling.ParseDate(raw, loc)
		if err != nil {
			return Filter{}, err
		}
		f.EndDate = &d
	}
	return f, nil
}

// Apply returns the visits matching every set criterion, preserving order.
// Text criteria are case-insensitive substrings; Search matches doctor,
// hospital or diagnosis. Date bounds are inclusive calendar days.
func (f Filter) Apply(visits []*Visit) []*Visit {
	search := normalize(f.Search)
	doctor := normalize(f.Doctor)
	hospital := normalize(f.Hospital)
	specialization := normalize(f.Specialization)

	out := make([]*Visit, 0, len(visits))
	for _, v := range visits {
		if search != "" &&
			!contains(v.DoctorName, search) &&
			!contains(v.HospitalName, search) &&
			!contains(v.Diagnosis, search) {
			continue
		}
		if doctor != "" && !contains(v.DoctorName, doctor) {
			continue
		}
		if hospital != "" && !contains(v.HospitalName, hospital) {
			continue
		}
		if specialization != "" && !contains(v.Specialization, specialization) {
			continue
		}
		if f.StartDate != nil && dayKey(v.VisitDate) < dayKey(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && dayKey(v.VisitDate) > dayKey(*f.EndDate) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}

// dayKey orders calendar days as yyyymmdd.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
