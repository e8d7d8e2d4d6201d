package prescriptions

import (
	"strings"
	"time"
)

// StatusFilter selects prescriptions by expiry.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusActive  StatusFilter = "active"
	StatusExpired StatusFilter = "expired"
)

// ParseStatusFilter accepts all, active or expired; blank means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); s {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusExpired:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// Filter narrows a prescription list.
type Filter struct {
	Status StatusFilter
	Search string
}

// Apply keeps prescriptions matching the status at now and whose doctor or
// any medication name contains Search, case-insensitively.
func (f Filter) Apply(list []*Prescription, now time.Time) []*Prescription {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Prescription, 0, len(list))
	for _, p := range list {
		switch f.Status {
		case StatusActive:
			if p.Expired(now) {
				continue
			}
		case StatusExpired:
			if !p.Expired(now) {
				continue
			}
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p *Prescription, search string) bool {
	if strings.Contains(strings.ToLower(p.DoctorName), search) {
		return true
	}
	for _, m := range p.Medications {
		if strings.Contains(strings.ToLower(m.Name), search) {
			return true
		}
	}
	return false
}
