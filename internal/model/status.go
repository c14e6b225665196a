package model

import (
	"fmt"
	"strings"
)

// PaymentStatus is one payment observation for a member on a date.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPending PaymentStatus = "pending"
)

// Known reports whether p is one of the three statuses any deployment may use.
func (p PaymentStatus) Known() bool {
	switch p {
	case StatusPaid, StatusUnpaid, StatusPending:
		return true
	}
	return false
}

// StatusMode names the closed set of statuses a deployment accepts.
type StatusMode string

const (
	TwoState   StatusMode = "two-state"
	ThreeState StatusMode = "three-state"
)

// StatusSet is the closed set of statuses configured once per deployment.
type StatusSet struct {
	mode     StatusMode
	statuses []PaymentStatus
}

// NewStatusSet returns the set for mode. Unknown modes are rejected.
func NewStatusSet(mode StatusMode) (StatusSet, error) {
	switch mode {
	case TwoState:
		return StatusSet{mode: mode, statuses: []PaymentStatus{StatusPaid, StatusUnpaid}}, nil
	case ThreeState:
		return StatusSet{mode: mode, statuses: []PaymentStatus{StatusPaid, StatusUnpaid, StatusPending}}, nil
	default:
		return StatusSet{}, fmt.Errorf("unknown status mode %q (want %s or %s)", mode, TwoState, ThreeState)
	}
}

func (s StatusSet) Mode() StatusMode {
	return s.mode
}

// Contains reports whether status belongs to the set.
func (s StatusSet) Contains(status PaymentStatus) bool {
	for _, candidate := range s.statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// Parse normalizes raw and checks it against the set.
func (s StatusSet) Parse(raw string) (PaymentStatus, bool) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	return status, s.Contains(status)
}

// Statuses returns a copy of the members of the set.
func (s StatusSet) Statuses() []PaymentStatus {
	out := make([]PaymentStatus, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// HasPending reports whether the three-state pending value is allowed.
func (s StatusSet) HasPending() bool {
	return s.Contains(StatusPending)
}
