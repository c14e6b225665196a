// Package payout assigns biweekly payout turns and dates to the roster.
package payout

import (
	"sort"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
)

// DefaultIntervalDays is the cadence used by every committee so far.
const DefaultIntervalDays = 15

// Rotation is the fixed cadence the schedule is computed from.
type Rotation struct {
	StartDate    model.Date
	IntervalDays int
}

// DateForTurn returns the payout date of a 1-based turn.
func (r Rotation) DateForTurn(turn int) model.Date {
	return r.StartDate.AddDays((turn - 1) * r.IntervalDays)
}

// Assign returns copies of members with PayoutTurn = i+1 and
// PayoutDate = StartDate + i*IntervalDays for position i. The input is not modified.
func (r Rotation) Assign(members []model.Member) []model.Member {
	out := make([]model.Member, len(members))
	for i, m := range members {
		assigned := m.Clone()
		assigned.PayoutTurn = i + 1
		assigned.PayoutDate = r.DateForTurn(i + 1)
		out[i] = assigned
	}
	return out
}

// Slot is one row of the payout schedule.
type Slot struct {
	Turn       int
	MemberID   string
	MemberName string
	PayoutDate model.Date
	IsNext     bool
}

// Schedule lists members by ascending turn and flags the next payout relative to today.
func Schedule(members []model.Member, today model.Date) []Slot {
	ordered := byTurn(members)
	next, found := Next(ordered, today)

	slots := make([]Slot, 0, len(ordered))
	for _, m := range ordered {
		slots = append(slots, Slot{
			Turn:       m.PayoutTurn,
			MemberID:   m.ID,
			MemberName: m.Name,
			PayoutDate: m.PayoutDate,
			IsNext:     found && m.ID == next.ID,
		})
	}
	return slots
}

// Next returns the member whose payout date is the earliest one on or after today.
// Equal dates resolve to the lower turn. Members without a payout date are skipped.
// found is false for an empty roster or when every payout date has passed.
func Next(members []model.Member, today model.Date) (next model.Member, found bool) {
	for _, m := range members {
		if m.PayoutDate.IsZero() || m.PayoutDate.Before(today) {
			continue
		}
		if !found ||
			m.PayoutDate.Before(next.PayoutDate) ||
			(m.PayoutDate == next.PayoutDate && m.PayoutTurn < next.PayoutTurn) {
			next = m
			found = true
		}
	}
	return next, found
}

func byTurn(members []model.Member) []model.Member {
	ordered := make([]model.Member, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PayoutTurn < ordered[j].PayoutTurn
	})
	return ordered
}
