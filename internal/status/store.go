// Package status keeps the sparse date -> payment status mapping of one member.
package status

import (
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
)

// Store holds at most one record per date for a single member.
// It is not safe for concurrent use; the owning directory serializes access.
type Store struct {
	memberID string
	records  []model.DailyStatus
	byDate   map[model.Date]int
}

// New builds a store from existing records. When records repeat a date the later one wins.
func New(memberID string, records []model.DailyStatus) *Store {
	s := &Store{
		memberID: memberID,
		records:  make([]model.DailyStatus, 0, len(records)),
		byDate:   make(map[model.Date]int, len(records)),
	}
	for _, r := range records {
		s.put(r)
	}
	return s
}

// Get returns the status recorded for date.
func (s *Store) Get(date model.Date) (model.PaymentStatus, bool) {
	i, ok := s.byDate[date]
	if !ok {
		return "", false
	}
	return s.records[i].Status, true
}

// Upsert replaces the status of an existing record in place, keeping its id and
// timestamps, or appends a new record. Repeated calls never duplicate a date.
func (s *Store) Upsert(date model.Date, status model.PaymentStatus) model.DailyStatus {
	if i, ok := s.byDate[date]; ok {
		s.records[i].Status = status
		return s.records[i]
	}
	return s.put(model.DailyStatus{MemberID: s.memberID, Date: date, Status: status})
}

// Confirm copies identity and timestamps from a persisted record onto the local one,
// but only while the local status still matches; a newer local edit is left alone.
func (s *Store) Confirm(persisted model.DailyStatus) bool {
	i, ok := s.byDate[persisted.Date]
	if !ok || s.records[i].Status != persisted.Status {
		return false
	}
	s.records[i].ID = persisted.ID
	s.records[i].BaseEntity = persisted.BaseEntity
	return true
}

// IsPaidOn is true only when a paid record exists for date. No record means not paid.
func (s *Store) IsPaidOn(date model.Date) bool {
	status, ok := s.Get(date)
	return ok && status == model.StatusPaid
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []model.DailyStatus {
	out := make([]model.DailyStatus, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) put(r model.DailyStatus) model.DailyStatus {
	r.MemberID = s.memberID
	if i, ok := s.byDate[r.Date]; ok {
		s.records[i] = r
		return r
	}
	s.byDate[r.Date] = len(s.records)
	s.records = append(s.records, r)
	return r
}
