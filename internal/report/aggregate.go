// Package report derives read-only views from a roster snapshot:
// paid/unpaid lists, monthly overviews and the CSV export.
//
// A member with no record for a date counts as unpaid on that date.
package report

import (
	"strings"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/status"
)

// FilterByName keeps members whose name contains q, ignoring case. An empty q keeps all.
func FilterByName(members []model.Member, q string) []model.Member {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return members
	}
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}

// PaidOn returns the members with a paid record on date, in roster order.
func PaidOn(members []model.Member, date model.Date) []model.Member {
	paid, _ := split(members, date)
	return paid
}

// UnpaidOn is the complement of PaidOn: unpaid, pending and missing records all count.
func UnpaidOn(members []model.Member, date model.Date) []model.Member {
	_, unpaid := split(members, date)
	return unpaid
}

func split(members []model.Member, date model.Date) (paid, unpaid []model.Member) {
	paid = []model.Member{}
	unpaid = []model.Member{}
	for _, m := range members {
		if status.New(m.ID, m.DailyStatuses).IsPaidOn(date) {
			paid = append(paid, m)
		} else {
			unpaid = append(unpaid, m)
		}
	}
	return paid, unpaid
}

type DailyStats struct {
	Date   model.Date
	Total  int
	Paid   []model.Member
	Unpaid []model.Member
}

func Daily(members []model.Member, date model.Date) DailyStats {
	paid, unpaid := split(members, date)
	return DailyStats{
		Date:   date,
		Total:  len(members),
		Paid:   paid,
		Unpaid: unpaid,
	}
}

// MonthSummary counts explicit records in one calendar month.
type MonthSummary struct {
	Month   string // YYYY-MM
	Paid    int
	Unpaid  int
	Pending int
}

// Overview summarizes the last months calendar months ending with today's month,
// oldest first. Unlike PaidOn/UnpaidOn it counts recorded observations only.
func Overview(members []model.Member, today model.Date, months int) []MonthSummary {
	if months <= 0 {
		return []MonthSummary{}
	}

	first := today.FirstOfMonth().AddMonths(-(months - 1))
	summaries := make([]MonthSummary, months)
	index := make(map[string]int, months)
	for i := range summaries {
		key := monthKey(first.AddMonths(i))
		summaries[i].Month = key
		index[key] = i
	}

	for _, m := range members {
		for _, s := range m.DailyStatuses {
			i, ok := index[monthKey(s.Date)]
			if !ok {
				continue
			}
			switch s.Status {
			case model.StatusPaid:
				summaries[i].Paid++
			case model.StatusUnpaid:
				summaries[i].Unpaid++
			case model.StatusPending:
				summaries[i].Pending++
			}
		}
	}
	return summaries
}

func monthKey(d model.Date) string {
	return d.String()[:7]
}
