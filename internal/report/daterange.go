package report

import (
	"errors"
	"fmt"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
)

// MaxRangeDays bounds a grid or export range.
const MaxRangeDays = 366

var ErrInvalidRange = errors.New("report: invalid date range")

// Range is an inclusive span of calendar dates.
type Range struct {
	From model.Date
	To   model.Date
}

// ParseRange resolves optional from/to query values.
// Both empty selects today's month; from alone selects that single day.
func ParseRange(from, to string, today model.Date) (Range, error) {
	if from == "" && to == "" {
		return Range{From: today.FirstOfMonth(), To: today.LastOfMonth()}, nil
	}
	if from == "" {
		return Range{}, fmt.Errorf("%w: to without from", ErrInvalidRange)
	}

	start, err := model.ParseDate(from)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	end := start
	if to != "" {
		if end, err = model.ParseDate(to); err != nil {
			return Range{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
		}
	}

	if start.After(end) {
		return Range{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, start, end)
	}
	if end.DaysSince(start)+1 > MaxRangeDays {
		return Range{}, fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxRangeDays)
	}
	return Range{From: start, To: end}, nil
}

// Dates lists every date in the range in order.
func (r Range) Dates() []model.Date {
	if r.From.After(r.To) {
		return nil
	}
	dates := make([]model.Date, 0, r.To.DaysSince(r.From)+1)
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
