package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the ISO calendar date layout used on the wire and in CSV headers.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
// It is stored in a DATE column and rendered as YYYY-MM-DD.
type Date struct {
	civil.Date
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Date: d}, nil
}

// MustParseDate is ParseDate for constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Date: civil.DateOf(t)}
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Date == civil.Date{}
}

func (d Date) AddDays(n int) Date {
	return Date{Date: d.Date.AddDays(n)}
}

// AddMonths moves by whole months, normalizing overflowing days the way time.AddDate does.
func (d Date) AddMonths(n int) Date {
	return DateOf(d.Date.In(time.UTC).AddDate(0, n, 0))
}

func (d Date) Before(o Date) bool {
	return d.Date.Before(o.Date)
}

func (d Date) After(o Date) bool {
	return d.Date.After(o.Date)
}

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return d.Date.DaysSince(o.Date)
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Date: civil.Date{Year: d.Year, Month: d.Month, Day: 1}}
}

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date {
	return d.FirstOfMonth().AddMonths(1).AddDays(-1)
}

// Scan implements sql.Scanner. Drivers hand DATE columns back as time.Time,
// string or []byte depending on dialect and DSN options.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("model.Date: unsupported scan type %T", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer as UTC midnight, which every supported dialect accepts for DATE.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Date.In(time.UTC), nil
}

// GormDataType tells gorm to migrate the field as a DATE column.
func (Date) GormDataType() string {
	return "date"
}
