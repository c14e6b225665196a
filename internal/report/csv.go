package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/status"
)

const (
	csvYes = "Yes"
	csvNo  = "No"
)

// WriteCSV writes the payment grid: a header of Name and each date, then one row
// per member with the quoted name and Yes/No per date. Lines are separated by a
// single newline with none after the last row.
func WriteCSV(w io.Writer, members []model.Member, dates []model.Date) error {
	bw := bufio.NewWriter(w)

	header := make([]string, 0, len(dates)+1)
	header = append(header, "Name")
	for _, d := range dates {
		header = append(header, d.String())
	}
	bw.WriteString(strings.Join(header, ","))

	row := make([]string, len(dates)+1)
	for _, m := range members {
		store := status.New(m.ID, m.DailyStatuses)
		row[0] = quote(m.Name)
		for i, d := range dates {
			row[i+1] = csvNo
			if store.IsPaidOn(d) {
				row[i+1] = csvYes
			}
		}
		bw.WriteString("\n")
		bw.WriteString(strings.Join(row, ","))
	}

	return bw.Flush()
}

// ExportCSV renders WriteCSV into a string.
func ExportCSV(members []model.Member, dates []model.Date) string {
	var sb strings.Builder
	_ = WriteCSV(&sb, members, dates)
	return sb.String()
}

// FileName is the download name for an export generated on day.
func FileName(day model.Date) string {
	return "member_statuses_" + day.String() + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
