package member

import (
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/payout"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/report"
)

type ListMembersQuery struct {
	Q string `form:"q" binding:"max=100"`
}

type MemberURI struct {
	ID string `uri:"id" binding:"required,max=32"`
}

type UpdatePaymentURI struct {
	ID   string `uri:"id" binding:"required,max=32"`
	Date string `uri:"date" binding:"required,isodate"`
}

type UpdatePaymentRequest struct {
	Status string `json:"status" binding:"required,paystatus"`
}

type StatsQuery struct {
	Date string `form:"date" binding:"omitempty,isodate"`
}

type OverviewQuery struct {
	Months int `form:"months" binding:"omitempty,min=1,max=24"`
}

type ExportQuery struct {
	From string `form:"from" binding:"omitempty,isodate"`
	To   string `form:"to" binding:"omitempty,isodate"`
	Q    string `form:"q" binding:"max=100"`
}

type DailyStatusResponse struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type MemberResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Email         string                `json:"email,omitempty"`
	JoinDate      string                `json:"joinDate"`
	PayoutTurn    int                   `json:"payoutTurn"`
	PayoutDate    string                `json:"payoutDate,omitempty"`
	DailyStatuses []DailyStatusResponse `json:"dailyStatuses"`
}

type MembersResponse struct {
	Count   int              `json:"count"`
	Members []MemberResponse `json:"members"`
}

const (
	SyncQueued = "queued" // written to the store in the background
	SyncLocal  = "local"  // fallback mode, kept in memory only
)

type UpdatePaymentResponse struct {
	MemberID string `json:"memberId"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Sync     string `json:"sync"`
}

type PayoutSlotResponse struct {
	Turn       int    `json:"turn"`
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	PayoutDate string `json:"payoutDate"`
	IsNext     bool   `json:"isNext"`
}

type PayoutScheduleResponse struct {
	Today string               `json:"today"`
	Slots []PayoutSlotResponse `json:"slots"`
}

type NextPayoutResponse struct {
	Found  bool                `json:"found"`
	Member *PayoutSlotResponse `json:"member"`
}

type MemberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StatsResponse struct {
	Date        string          `json:"date"`
	Total       int             `json:"total"`
	PaidCount   int             `json:"paidCount"`
	UnpaidCount int             `json:"unpaidCount"`
	Paid        []MemberSummary `json:"paid"`
	Unpaid      []MemberSummary `json:"unpaid"`
}

type MonthSummaryResponse struct {
	Month   string `json:"month"`
	Paid    int    `json:"paid"`
	Unpaid  int    `json:"unpaid"`
	Pending int    `json:"pending"`
}

type OverviewResponse struct {
	Months []MonthSummaryResponse `json:"months"`
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func dateString(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func toMemberResponse(m model.Member) MemberResponse {
	statuses := make([]DailyStatusResponse, len(m.DailyStatuses))
	for i, s := range m.DailyStatuses {
		statuses[i] = DailyStatusResponse{Date: s.Date.String(), Status: string(s.Status)}
	}
	return MemberResponse{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		JoinDate:      dateString(m.JoinDate),
		PayoutTurn:    m.PayoutTurn,
		PayoutDate:    dateString(m.PayoutDate),
		DailyStatuses: statuses,
	}
}

func toMembersResponse(members []model.Member) *MembersResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	return &MembersResponse{Count: len(out), Members: out}
}

// forGuest drops contact details from a response shown without login.
func (r *MembersResponse) forGuest() *MembersResponse {
	out := &MembersResponse{Count: r.Count, Members: make([]MemberResponse, len(r.Members))}
	for i, m := range r.Members {
		m.Email = ""
		out.Members[i] = m
	}
	return out
}

func toSlotResponse(s payout.Slot) PayoutSlotResponse {
	return PayoutSlotResponse{
		Turn:       s.Turn,
		MemberID:   s.MemberID,
		MemberName: s.MemberName,
		PayoutDate: dateString(s.PayoutDate),
		IsNext:     s.IsNext,
	}
}

func toSummaries(members []model.Member) []MemberSummary {
	out := make([]MemberSummary, len(members))
	for i, m := range members {
		out[i] = MemberSummary{ID: m.ID, Name: m.Name}
	}
	return out
}

func toStatsResponse(stats report.DailyStats) *StatsResponse {
	return &StatsResponse{
		Date:        stats.Date.String(),
		Total:       stats.Total,
		PaidCount:   len(stats.Paid),
		UnpaidCount: len(stats.Unpaid),
		Paid:        toSummaries(stats.Paid),
		Unpaid:      toSummaries(stats.Unpaid),
	}
}
