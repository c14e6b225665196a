package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/payout"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/report"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
)

const DefaultOverviewMonths = 6

type MemberService struct {
	directory *Directory
	rotation  payout.Rotation
	today     func() model.Date
}

type ServiceOption func(*MemberService)

// WithClock overrides how the service decides what "today" is.
func WithClock(today func() model.Date) ServiceOption {
	return func(s *MemberService) {
		s.today = today
	}
}

func NewMemberService(directory *Directory, rotation payout.Rotation, opts ...ServiceOption) *MemberService {
	s := &MemberService{
		directory: directory,
		rotation:  rotation,
		today:     model.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// roster loads the directory on first use and maps gateway failures to
// the two user-visible states: not configured and failed to load.
func (s *MemberService) roster(ctx context.Context) ([]model.Member, error) {
	members, err := s.directory.Load(ctx)
	if err != nil {
		return nil, rosterError(err)
	}
	return s.withPayoutDates(members), nil
}

// rosterError maps gateway failures onto roster domain errors. Anything else is
// left as is and answered as an internal error.
func rosterError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		return fmt.Errorf("%w: %w", ErrRosterNotConfigured, err)
	case gateway.IsTransport(err), errors.Is(err, ErrNotLoaded):
		return fmt.Errorf("%w: %w", ErrRosterLoadFailed, err)
	default:
		return err
	}
}

// withPayoutDates fills payout dates that were stored without one from the rotation.
func (s *MemberService) withPayoutDates(members []model.Member) []model.Member {
	for i := range members {
		if members[i].PayoutDate.IsZero() && members[i].PayoutTurn > 0 {
			members[i].PayoutDate = s.rotation.DateForTurn(members[i].PayoutTurn)
		}
	}
	return members
}

func (s *MemberService) GetMembers(ctx context.Context, q string) (*MembersResponse, error) {
	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	return toMembersResponse(report.FilterByName(members, q)), nil
}

func (s *MemberService) GetMemberByID(ctx context.Context, id string) (*MemberResponse, error) {
	if _, err := s.roster(ctx); err != nil {
		return nil, err
	}

	m, ok := s.directory.GetByID(id)
	if !ok {
		return nil, fmt.Errorf("회원을 찾을 수 없습니다 memberID=%s %w", id, ErrMemberNotFound)
	}
	resp := toMemberResponse(s.withPayoutDates([]model.Member{m})[0])
	return &resp, nil
}

// UpdateMemberPayment applies the status optimistically. The response reflects the
// cache; the store may not have the value yet.
func (s *MemberService) UpdateMemberPayment(ctx context.Context, memberID, date string, req UpdatePaymentRequest) (*UpdatePaymentResponse, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
	}
	if _, err := s.roster(ctx); err != nil {
		return nil, err
	}

	record, err := s.directory.UpdatePayment(ctx, memberID, day, model.PaymentStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) || errors.Is(err, ErrStatusNotAllowed) {
			return nil, err
		}
		return nil, rosterError(err)
	}

	sync := SyncQueued
	if s.directory.IsFallback() {
		sync = SyncLocal
	}
	log := logger.FromContext(ctx).With("member_id", memberID)
	if m, ok := s.directory.GetByID(memberID); ok {
		log = log.With("email", logger.MaskEmail(m.Email))
	}
	log.Info("납부 상태 변경",
		"date", record.Date.String(),
		"status", string(record.Status),
		"sync", sync,
	)

	return &UpdatePaymentResponse{
		MemberID: memberID,
		Date:     record.Date.String(),
		Status:   string(record.Status),
		Sync:     sync,
	}, nil
}

// RefreshMembers discards the cache, including unconfirmed edits, and reloads it.
func (s *MemberService) RefreshMembers(ctx context.Context) (*MembersResponse, error) {
	members, err := s.directory.Refresh(ctx)
	if err != nil {
		return nil, rosterError(err)
	}
	return toMembersResponse(s.withPayoutDates(members)), nil
}

func (s *MemberService) GetNextPayoutMember(ctx context.Context) (*NextPayoutResponse, error) {
	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	next, found := payout.Next(members, s.today())
	if !found {
		return &NextPayoutResponse{Found: false}, nil
	}
	slot := toSlotResponse(payout.Slot{
		Turn:       next.PayoutTurn,
		MemberID:   next.ID,
		MemberName: next.Name,
		PayoutDate: next.PayoutDate,
		IsNext:     true,
	})
	return &NextPayoutResponse{Found: true, Member: &slot}, nil
}

func (s *MemberService) GetPayoutSchedule(ctx context.Context) (*PayoutScheduleResponse, error) {
	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	schedule := payout.Schedule(members, today)
	slots := make([]PayoutSlotResponse, len(schedule))
	for i, slot := range schedule {
		slots[i] = toSlotResponse(slot)
	}
	return &PayoutScheduleResponse{Today: today.String(), Slots: slots}, nil
}

// GetDailyStats counts paid and unpaid members on date, today when empty.
func (s *MemberService) GetDailyStats(ctx context.Context, date string) (*StatsResponse, error) {
	day := s.today()
	if date != "" {
		parsed, err := model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
		}
		day = parsed
	}

	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	return toStatsResponse(report.Daily(members, day)), nil
}

func (s *MemberService) GetOverview(ctx context.Context, months int) (*OverviewResponse, error) {
	if months <= 0 {
		months = DefaultOverviewMonths
	}

	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	summaries := report.Overview(members, s.today(), months)
	out := make([]MonthSummaryResponse, len(summaries))
	for i, m := range summaries {
		out[i] = MonthSummaryResponse{Month: m.Month, Paid: m.Paid, Unpaid: m.Unpaid, Pending: m.Pending}
	}
	return &OverviewResponse{Months: out}, nil
}

// ExportCSV renders the payment grid of members matching q over the requested range.
func (s *MemberService) ExportCSV(ctx context.Context, query ExportQuery) (*ExportResult, error) {
	today := s.today()
	rng, err := report.ParseRange(query.From, query.To, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
	}

	members, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	members = report.FilterByName(members, query.Q)
	return &ExportResult{
		FileName: report.FileName(today),
		Content:  []byte(report.ExportCSV(members, rng.Dates())),
	}, nil
}
