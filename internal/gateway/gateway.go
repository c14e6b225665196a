// Package gateway is the only component that talks to the remote relational store.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultPageSize  = 1000
	defaultBatchSize = 200
)

// Gateway loads the roster and writes statuses through gorm.
// A Gateway built with a nil handle is "not configured" and performs no I/O.
type Gateway struct {
	db       *gorm.DB
	members  *MemberRepository
	statuses *StatusRepository
	pageSize int
}

type Option func(*Gateway)

// WithPageSize sets how many rows each paged read fetches.
func WithPageSize(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.pageSize = n
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Gateway {
	g := &Gateway{
		db:       db,
		members:  NewMemberRepository(),
		statuses: NewStatusRepository(),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsConfigured is a capability check only; it never touches the network.
func (g *Gateway) IsConfigured() bool {
	return g != nil && g.db != nil
}

// LoadRoster reads every member and every status, paging through both tables
// until a short page, and attaches statuses to their member. Members are
// returned in payout turn order.
func (g *Gateway) LoadRoster(ctx context.Context) ([]model.Member, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}
	log := logger.FromContext(ctx)

	var (
		members  []model.Member
		statuses []model.DailyStatus
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		members, err = g.loadMembers(egCtx)
		return transport("load members", err)
	})
	eg.Go(func() error {
		var err error
		statuses, err = g.loadStatuses(egCtx)
		return transport("load daily statuses", err)
	})
	if err := eg.Wait(); err != nil {
		log.Error("roster load failed", "error", err)
		return nil, err
	}

	index := make(map[string]int, len(members))
	for i := range members {
		members[i].DailyStatuses = []model.DailyStatus{}
		index[members[i].ID] = i
	}
	orphans := 0
	for _, s := range statuses {
		i, ok := index[s.MemberID]
		if !ok {
			orphans++
			continue
		}
		members[i].DailyStatuses = append(members[i].DailyStatuses, s)
	}
	if orphans > 0 {
		log.Warn("daily statuses without a member were skipped", "count", orphans)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].PayoutTurn < members[j].PayoutTurn
	})

	log.Info("roster loaded", "members", len(members), "statuses", len(statuses)-orphans)
	return members, nil
}

func (g *Gateway) loadMembers(ctx context.Context) ([]model.Member, error) {
	var all []model.Member
	after := ""
	for {
		page, err := g.members.FindPage(ctx, g.db, after, g.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < g.pageSize {
			return all, nil
		}
		after = page[len(page)-1].ID
	}
}

func (g *Gateway) loadStatuses(ctx context.Context) ([]model.DailyStatus, error) {
	var all []model.DailyStatus
	var after uint64
	for {
		page, err := g.statuses.FindPage(ctx, g.db, after, g.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < g.pageSize {
			return all, nil
		}
		after = page[len(page)-1].ID
	}
}

// UpsertStatus updates the (memberID, date) row, inserting it when no row matched.
// The two steps are not atomic: when a concurrent writer inserts the same key
// first, the insert fails on the unique index and the update is tried once more,
// so the last writer wins.
func (g *Gateway) UpsertStatus(ctx context.Context, memberID string, date model.Date, status model.PaymentStatus) (*model.DailyStatus, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	record, err := g.upsertStatus(ctx, memberID, date, status)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.FromContext(ctx).Warn("status insert lost a race, retrying as update",
			"member_id", memberID, "date", date.String())
		record, err = g.upsertStatus(ctx, memberID, date, status)
	}
	if err != nil {
		return nil, transport("upsert daily status", err)
	}
	return record, nil
}

func (g *Gateway) upsertStatus(ctx context.Context, memberID string, date model.Date, status model.PaymentStatus) (*model.DailyStatus, error) {
	matched, err := g.statuses.UpdateByKey(ctx, g.db, memberID, date, status)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		record := &model.DailyStatus{MemberID: memberID, Date: date, Status: status}
		if err := g.statuses.Create(ctx, g.db, record); err != nil {
			return nil, err
		}
		return record, nil
	}
	return g.statuses.FindByKey(ctx, g.db, memberID, date)
}

// SeedInitialData upserts members by id and inserts their statuses in one transaction.
// A status already stored for (member_id, date) is never overwritten, so reseeding
// with a different generator seed keeps recorded payments.
func (g *Gateway) SeedInitialData(ctx context.Context, members []model.Member) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	rows := make([]model.Member, len(members))
	var statuses []model.DailyStatus
	for i, m := range members {
		rows[i] = m
		rows[i].DailyStatuses = nil
		for _, s := range m.DailyStatuses {
			s.ID = 0
			s.MemberID = m.ID
			statuses = append(statuses, s)
		}
	}

	err := database.WithTransaction(ctx, g.db, func(tx *gorm.DB) error {
		if err := g.members.UpsertAll(ctx, tx, rows, defaultBatchSize); err != nil {
			return err
		}
		return g.statuses.InsertMissing(ctx, tx, statuses, defaultBatchSize)
	})
	if err != nil {
		return transport("seed initial data", err)
	}

	logger.FromContext(ctx).Info("initial data seeded", "members", len(members), "statuses", len(statuses))
	return nil
}

// SeedIfEmpty seeds the roster produced by generate when the members table is empty.
// It reports whether seeding happened.
func (g *Gateway) SeedIfEmpty(ctx context.Context, generate func() []model.Member) (bool, error) {
	if !g.IsConfigured() {
		return false, ErrNotConfigured
	}

	count, err := g.members.Count(ctx, g.db)
	if err != nil {
		return false, transport("count members", err)
	}
	if count > 0 {
		slog.Debug("seed skipped, roster already present", "members", count)
		return false, nil
	}

	if err := g.SeedInitialData(ctx, generate()); err != nil {
		return false, err
	}
	return true, nil
}
