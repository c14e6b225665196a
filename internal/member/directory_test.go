package member_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusKey struct {
	memberID string
	date     model.Date
}

// fakeGateway keeps rows in memory. Writes for a status listed in hold wait until
// its channel is closed; finished writes are reported on written.
type fakeGateway struct {
	mu         sync.Mutex
	configured bool
	roster     []model.Member
	loadErr    error
	upsertErr  error
	loads      int
	rows       map[statusKey]model.DailyStatus
	nextID     uint64
	hold       map[model.PaymentStatus]chan struct{}
	written    chan model.DailyStatus
}

func newFakeGateway(roster []model.Member) *fakeGateway {
	return &fakeGateway{
		configured: true,
		roster:     roster,
		rows:       map[statusKey]model.DailyStatus{},
		hold:       map[model.PaymentStatus]chan struct{}{},
		written:    make(chan model.DailyStatus, 16),
	}
}

func (f *fakeGateway) IsConfigured() bool {
	return f.configured
}

func (f *fakeGateway) LoadRoster(_ context.Context) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]model.Member, len(f.roster))
	for i, m := range f.roster {
		out[i] = m.Clone()
	}
	return out, nil
}

func (f *fakeGateway) UpsertStatus(ctx context.Context, memberID string, date model.Date, status model.PaymentStatus) (*model.DailyStatus, error) {
	f.mu.Lock()
	gate := f.hold[status]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		f.written <- model.DailyStatus{}
		return nil, f.upsertErr
	}
	key := statusKey{memberID, date}
	row, ok := f.rows[key]
	if !ok {
		f.nextID++
		row = model.DailyStatus{ID: f.nextID, MemberID: memberID, Date: date}
	}
	row.Status = status
	f.rows[key] = row
	f.written <- row
	return &row, nil
}

func (f *fakeGateway) row(memberID string, date model.Date) (model.DailyStatus, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[statusKey{memberID, date}], len(f.rows)
}

var (
	oct1 = model.MustParseDate("2025-10-01")
	oct2 = model.MustParseDate("2025-10-02")
)

func testRoster() []model.Member {
	return []model.Member{
		{ID: "MEM1001", Name: "Abbas Al-Farsi", PayoutTurn: 1, PayoutDate: model.MustParseDate("2025-09-24"),
			DailyStatuses: []model.DailyStatus{{ID: 1, MemberID: "MEM1001", Date: oct1, Status: model.StatusPaid}}},
		{ID: "MEM1002", Name: "Zainab Al-Saeed", PayoutTurn: 2, PayoutDate: model.MustParseDate("2025-10-09"),
			DailyStatuses: []model.DailyStatus{}},
	}
}

func threeState(t *testing.T) member.Option {
	t.Helper()
	set, err := model.NewStatusSet(model.ThreeState)
	require.NoError(t, err)
	return member.WithStatusSet(set)
}

func waitWrites(t *testing.T, d *member.Directory) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func statusOf(t *testing.T, d *member.Directory, id string, date model.Date) (model.DailyStatus, int) {
	t.Helper()
	m, ok := d.GetByID(id)
	require.True(t, ok)
	var found model.DailyStatus
	count := 0
	for _, s := range m.DailyStatuses {
		if s.Date == date {
			found = s
			count++
		}
	}
	return found, count
}

func TestLoad_NotConfigured(t *testing.T) {
	// Given
	gw := newFakeGateway(testRoster())
	gw.configured = false
	d := member.NewDirectory(gw)

	// When
	members, err := d.Load(context.Background())

	// Then: configuration error, no roster invented, gateway never queried
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
	assert.Nil(t, members)
	assert.Empty(t, d.GetAll())
	assert.Zero(t, gw.loads)

	state, stateErr := d.State()
	assert.Equal(t, member.StateNotConfigured, state)
	assert.ErrorIs(t, stateErr, gateway.ErrNotConfigured)
}

func TestLoad_TransportFailureIsDistinct(t *testing.T) {
	gw := newFakeGateway(testRoster())
	gw.loadErr = &gateway.TransportError{Op: "load members", Err: errors.New("connection reset")}
	d := member.NewDirectory(gw)

	_, err := d.Load(context.Background())

	require.Error(t, err)
	assert.True(t, gateway.IsTransport(err))
	assert.NotErrorIs(t, err, gateway.ErrNotConfigured)
	assert.Empty(t, d.GetAll())
	state, _ := d.State()
	assert.Equal(t, member.StateLoadFailed, state)
}

func TestLoad_RetriesAfterFailureAndCachesAfterSuccess(t *testing.T) {
	gw := newFakeGateway(testRoster())
	gw.loadErr = errors.New("timeout")
	d := member.NewDirectory(gw)
	ctx := context.Background()

	_, err := d.Load(ctx)
	require.Error(t, err)

	gw.loadErr = nil
	members, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.loads, "a ready directory is served from cache")

	state, stateErr := d.State()
	assert.Equal(t, member.StateReady, state)
	assert.NoError(t, stateErr)
}

func TestGetAll_ReturnsDefensiveCopy(t *testing.T) {
	d := member.NewDirectory(newFakeGateway(testRoster()))
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	// When: the caller scribbles over what it got back
	members := d.GetAll()
	members[0].Name = "changed"
	members[0].DailyStatuses[0].Status = model.StatusUnpaid
	members = append(members[:0], members[1:]...)

	// Then
	again := d.GetAll()
	require.Len(t, again, 2)
	assert.Equal(t, "Abbas Al-Farsi", again[0].Name)
	assert.Equal(t, model.StatusPaid, again[0].DailyStatuses[0].Status)
}

func TestGetByID(t *testing.T) {
	d := member.NewDirectory(newFakeGateway(testRoster()))
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	m, ok := d.GetByID("MEM1002")
	assert.True(t, ok)
	assert.Equal(t, "Zainab Al-Saeed", m.Name)

	_, ok = d.GetByID("MEM9999")
	assert.False(t, ok)
}

func TestUpdatePayment_OptimisticThenConfirmed(t *testing.T) {
	// Given: a write that will not finish until released
	gw := newFakeGateway(testRoster())
	gate := make(chan struct{})
	gw.hold[model.StatusPaid] = gate
	d := member.NewDirectory(gw, threeState(t))
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	// When
	record, err := d.UpdatePayment(context.Background(), "MEM1002", oct2, model.StatusPaid)

	// Then: readers see the value before the store has it
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, record.Status)
	local, count := statusOf(t, d, "MEM1002", oct2)
	assert.Equal(t, 1, count)
	assert.Equal(t, model.StatusPaid, local.Status)
	assert.Zero(t, local.ID)
	_, rows := gw.row("MEM1002", oct2)
	assert.Zero(t, rows)

	close(gate)
	waitWrites(t, d)

	confirmed, _ := statusOf(t, d, "MEM1002", oct2)
	stored, _ := gw.row("MEM1002", oct2)
	assert.Equal(t, stored.ID, confirmed.ID)
	assert.Equal(t, model.StatusPaid, stored.Status)
}

func TestUpdatePayment_IdempotentLocally(t *testing.T) {
	gw := newFakeGateway(testRoster())
	d := member.NewDirectory(gw, threeState(t))
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := d.UpdatePayment(context.Background(), "MEM1001", oct1, model.StatusUnpaid)
		require.NoError(t, err)
	}
	waitWrites(t, d)

	record, count := statusOf(t, d, "MEM1001", oct1)
	assert.Equal(t, 1, count)
	assert.Equal(t, model.StatusUnpaid, record.Status)
	_, rows := gw.row("MEM1001", oct1)
	assert.Equal(t, 1, rows)
}

func TestUpdatePayment_FailedWriteIsNotRolledBack(t *testing.T) {
	gw := newFakeGateway(testRoster())
	gw.upsertErr = &gateway.TransportError{Op: "upsert daily status", Err: errors.New("broken pipe")}
	d := member.NewDirectory(gw, threeState(t))
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	_, err = d.UpdatePayment(context.Background(), "MEM1001", oct1, model.StatusUnpaid)
	require.NoError(t, err, "the caller is not told about the background failure")
	waitWrites(t, d)

	record, _ := statusOf(t, d, "MEM1001", oct1)
	assert.Equal(t, model.StatusUnpaid, record.Status)
}

func TestUpdatePayment_OutOfOrderCompletion(t *testing.T) {
	// Given: the first write (paid) finishes after the second (unpaid)
	gw := newFakeGateway(testRoster())
	paidGate, unpaidGate := make(chan struct{}), make(chan struct{})
	gw.hold[model.StatusPaid] = paidGate
	gw.hold[model.StatusUnpaid] = unpaidGate
	d := member.NewDirectory(gw, threeState(t))
	_, err := d.Load(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = d.UpdatePayment(ctx, "MEM1002", oct2, model.StatusPaid)
	require.NoError(t, err)
	_, err = d.UpdatePayment(ctx, "MEM1002", oct2, model.StatusUnpaid)
	require.NoError(t, err)

	// When
	close(unpaidGate)
	<-gw.written
	close(paidGate)
	waitWrites(t, d)

	// Then: no duplicate anywhere; the cache keeps the last edit, the store the last write
	local, count := statusOf(t, d, "MEM1002", oct2)
	assert.Equal(t, 1, count)
	assert.Equal(t, model.StatusUnpaid, local.Status)

	stored, rows := gw.row("MEM1002", oct2)
	assert.Equal(t, 1, rows)
	assert.Equal(t, model.StatusPaid, stored.Status)
}

func TestUpdatePayment_Rejections(t *testing.T) {
	twoState, err := model.NewStatusSet(model.TwoState)
	require.NoError(t, err)
	d := member.NewDirectory(newFakeGateway(testRoster()), member.WithStatusSet(twoState))
	ctx := context.Background()

	// before load
	_, err = d.UpdatePayment(ctx, "MEM1001", oct1, model.StatusPaid)
	assert.ErrorIs(t, err, member.ErrNotLoaded)

	_, err = d.Load(ctx)
	require.NoError(t, err)

	_, err = d.UpdatePayment(ctx, "MEM1001", oct1, model.StatusPending)
	assert.ErrorIs(t, err, member.ErrStatusNotAllowed)

	_, err = d.UpdatePayment(ctx, "MEM9999", oct1, model.StatusPaid)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)

	record, err := d.UpdatePayment(ctx, "MEM1001", oct1, " PAID ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, record.Status)
	waitWrites(t, d)
}

func TestUpdatePayment_NotConfigured(t *testing.T) {
	gw := newFakeGateway(testRoster())
	gw.configured = false
	d := member.NewDirectory(gw)
	_, _ = d.Load(context.Background())

	_, err := d.UpdatePayment(context.Background(), "MEM1001", oct1, model.StatusPaid)

	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}

func TestRefresh_DiscardsUnconfirmedEdits(t *testing.T) {
	// Given: an edit whose write never reaches the store before the refresh
	gw := newFakeGateway(testRoster())
	gate := make(chan struct{})
	gw.hold[model.StatusUnpaid] = gate
	d := member.NewDirectory(gw, threeState(t), member.WithWriteTimeout(time.Second))
	ctx := context.Background()
	_, err := d.Load(ctx)
	require.NoError(t, err)
	_, err = d.UpdatePayment(ctx, "MEM1001", oct1, model.StatusUnpaid)
	require.NoError(t, err)

	// When
	members, err := d.Refresh(ctx)

	// Then: the cache holds what the store returned
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, members[0].DailyStatuses[0].Status)
	assert.Equal(t, 2, gw.loads)

	close(gate)
	waitWrites(t, d)
	record, count := statusOf(t, d, "MEM1001", oct1)
	assert.Equal(t, 1, count)
	assert.Equal(t, model.StatusPaid, record.Status, "a late confirmation does not touch the new roster")
}

func TestRefresh_FailureKeepsCache(t *testing.T) {
	gw := newFakeGateway(testRoster())
	d := member.NewDirectory(gw)
	ctx := context.Background()
	_, err := d.Load(ctx)
	require.NoError(t, err)

	gw.loadErr = errors.New("unreachable")
	_, err = d.Refresh(ctx)

	require.Error(t, err)
	assert.Len(t, d.GetAll(), 2)
	state, stateErr := d.State()
	assert.Equal(t, member.StateReady, state)
	assert.Error(t, stateErr)
}

func TestFallbackDirectory(t *testing.T) {
	d := member.NewFallbackDirectory(testRoster(), threeState(t))
	ctx := context.Background()

	assert.True(t, d.IsFallback())
	state, _ := d.State()
	assert.Equal(t, member.StateReady, state)

	members, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = d.UpdatePayment(ctx, "MEM1002", oct2, model.StatusPending)
	require.NoError(t, err)

	refreshed, err := d.Refresh(ctx)
	require.NoError(t, err)
	record, _ := statusOf(t, d, "MEM1002", oct2)
	assert.Equal(t, model.StatusPending, record.Status, "fallback refresh keeps local edits")
	assert.Len(t, refreshed, 2)
	waitWrites(t, d)
}
