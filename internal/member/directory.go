package member

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/metrics"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/status"
)

const DefaultWriteTimeout = 10 * time.Second

// ErrNotLoaded is returned by writes issued before the roster was loaded.
var ErrNotLoaded = errors.New("member: roster not loaded")

// Gateway is the persistence the directory reads from and writes through.
type Gateway interface {
	IsConfigured() bool
	LoadRoster(ctx context.Context) ([]model.Member, error)
	UpsertStatus(ctx context.Context, memberID string, date model.Date, status model.PaymentStatus) (*model.DailyStatus, error)
}

// State describes whether the directory can serve reads.
type State string

const (
	StateNotLoaded     State = "not_loaded"
	StateReady         State = "ready"
	StateNotConfigured State = "not_configured"
	StateLoadFailed    State = "load_failed"
)

type entry struct {
	member model.Member // DailyStatuses is always nil; statuses live in store
	store  *status.Store
}

// Directory is the single owner of the in-memory roster.
//
// Status edits are applied to the cache immediately and then written through the
// gateway in the background. A failed write is logged and never rolled back, and
// Refresh replaces the cache wholesale without waiting for writes in flight, so an
// unconfirmed edit can be lost. The store keeps whichever write lands last.
type Directory struct {
	mu     sync.RWMutex
	loadMu sync.Mutex
	writes sync.WaitGroup

	gateway      Gateway // nil in fallback mode
	statuses     model.StatusSet
	writeTimeout time.Duration
	metrics      *metrics.Recorder

	entries    []*entry
	byID       map[string]*entry
	state      State
	lastErr    error
	generation uint64
}

type Option func(*Directory)

func WithStatusSet(set model.StatusSet) Option {
	return func(d *Directory) {
		d.statuses = set
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(d *Directory) {
		if timeout > 0 {
			d.writeTimeout = timeout
		}
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(d *Directory) {
		d.metrics = recorder
	}
}

func newDirectory(gw Gateway, opts ...Option) *Directory {
	set, _ := model.NewStatusSet(model.ThreeState)
	d := &Directory{
		gateway:      gw,
		statuses:     set,
		writeTimeout: DefaultWriteTimeout,
		byID:         map[string]*entry{},
		state:        StateNotLoaded,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDirectory returns a directory backed by gw. Nothing is fetched until Load.
func NewDirectory(gw Gateway, opts ...Option) *Directory {
	return newDirectory(gw, opts...)
}

// NewFallbackDirectory serves a generated roster and never persists edits.
func NewFallbackDirectory(roster []model.Member, opts ...Option) *Directory {
	d := newDirectory(nil, opts...)
	d.replace(roster)
	d.state = StateReady
	d.metrics.RosterLoaded(len(roster), nil)
	return d
}

// IsFallback reports whether the directory runs without a gateway.
func (d *Directory) IsFallback() bool {
	return d.gateway == nil
}

func (d *Directory) StatusSet() model.StatusSet {
	return d.statuses
}

// State returns the current state and the error behind a failed one.
func (d *Directory) State() (State, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.lastErr
}

// Load returns the roster, fetching it from the gateway on first use.
// An unconfigured gateway fails with gateway.ErrNotConfigured; no synthetic roster
// is substituted. A failed fetch is retried by the next Load.
func (d *Directory) Load(ctx context.Context) ([]model.Member, error) {
	d.mu.RLock()
	ready := d.state == StateReady
	d.mu.RUnlock()
	if ready {
		return d.GetAll(), nil
	}

	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	d.mu.RLock()
	ready = d.state == StateReady
	d.mu.RUnlock()
	if ready {
		return d.GetAll(), nil
	}

	if err := d.fetch(ctx); err != nil {
		return nil, err
	}
	return d.GetAll(), nil
}

// Refresh re-reads the roster and replaces the cache. Edits whose writes have not
// been confirmed are dropped. On failure the previous cache is kept.
// In fallback mode the current roster is returned unchanged.
func (d *Directory) Refresh(ctx context.Context) ([]model.Member, error) {
	if d.IsFallback() {
		return d.GetAll(), nil
	}

	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	if err := d.fetch(ctx); err != nil {
		return nil, err
	}
	return d.GetAll(), nil
}

// fetch must be called with loadMu held.
func (d *Directory) fetch(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !d.gateway.IsConfigured() {
		d.setFailure(StateNotConfigured, gateway.ErrNotConfigured)
		log.Error("회원 목록 로드 실패: 저장소 미설정")
		return gateway.ErrNotConfigured
	}

	members, err := d.gateway.LoadRoster(ctx)
	d.metrics.RosterLoaded(len(members), err)
	if err != nil {
		d.setFailure(StateLoadFailed, err)
		log.Error("회원 목록 로드 실패", "error", err)
		return err
	}

	d.mu.Lock()
	d.replace(members)
	d.state = StateReady
	d.lastErr = nil
	d.mu.Unlock()

	log.Info("회원 목록 로드 완료", "members", len(members))
	return nil
}

// setFailure records a failed fetch. A directory that already holds a roster
// stays ready so reads keep working after a failed refresh.
func (d *Directory) setFailure(state State, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = err
	if d.state != StateReady {
		d.state = state
	}
}

// replace must be called with mu held, or before the directory is shared.
func (d *Directory) replace(members []model.Member) {
	entries := make([]*entry, 0, len(members))
	byID := make(map[string]*entry, len(members))
	for _, m := range members {
		e := &entry{store: status.New(m.ID, m.DailyStatuses)}
		e.member = m
		e.member.DailyStatuses = nil
		entries = append(entries, e)
		byID[m.ID] = e
	}
	d.entries = entries
	d.byID = byID
	d.generation++
}

// GetAll returns a copy of the roster; callers may modify it freely.
func (d *Directory) GetAll() []model.Member {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.Member, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.snapshot()
	}
	return out
}

// GetByID returns a copy of one member. A missing id is not an error.
func (d *Directory) GetByID(id string) (model.Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.byID[id]
	if !ok {
		return model.Member{}, false
	}
	return e.snapshot(), true
}

func (e *entry) snapshot() model.Member {
	m := e.member
	m.DailyStatuses = e.store.Records()
	return m
}

// UpdatePayment applies the status to the cache and returns the local record at once.
// With a gateway the write continues in the background; its outcome is only logged.
func (d *Directory) UpdatePayment(ctx context.Context, memberID string, date model.Date, status model.PaymentStatus) (model.DailyStatus, error) {
	parsed, ok := d.statuses.Parse(string(status))
	if !ok {
		return model.DailyStatus{}, fmt.Errorf("status %q (mode %s): %w", status, d.statuses.Mode(), ErrStatusNotAllowed)
	}

	d.mu.Lock()
	if d.state != StateReady {
		err := d.unavailable()
		d.mu.Unlock()
		return model.DailyStatus{}, err
	}
	e, ok := d.byID[memberID]
	if !ok {
		d.mu.Unlock()
		return model.DailyStatus{}, fmt.Errorf("memberID=%s %w", memberID, ErrMemberNotFound)
	}
	record := e.store.Upsert(date, parsed)
	generation := d.generation
	d.mu.Unlock()

	if d.IsFallback() {
		return record, nil
	}

	d.writes.Add(1)
	d.metrics.StatusWriteStarted()
	go d.persist(ctx, generation, memberID, date, parsed)

	return record, nil
}

// unavailable must be called with mu held.
func (d *Directory) unavailable() error {
	switch d.state {
	case StateNotConfigured, StateLoadFailed:
		return d.lastErr
	default:
		return ErrNotLoaded
	}
}

func (d *Directory) persist(ctx context.Context, generation uint64, memberID string, date model.Date, status model.PaymentStatus) {
	defer d.writes.Done()

	// the request that triggered the write may finish before the store answers
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.writeTimeout)
	defer cancel()
	ctx = logger.With(ctx, "member_id", memberID, "date", date.String(), "status", string(status))
	log := logger.FromContext(ctx)

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error("납부 상태 저장 중 panic 발생", "error", err)
		}
		d.metrics.StatusWriteFinished(err)
	}()

	persisted, err := d.gateway.UpsertStatus(ctx, memberID, date, status)
	if err != nil {
		log.Error("납부 상태 저장 실패, 로컬 변경은 유지됩니다", "error", err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if generation != d.generation {
		log.Debug("roster replaced before the write was confirmed")
		return
	}
	if persisted == nil {
		return
	}
	if e, ok := d.byID[memberID]; ok {
		e.store.Confirm(*persisted)
	}
	log.Debug("납부 상태 저장 완료", "id", persisted.ID)
}

// Wait blocks until background writes finish or ctx ends. It never cancels them.
func (d *Directory) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.writes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
