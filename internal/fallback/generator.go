// Package fallback builds a synthetic roster for running without a remote store.
// It never talks to the gateway.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/payout"
)

const (
	firstMemberNumber = 1001
	emailDomain       = "example.com"

	minJoinMonths  = 6
	joinMonthRange = 24

	DefaultHistoryDays = 30
)

var names = []string{
	"Abbas Al-Farsi", "Zainab Al-Saeed", "Karim Al-Jamil", "Fatima Al-Haddad", "Tariq Al-Mansoori",
	"Layla Al-Hashimi", "Mustafa Al-Katib", "Nadia Al-Qureshi", "Omar Al-Zahrani", "Samira Al-Najjar",
	"Yusuf Al-Baghdadi", "Aisha Al-Amiri", "Hassan Al-Khayyat", "Jamila Al-Shammari", "Rashid Al-Mazrui",
	"Farah Al-Rashed", "Ibrahim Al-Ghanim", "Maryam Al-Kuwari", "Khalid Al-Sulaiman", "Hana Al-Otaibi",
}

type Generator struct {
	Rotation    payout.Rotation
	Statuses    model.StatusSet
	HistoryDays int
	Seed        uint64
	Today       model.Date
}

// NewGenerator reads rotation, status mode, history length and seed from cfg.
// A zero FALLBACK_SEED picks a time-based seed.
func NewGenerator(cfg *config.Config) (Generator, error) {
	set, err := cfg.StatusSet()
	if err != nil {
		return Generator{}, err
	}
	seed := uint64(cfg.Data.FallbackSeed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return Generator{
		Rotation:    payout.Rotation{StartDate: cfg.PayoutStart(), IntervalDays: cfg.Payout.IntervalDays},
		Statuses:    set,
		HistoryDays: cfg.Data.HistoryDays,
		Seed:        seed,
	}, nil
}

// Generate returns the roster with payout turns assigned in name order.
// The same Seed and Today always produce the same roster.
func (g Generator) Generate() []model.Member {
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
	today := g.Today
	if today.IsZero() {
		today = model.Today()
	}
	historyDays := g.HistoryDays
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}

	members := make([]model.Member, len(names))
	for i, name := range names {
		id := fmt.Sprintf("MEM%d", firstMemberNumber+i)
		joinDate := today.AddMonths(-(rng.IntN(joinMonthRange) + minJoinMonths))
		members[i] = model.Member{
			ID:            id,
			Name:          name,
			Email:         Email(name),
			JoinDate:      joinDate,
			DailyStatuses: g.history(rng, id, joinDate, today, historyDays),
		}
	}
	return g.Rotation.Assign(members)
}

// Email derives the address from the lowercased name with its first space replaced by a dot.
func Email(name string) string {
	return strings.Replace(strings.ToLower(name), " ", ".", 1) + "@" + emailDomain
}

func (g Generator) history(rng *rand.Rand, memberID string, joinDate, today model.Date, days int) []model.DailyStatus {
	todayStatus := model.StatusUnpaid
	if g.Statuses.HasPending() {
		todayStatus = model.StatusPending
	}

	history := make([]model.DailyStatus, 0, days)
	for back := days - 1; back >= 0; back-- {
		date := today.AddDays(-back)
		if date.Before(joinDate) {
			continue
		}
		status := todayStatus
		if back > 0 {
			status = model.StatusUnpaid
			if rng.IntN(2) == 0 {
				status = model.StatusPaid
			}
		}
		history = append(history, model.DailyStatus{MemberID: memberID, Date: date, Status: status})
	}
	return history
}
