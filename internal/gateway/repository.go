package gateway

import (
	"context"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (m *MemberRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Member{}).Count(&count).Error
	return count, err
}

// FindPage returns up to limit members with id greater than afterID, ordered by id.
// An empty afterID reads the first page.
func (m *MemberRepository) FindPage(ctx context.Context, db *gorm.DB, afterID string, limit int) ([]model.Member, error) {
	var members []model.Member
	err := m.pageQuery(db.WithContext(ctx), afterID, limit).Find(&members).Error
	return members, err
}

// pageQuery leaves the cursor out of the first page: Oracle stores '' as NULL,
// and "id > NULL" matches no row.
func (m *MemberRepository) pageQuery(db *gorm.DB, afterID string, limit int) *gorm.DB {
	if afterID != "" {
		db = db.Where("id > ?", afterID)
	}
	return db.Order("id").Limit(limit)
}

// UpsertAll inserts members or overwrites the existing row with the same id.
func (m *MemberRepository) UpsertAll(ctx context.Context, db *gorm.DB, members []model.Member, batchSize int) error {
	if len(members) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "join_date", "payout_turn", "payout_date", "updated_at"}),
		}).
		CreateInBatches(&members, batchSize).Error
}

type StatusRepository struct{}

func NewStatusRepository() *StatusRepository {
	return &StatusRepository{}
}

// FindPage returns up to limit statuses with id greater than afterID, ordered by id.
// A zero afterID reads the first page.
func (s *StatusRepository) FindPage(ctx context.Context, db *gorm.DB, afterID uint64, limit int) ([]model.DailyStatus, error) {
	var statuses []model.DailyStatus
	err := s.pageQuery(db.WithContext(ctx), afterID, limit).Find(&statuses).Error
	return statuses, err
}

func (s *StatusRepository) pageQuery(db *gorm.DB, afterID uint64, limit int) *gorm.DB {
	if afterID != 0 {
		db = db.Where("id > ?", afterID)
	}
	return db.Order("id").Limit(limit)
}

// UpdateByKey sets the status of the (memberID, date) row and returns how many rows matched.
func (s *StatusRepository) UpdateByKey(ctx context.Context, db *gorm.DB, memberID string, date model.Date, status model.PaymentStatus) (int64, error) {
	result := db.WithContext(ctx).
		Model(&model.DailyStatus{}).
		Where(map[string]any{"member_id": memberID, "date": date}).
		Updates(map[string]any{"status": status})
	return result.RowsAffected, result.Error
}

func (s *StatusRepository) Create(ctx context.Context, db *gorm.DB, record *model.DailyStatus) error {
	return db.WithContext(ctx).Create(record).Error
}

func (s *StatusRepository) FindByKey(ctx context.Context, db *gorm.DB, memberID string, date model.Date) (*model.DailyStatus, error) {
	var record model.DailyStatus
	err := db.WithContext(ctx).
		Where(map[string]any{"member_id": memberID, "date": date}).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// InsertMissing inserts statuses whose (member_id, date) has no row yet.
// Existing rows keep their status.
func (s *StatusRepository) InsertMissing(ctx context.Context, db *gorm.DB, statuses []model.DailyStatus, batchSize int) error {
	if len(statuses) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(&statuses, batchSize).Error
}
