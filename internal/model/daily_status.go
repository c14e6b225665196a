package model

// DailyStatus is the payment observation for one member on one date.
// (member_id, date) is unique; writes update in place or insert.
type DailyStatus struct {
	ID       uint64        `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID string        `gorm:"column:member_id;type:varchar(32);not null;uniqueIndex:idx_daily_statuses_member_date,priority:1"`
	Date     Date          `gorm:"column:date;not null;uniqueIndex:idx_daily_statuses_member_date,priority:2"`
	Status   PaymentStatus `gorm:"column:status;type:varchar(16);not null"`

	BaseEntity
}

// TableName specifies the table name for DailyStatus
func (*DailyStatus) TableName() string {
	return "daily_statuses"
}
