package model

// Member is one committee participant and their slot in the payout rotation.
type Member struct {
	// Stable string identifier, e.g. MEM1007
	ID string `gorm:"column:id;primaryKey;type:varchar(32)"`

	Name       string `gorm:"column:name;type:varchar(100);not null"`
	Email      string `gorm:"column:email;type:varchar(255);not null"`
	JoinDate   Date   `gorm:"column:join_date;not null"`
	PayoutTurn int    `gorm:"column:payout_turn;not null;uniqueIndex:idx_members_payout_turn"` // 1 = first payout
	PayoutDate Date   `gorm:"column:payout_date"`

	BaseEntity

	DailyStatuses []DailyStatus `gorm:"foreignKey:MemberID;references:ID"`
}

// TableName specifies the table name for Member
func (*Member) TableName() string {
	return "members"
}

// Clone returns a copy that shares no slice storage with m.
func (m Member) Clone() Member {
	out := m
	if m.DailyStatuses != nil {
		out.DailyStatuses = make([]DailyStatus, len(m.DailyStatuses))
		copy(out.DailyStatuses, m.DailyStatuses)
	}
	return out
}
