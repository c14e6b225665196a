package model

import "time"

// BaseEntity carries audit timestamps. GORM sets them on insert and update
// using the UTC clock configured in database.New.
type BaseEntity struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}
