package models

import "time"

// BannedUser is an append-only ban record. A user may have several.
type BannedUser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Description string    `gorm:"type:text;default:''" json:"desc"`
	BannedByID  *uint     `gorm:"index" json:"banned_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (BannedUser) TableName() string {
	return "banned_users"
}
