package models

import "time"

// CampProfile is the public face of a camp owner that users can follow.
type CampProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;uniqueIndex" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string    `gorm:"size:120" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Followers   []User    `gorm:"many2many:camp_profile_followers;-:migration" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// FollowerCount is computed at query time.
	FollowerCount int64 `gorm:"-" json:"follower_count"`
	// Following reports whether the requesting user follows this camp (computed).
	Following bool `gorm:"-" json:"following"`
}

// TableName specifies the table name for GORM
func (CampProfile) TableName() string {
	return "camp_profiles"
}

// CampProfileFollower is the join row behind CampProfile.Followers.
// The composite primary key keeps each user at most once per camp.
// The table is migrated from this model so both sides cascade on delete.
type CampProfileFollower struct {
	CampProfileID uint         `gorm:"primaryKey;autoIncrement:false" json:"camp_profile_id"`
	UserID        uint         `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CampProfile   *CampProfile `gorm:"foreignKey:CampProfileID;constraint:OnDelete:CASCADE" json:"-"`
	User          *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (CampProfileFollower) TableName() string {
	return "camp_profile_followers"
}
