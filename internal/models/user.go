// Package models contains data structures for the application's domain models.
package models

import "time"

// Gender values accepted on a profile. Empty means unspecified.
const (
	GenderUnspecified = ""
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
)

// User represents an account holder.
type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Username      string        `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email         string        `gorm:"uniqueIndex;not null" json:"email"`
	Password      string        `gorm:"not null" json:"-"`
	Image         string        `json:"image"`
	FirstName     string        `gorm:"size:150" json:"first_name"`
	LastName      string        `gorm:"size:150" json:"last_name"`
	Gender        string        `gorm:"size:10" json:"gender"`
	IsAdmin       bool          `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	FollowedCamps []CampProfile `gorm:"many2many:camp_profile_followers;-:migration" json:"followed_camps,omitempty"`
}

// ProfileURL is the canonical location of the user's profile.
func (u *User) ProfileURL() string {
	return "/api/users/" + u.Username
}
