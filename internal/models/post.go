package models

import "time"

// Post is a blog entry managed through the admin surface.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:120;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	UpdatedAt time.Time `gorm:"index" json:"updated"`
}
