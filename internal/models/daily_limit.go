package models

import (
	"time"
)

// DailyLimit holds a user's posting counters for one calendar day.
// One row per (user, date), created lazily on first access and never
// deleted, so the table doubles as a posting history.
type DailyLimit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_user_date" json:"date"` // YYYY-MM-DD, server local time
	ReviewCount   int       `gorm:"not null;default:0" json:"review_count"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
