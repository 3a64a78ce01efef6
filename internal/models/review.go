package models

import (
	"time"
)

type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfessorID uint      `gorm:"not null;index" json:"professor_id"`
	Professor   Professor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"professor"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Rating      int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	IsApproved  bool      `gorm:"not null;default:false;index" json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`

	// Not database columns, filled from the votes table at query time
	LikesCount    int64 `gorm:"-" json:"likes_count"`
	DislikesCount int64 `gorm:"-" json:"dislikes_count"`
}
