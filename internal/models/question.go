package models

import (
	"time"
)

type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfessorID uint      `gorm:"not null;index" json:"professor_id"`
	Professor   Professor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"professor"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsApproved  bool      `gorm:"not null;default:false;index" json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`

	// Approved answers, filled at query time
	Answers []Answer `gorm:"-" json:"answers"`
}
