package models

import (
	"time"
)

// Vote is a single +1/-1 cast by a user on a review or an answer.
// Exactly one of ReviewID / AnswerID is set. Absence of a row means no
// vote; Value is never 0. One vote per (user, target) is a database
// constraint: one unique index per target column, NULLs never collide,
// so a review vote and an answer vote from the same user coexist.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_vote_user_review;uniqueIndex:idx_vote_user_answer" json:"user_id"`
	ReviewID  *uint     `gorm:"index;uniqueIndex:idx_vote_user_review" json:"review_id"`
	AnswerID  *uint     `gorm:"index;uniqueIndex:idx_vote_user_answer" json:"answer_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}
