package models

import (
	"time"
)

type Professor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null;index" json:"name"`
	Department string    `gorm:"size:100;not null;index" json:"department"`
	Title      string    `gorm:"size:50" json:"title"` // e.g. Assistant Professor
	Bio        string    `gorm:"size:500" json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
