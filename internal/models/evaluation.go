package models

import (
	"time"
)

// Criterion is one named numeric dimension of a professor evaluation.
// Key doubles as the form field name and the database column name.
type Criterion struct {
	Key  string
	Name string
}

// EvaluationCriteria is the fixed criterion set in display order.
// Chart labels, form parsing and the aggregate query all iterate this
// slice, so the order here is the one order everywhere.
var EvaluationCriteria = []Criterion{
	{Key: "teaching", Name: "Teaching Quality"},
	{Key: "knowledge", Name: "Subject Knowledge"},
	{Key: "communication", Name: "Communication"},
	{Key: "fairness", Name: "Grading Fairness"},
	{Key: "availability", Name: "Availability"},
}

// Evaluation is a user's multi-criteria rating of a professor.
// At most one row per (professor, user); updates keep the original
// CreatedAt so the evaluation's age is preserved.
type Evaluation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProfessorID   uint      `gorm:"not null;uniqueIndex:idx_professor_user" json:"professor_id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_professor_user" json:"user_id"`
	Teaching      int       `gorm:"not null;check:teaching >= 1 AND teaching <= 5" json:"teaching"`
	Knowledge     int       `gorm:"not null;check:knowledge >= 1 AND knowledge <= 5" json:"knowledge"`
	Communication int       `gorm:"not null;check:communication >= 1 AND communication <= 5" json:"communication"`
	Fairness      int       `gorm:"not null;check:fairness >= 1 AND fairness <= 5" json:"fairness"`
	Availability  int       `gorm:"not null;check:availability >= 1 AND availability <= 5" json:"availability"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CriterionValue returns the rating stored for the given criterion key.
func (e *Evaluation) CriterionValue(key string) int {
	switch key {
	case "teaching":
		return e.Teaching
	case "knowledge":
		return e.Knowledge
	case "communication":
		return e.Communication
	case "fairness":
		return e.Fairness
	case "availability":
		return e.Availability
	}
	return 0
}

// SetCriterionValue stores a rating under the given criterion key.
func (e *Evaluation) SetCriterionValue(key string, value int) {
	switch key {
	case "teaching":
		e.Teaching = value
	case "knowledge":
		e.Knowledge = value
	case "communication":
		e.Communication = value
	case "fairness":
		e.Fairness = value
	case "availability":
		e.Availability = value
	}
}
