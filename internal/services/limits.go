package services

import (
	"time"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"gorm.io/gorm"
)

// Daily posting ceilings. These are soft limits meant to deter abuse,
// not security boundaries: the check and the increment are separate
// statements, so concurrent requests from the same user can overshoot
// by the degree of concurrency the store allows.
const (
	DailyReviewLimit   = 3
	DailyQuestionLimit = 3
)

// LocalDate returns today's date key in server local time.
func LocalDate() string {
	return time.Now().Format("2006-01-02")
}

// todayRange returns the start and end of the current calendar day.
func todayRange() (time.Time, time.Time) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)
	return startOfDay, endOfDay
}

// GetOrCreateToday returns the user's limit row for today, creating a
// zeroed one if absent.
func GetOrCreateToday(userID uint) (*models.DailyLimit, error) {
	limit := models.DailyLimit{UserID: userID, Date: LocalDate()}
	err := db.DB.Where("user_id = ? AND date = ?", userID, limit.Date).
		FirstOrCreate(&limit).Error
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

// CheckReviewQuota returns ErrLimitReached once the user has posted
// DailyReviewLimit reviews today.
func CheckReviewQuota(limit *models.DailyLimit) error {
	if limit.ReviewCount >= DailyReviewLimit {
		return ErrLimitReached
	}
	return nil
}

// CheckQuestionQuota returns ErrLimitReached once the user has posted
// DailyQuestionLimit questions today.
func CheckQuestionQuota(limit *models.DailyLimit) error {
	if limit.QuestionCount >= DailyQuestionLimit {
		return ErrLimitReached
	}
	return nil
}

// CanPostReview reports whether the user may post another review today.
func CanPostReview(limit *models.DailyLimit) bool {
	return CheckReviewQuota(limit) == nil
}

// CanPostQuestion reports whether the user may post another question today.
func CanPostQuestion(limit *models.DailyLimit) bool {
	return CheckQuestionQuota(limit) == nil
}

// ReviewRemaining returns how many reviews the user may still post today.
func ReviewRemaining(limit *models.DailyLimit) int {
	remaining := DailyReviewLimit - limit.ReviewCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// QuestionRemaining returns how many questions the user may still post today.
func QuestionRemaining(limit *models.DailyLimit) int {
	remaining := DailyQuestionLimit - limit.QuestionCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IncrementReview bumps the review counter. Call only after the review
// row was inserted successfully.
func IncrementReview(limit *models.DailyLimit) error {
	err := db.DB.Model(limit).
		UpdateColumn("review_count", gorm.Expr("review_count + 1")).Error
	if err != nil {
		return err
	}
	limit.ReviewCount++
	return nil
}

// IncrementQuestion bumps the question counter. Call only after the
// question row was inserted successfully.
func IncrementQuestion(limit *models.DailyLimit) error {
	err := db.DB.Model(limit).
		UpdateColumn("question_count", gorm.Expr("question_count + 1")).Error
	if err != nil {
		return err
	}
	limit.QuestionCount++
	return nil
}

// CheckDuplicateReview returns ErrDuplicate when the user already
// posted an identical review (same text and rating) for this professor
// today.
func CheckDuplicateReview(userID, professorID uint, text string, rating int) error {
	startOfDay, endOfDay := todayRange()
	var count int64
	err := db.DB.Model(&models.Review{}).
		Where("user_id = ? AND professor_id = ? AND text = ? AND rating = ? AND created_at >= ? AND created_at < ?",
			userID, professorID, text, rating, startOfDay, endOfDay).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}

// CheckDuplicateQuestion returns ErrDuplicate when the user already
// posted an identical question for this professor today.
func CheckDuplicateQuestion(userID, professorID uint, text string) error {
	startOfDay, endOfDay := todayRange()
	var count int64
	err := db.DB.Model(&models.Question{}).
		Where("user_id = ? AND professor_id = ? AND text = ? AND created_at >= ? AND created_at < ?",
			userID, professorID, text, startOfDay, endOfDay).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}

// CheckDuplicateAnswer returns ErrDuplicate when the user already
// posted an identical answer to this question today.
func CheckDuplicateAnswer(userID, questionID uint, text string) error {
	startOfDay, endOfDay := todayRange()
	var count int64
	err := db.DB.Model(&models.Answer{}).
		Where("user_id = ? AND question_id = ? AND text = ? AND created_at >= ? AND created_at < ?",
			userID, questionID, text, startOfDay, endOfDay).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}
