package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/logger"
	"github.com/amou-arta/ostadsanj3/internal/middleware"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// parseVoteValue validates the submitted value; only +1 and -1 exist
func parseVoteValue(raw string) (int, bool) {
	value, err := strconv.Atoi(raw)
	if err != nil || (value != 1 && value != -1) {
		return 0, false
	}
	return value, true
}

// VoteReview handles POST /vote-review. Re-submitting the same value
// retracts the vote; the opposite value flips it.
func (h *VoteHandler) VoteReview(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Invalid method"})
		return
	}

	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}
	currentUser := user.(*models.User)

	reviewIDStr := c.PostForm("review_id")
	valueStr := c.PostForm("value")
	if reviewIDStr == "" || valueStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	value, ok := parseVoteValue(valueStr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value"})
		return
	}

	reviewID, err := strconv.Atoi(reviewIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}
	uID := uint(reviewID)

	// Unapproved reviews are not vote targets
	var review models.Review
	if err := db.DB.Where("id = ? AND is_approved = ?", uID, true).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found or not approved"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var existingVote models.Vote
		lookupErr := tx.Where("user_id = ? AND review_id = ?", currentUser.ID, uID).
			First(&existingVote).Error

		if lookupErr == nil {
			if existingVote.Value == value {
				// Same value again: retract
				return tx.Delete(&existingVote).Error
			}
			// Opposite value: flip
			return tx.Model(&existingVote).Update("value", value).Error
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return lookupErr
		}

		newVote := models.Vote{
			UserID:   currentUser.ID,
			ReviewID: &uID,
			Value:    value,
		}
		return tx.Create(&newVote).Error
	})
	if err != nil {
		logger.Error().Uint("user_id", currentUser.ID).Err(err).Msg("review vote failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vote failed"})
		return
	}

	var likes, dislikes int64
	db.DB.Model(&models.Vote{}).Where("review_id = ? AND value = 1", uID).Count(&likes)
	db.DB.Model(&models.Vote{}).Where("review_id = ? AND value = -1", uID).Count(&dislikes)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"likes_count":    likes,
		"dislikes_count": dislikes,
	})
}

// VoteAnswer handles POST /vote-answer with the same semantics
func (h *VoteHandler) VoteAnswer(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Invalid method"})
		return
	}

	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}
	currentUser := user.(*models.User)

	answerIDStr := c.PostForm("answer_id")
	valueStr := c.PostForm("value")
	if answerIDStr == "" || valueStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	value, ok := parseVoteValue(valueStr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value"})
		return
	}

	answerID, err := strconv.Atoi(answerIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer id"})
		return
	}
	uID := uint(answerID)

	var answer models.Answer
	if err := db.DB.Where("id = ? AND is_approved = ?", uID, true).First(&answer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found or not approved"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var existingVote models.Vote
		lookupErr := tx.Where("user_id = ? AND answer_id = ?", currentUser.ID, uID).
			First(&existingVote).Error

		if lookupErr == nil {
			if existingVote.Value == value {
				return tx.Delete(&existingVote).Error
			}
			return tx.Model(&existingVote).Update("value", value).Error
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return lookupErr
		}

		newVote := models.Vote{
			UserID:   currentUser.ID,
			AnswerID: &uID,
			Value:    value,
		}
		return tx.Create(&newVote).Error
	})
	if err != nil {
		logger.Error().Uint("user_id", currentUser.ID).Err(err).Msg("answer vote failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vote failed"})
		return
	}

	var likes, dislikes int64
	db.DB.Model(&models.Vote{}).Where("answer_id = ? AND value = 1", uID).Count(&likes)
	db.DB.Model(&models.Vote{}).Where("answer_id = ? AND value = -1", uID).Count(&dislikes)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"likes_count":    likes,
		"dislikes_count": dislikes,
	})
}
