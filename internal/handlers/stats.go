package handlers

import (
	"net/http"

	"github.com/amou-arta/ostadsanj3/internal/logger"
	"github.com/amou-arta/ostadsanj3/internal/middleware"
	"github.com/amou-arta/ostadsanj3/internal/models"
	"github.com/amou-arta/ostadsanj3/internal/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{}

func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// DailyStats serves GET /daily-stats: today's counts and remaining quotas
func (h *StatsHandler) DailyStats(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	limit, err := services.GetOrCreateToday(user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("failed to load daily stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load daily stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"review_count":       limit.ReviewCount,
		"question_count":     limit.QuestionCount,
		"review_remaining":   services.ReviewRemaining(limit),
		"question_remaining": services.QuestionRemaining(limit),
		"date":               limit.Date,
	})
}
