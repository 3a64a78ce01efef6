package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/logger"
	"github.com/amou-arta/ostadsanj3/internal/middleware"
	"github.com/amou-arta/ostadsanj3/internal/models"
	"github.com/amou-arta/ostadsanj3/internal/services"
	"github.com/amou-arta/ostadsanj3/internal/utils"

	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct{}

func NewEvaluationHandler() *EvaluationHandler {
	return &EvaluationHandler{}
}

// ChartData serves GET /professor/:id/chart-data as JSON
func (h *EvaluationHandler) ChartData(c *gin.Context) {
	professorID := uint(utils.StringToInt(c.Param("id")))

	var professor models.Professor
	if err := db.DB.First(&professor, professorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Professor not found"})
		return
	}

	cacheKey := fmt.Sprintf("professor:chart:%d", professor.ID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if payload, ok := cached.(map[string]interface{}); ok {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	stats, err := services.GetProfessorAverages(professor.ID)
	if err != nil {
		logger.Error().Uint("professor_id", professor.ID).Err(err).Msg("chart aggregation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load chart data"})
		return
	}

	if len(stats) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"has_data": false,
			"message":  "No evaluations have been recorded for this professor yet.",
		})
		return
	}

	payload := services.ChartPayload(stats)
	payload["success"] = true
	payload["has_data"] = true

	utils.GetCache().Set(cacheKey, payload, 1*time.Minute)

	c.JSON(http.StatusOK, payload)
}

// Delete handles POST /professor/:id/delete-evaluation. Deleting an
// absent evaluation reports "not found" instead of erroring; a GET just
// goes back to the professor page.
func (h *EvaluationHandler) Delete(c *gin.Context) {
	professorID := utils.StringToInt(c.Param("id"))
	redirectTo := fmt.Sprintf("/professor/%d?tab=evaluation", professorID)

	if c.Request.Method != http.MethodPost {
		c.Redirect(http.StatusFound, fmt.Sprintf("/professor/%d", professorID))
		return
	}

	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	err := services.DeleteEvaluation(uint(professorID), user.ID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		Flash(c, "Evaluation not found.")
	case err != nil:
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("evaluation delete failed")
		Flash(c, "Failed to delete your evaluation. Please try again.")
	default:
		utils.GetCache().Delete(fmt.Sprintf("professor:chart:%d", professorID))
		Flash(c, "Your evaluation was deleted.")
	}

	c.Redirect(http.StatusFound, redirectTo)
}
