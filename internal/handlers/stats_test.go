package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amou-arta/ostadsanj3/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyStats(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "stats@example.com")

	limit, err := services.GetOrCreateToday(user.ID)
	require.NoError(t, err)
	require.NoError(t, services.IncrementReview(limit))

	r := newTestRouter(user)
	r.GET("/daily-stats", NewStatsHandler().DailyStats)

	w := getJSON(r, "/daily-stats")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["review_count"])
	assert.Equal(t, float64(0), resp["question_count"])
	assert.Equal(t, float64(services.DailyReviewLimit-1), resp["review_remaining"])
	assert.Equal(t, float64(services.DailyQuestionLimit), resp["question_remaining"])
	assert.Equal(t, services.LocalDate(), resp["date"])
}
