package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"
	"github.com/amou-arta/ostadsanj3/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitRouter(user *models.User) *gin.Engine {
	r := newTestRouter(user)
	h := NewProfessorHandler()
	r.POST("/professor/:id", h.Submit)
	r.GET("/live-search", h.LiveSearch)
	return r
}

func reviewForm(text string, rating int) url.Values {
	return url.Values{
		"form_type": {"review"},
		"text":      {text},
		"rating":    {fmt.Sprintf("%d", rating)},
	}
}

func TestSubmitReviewAtDailyLimitRejected(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "capped@example.com")
	professor := createProfessor(t)

	capped := models.DailyLimit{
		UserID:      user.ID,
		Date:        services.LocalDate(),
		ReviewCount: services.DailyReviewLimit,
	}
	require.NoError(t, db.DB.Create(&capped).Error)

	r := submitRouter(user)
	w := postForm(r, fmt.Sprintf("/professor/%d", professor.ID), reviewForm("Engaging lectures", 5))

	// Rejected regardless of content: redirect back, nothing stored
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/professor/%d", professor.ID), w.Header().Get("Location"))

	var count int64
	db.DB.Model(&models.Review{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	reloaded, err := services.GetOrCreateToday(user.ID)
	require.NoError(t, err)
	assert.Equal(t, services.DailyReviewLimit, reloaded.ReviewCount)
}

func TestSubmitIdenticalReviewTwiceSameDay(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "twice@example.com")
	professor := createProfessor(t)

	r := submitRouter(user)
	path := fmt.Sprintf("/professor/%d", professor.ID)

	w := postForm(r, path, reviewForm("Clear grading rubric", 4))
	require.Equal(t, http.StatusFound, w.Code)

	// Second identical submission is rejected, counter untouched
	w = postForm(r, path, reviewForm("Clear grading rubric", 4))
	require.Equal(t, http.StatusFound, w.Code)

	var reviews []models.Review
	db.DB.Where("user_id = ?", user.ID).Find(&reviews)
	require.Len(t, reviews, 1)
	assert.False(t, reviews[0].IsApproved)

	limit, err := services.GetOrCreateToday(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, limit.ReviewCount)
}

func TestSubmitQuestionIdenticalTwiceSameDay(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "asker@example.com")
	professor := createProfessor(t)

	form := url.Values{
		"form_type": {"question"},
		"text":      {"Are past exams available?"},
	}

	r := submitRouter(user)
	path := fmt.Sprintf("/professor/%d", professor.ID)
	postForm(r, path, form)
	postForm(r, path, form)

	var count int64
	db.DB.Model(&models.Question{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	limit, err := services.GetOrCreateToday(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, limit.QuestionCount)
}

func TestSubmitAnswerRequiresApprovedQuestion(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "replier@example.com")
	professor := createProfessor(t)

	pending := models.Question{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        "Any group projects?",
		IsApproved:  false,
	}
	require.NoError(t, db.DB.Create(&pending).Error)

	form := url.Values{
		"form_type":   {"answer"},
		"question_id": {fmt.Sprintf("%d", pending.ID)},
		"text":        {"One per semester."},
	}

	r := submitRouter(user)
	w := postForm(r, fmt.Sprintf("/professor/%d", professor.ID), form)
	require.Equal(t, http.StatusFound, w.Code)

	var count int64
	db.DB.Model(&models.Answer{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitEvaluationRedirectsToTab(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "evaluator@example.com")
	professor := createProfessor(t)
	dropChartCache(professor.ID)

	form := url.Values{"form_type": {"evaluation"}}
	for _, criterion := range models.EvaluationCriteria {
		form.Set(criterion.Key, "4")
	}

	r := submitRouter(user)
	w := postForm(r, fmt.Sprintf("/professor/%d", professor.ID), form)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/professor/%d?tab=evaluation", professor.ID), w.Header().Get("Location"))

	evaluation, err := services.GetUserEvaluation(professor.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, evaluation)
	assert.Equal(t, 4, evaluation.Teaching)
}

func TestSubmitUnknownFormType(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "confused@example.com")
	professor := createProfessor(t)

	r := submitRouter(user)
	w := postForm(r, fmt.Sprintf("/professor/%d", professor.ID), url.Values{"form_type": {"poll"}})

	require.Equal(t, http.StatusFound, w.Code)

	var reviews, questions int64
	db.DB.Model(&models.Review{}).Count(&reviews)
	db.DB.Model(&models.Question{}).Count(&questions)
	assert.Equal(t, int64(0), reviews)
	assert.Equal(t, int64(0), questions)
}

func TestLiveSearchEmptyQueryListsEveryone(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "browser@example.com")

	for i := 0; i < 12; i++ {
		professor := models.Professor{
			Name:       fmt.Sprintf("Professor %02d", i),
			Department: "Mathematics",
		}
		require.NoError(t, db.DB.Create(&professor).Error)
	}

	r := submitRouter(user)
	w := getJSON(r, "/live-search")

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// No cap without a query; the filtered branch stops at ten
	assert.Equal(t, 12, strings.Count(resp["html"], "<li"))
}
