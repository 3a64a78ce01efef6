package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/logger"
	"github.com/amou-arta/ostadsanj3/internal/middleware"
	"github.com/amou-arta/ostadsanj3/internal/models"
	"github.com/amou-arta/ostadsanj3/internal/services"
	"github.com/amou-arta/ostadsanj3/internal/utils"

	"github.com/gin-gonic/gin"
)

const liveSearchLimit = 10

// liveSearchTemplate renders the professor fragment returned by
// /live-search as embedded HTML inside a JSON envelope.
var liveSearchTemplate = template.Must(template.New("professor_list").Parse(`
{{- range . -}}
<li class="professor-item"><a href="/professor/{{.ID}}">{{.Name}}</a> <span class="department">{{.Department}}</span></li>
{{- else -}}
<li class="professor-item empty">No professors found</li>
{{- end -}}`))

type ProfessorHandler struct{}

func NewProfessorHandler() *ProfessorHandler {
	return &ProfessorHandler{}
}

// ReviewView pairs a review with its rendered body for the templates
type ReviewView struct {
	models.Review
	TextHTML template.HTML
}

// QuestionView pairs a question with its rendered body and approved answers
type QuestionView struct {
	models.Question
	TextHTML template.HTML
	Answers  []AnswerView
}

type AnswerView struct {
	models.Answer
	TextHTML template.HTML
}

// fillReviewVoteCounts batch-fills like/dislike counts for a page of reviews
func fillReviewVoteCounts(reviews []models.Review) {
	if len(reviews) == 0 {
		return
	}

	reviewIDs := make([]uint, len(reviews))
	for i, r := range reviews {
		reviewIDs[i] = r.ID
	}

	type countResult struct {
		ReviewID uint
		Value    int
		Count    int64
	}
	var results []countResult
	db.DB.Model(&models.Vote{}).
		Select("review_id, value, COUNT(*) as count").
		Where("review_id IN ?", reviewIDs).
		Group("review_id, value").
		Scan(&results)

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, r := range results {
		if r.Value == 1 {
			likes[r.ReviewID] = r.Count
		} else if r.Value == -1 {
			dislikes[r.ReviewID] = r.Count
		}
	}

	for i := range reviews {
		reviews[i].LikesCount = likes[reviews[i].ID]
		reviews[i].DislikesCount = dislikes[reviews[i].ID]
	}
}

// fillAnswerVoteCounts batch-fills like/dislike counts for answers
func fillAnswerVoteCounts(answers []models.Answer) {
	if len(answers) == 0 {
		return
	}

	answerIDs := make([]uint, len(answers))
	for i, a := range answers {
		answerIDs[i] = a.ID
	}

	type countResult struct {
		AnswerID uint
		Value    int
		Count    int64
	}
	var results []countResult
	db.DB.Model(&models.Vote{}).
		Select("answer_id, value, COUNT(*) as count").
		Where("answer_id IN ?", answerIDs).
		Group("answer_id, value").
		Scan(&results)

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, r := range results {
		if r.Value == 1 {
			likes[r.AnswerID] = r.Count
		} else if r.Value == -1 {
			dislikes[r.AnswerID] = r.Count
		}
	}

	for i := range answers {
		answers[i].LikesCount = likes[answers[i].ID]
		answers[i].DislikesCount = dislikes[answers[i].ID]
	}
}

// searchProfessors filters by name or department, case-insensitive
func searchProfessors(query string, limit int) []models.Professor {
	var professors []models.Professor
	tx := db.DB.Order("name ASC")
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("name ILIKE ? OR department ILIKE ?", pattern, pattern)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	tx.Find(&professors)
	return professors
}

// Home - professor listing with optional ?query= filter
func (h *ProfessorHandler) Home(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))

	// Cache the unfiltered listing only; searches go to the database.
	// Only the professor slice is cached, never the render map, since
	// Render injects per-request data like flash messages.
	var professors []models.Professor
	if query == "" {
		if cached := utils.GetCache().Get("professor:home"); cached != nil {
			professors, _ = cached.([]models.Professor)
		}
	}

	if professors == nil {
		professors = searchProfessors(query, 0)
		if query == "" {
			utils.GetCache().Set("professor:home", professors, 1*time.Minute)
		}
	}

	Render(c, http.StatusOK, "home.html", gin.H{
		"Professors": professors,
		"Query":      query,
		"Title":      "Professors",
	})
}

// Search - standalone search page, same filter as Home
func (h *ProfessorHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))

	var results []models.Professor
	if query != "" {
		results = searchProfessors(query, 0)
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Results": results,
		"Query":   query,
		"Title":   "Search - " + query,
	})
}

// LiveSearch - matches as an HTML fragment embedded in JSON. Filtered
// results are capped at ten; an empty query returns the full listing.
func (h *ProfessorHandler) LiveSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))

	var professors []models.Professor
	if query != "" {
		professors = searchProfessors(query, liveSearchLimit)
	} else {
		professors = searchProfessors("", 0)
	}

	var buf bytes.Buffer
	if err := liveSearchTemplate.Execute(&buf, professors); err != nil {
		logger.Error().Err(err).Msg("live-search fragment render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": buf.String()})
}

// Detail - professor page: reviews, questions, limits, evaluation, chart
func (h *ProfessorHandler) Detail(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	professorID := uint(utils.StringToInt(c.Param("id")))
	var professor models.Professor
	if err := db.DB.First(&professor, professorID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Professor not found.")
		return
	}

	// Approved reviews, newest first
	var reviews []models.Review
	db.DB.Preload("User").
		Where("professor_id = ? AND is_approved = ?", professor.ID, true).
		Order("created_at DESC").
		Find(&reviews)
	fillReviewVoteCounts(reviews)

	reviewViews := make([]ReviewView, len(reviews))
	for i, review := range reviews {
		reviewViews[i] = ReviewView{Review: review, TextHTML: utils.RenderMarkdown(review.Text)}
	}

	// Approved questions with their approved answers
	var questions []models.Question
	db.DB.Preload("User").
		Where("professor_id = ? AND is_approved = ?", professor.ID, true).
		Order("created_at DESC").
		Find(&questions)

	questionViews := make([]QuestionView, len(questions))
	for i, question := range questions {
		var answers []models.Answer
		db.DB.Preload("User").
			Where("question_id = ? AND is_approved = ?", question.ID, true).
			Order("created_at ASC").
			Find(&answers)
		fillAnswerVoteCounts(answers)

		answerViews := make([]AnswerView, len(answers))
		for j, answer := range answers {
			answerViews[j] = AnswerView{Answer: answer, TextHTML: utils.RenderMarkdown(answer.Text)}
		}
		questionViews[i] = QuestionView{
			Question: question,
			TextHTML: utils.RenderMarkdown(question.Text),
			Answers:  answerViews,
		}
	}

	// Daily quota info for the forms
	limit, err := services.GetOrCreateToday(user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("failed to load daily limit")
		RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	reviewLimitInfo := gin.H{
		"Remaining":    services.ReviewRemaining(limit),
		"Total":        services.DailyReviewLimit,
		"ReachedLimit": !services.CanPostReview(limit),
	}
	questionLimitInfo := gin.H{
		"Remaining":    services.QuestionRemaining(limit),
		"Total":        services.DailyQuestionLimit,
		"ReachedLimit": !services.CanPostQuestion(limit),
	}

	// The user's own evaluation, if any
	userEvaluation, err := services.GetUserEvaluation(professor.ID, user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("failed to load evaluation")
	}

	// Chart payload for the evaluation tab
	chartJSON := "{}"
	hasEvaluations := false
	var totalEvaluations int64
	stats, err := services.GetProfessorAverages(professor.ID)
	if err != nil {
		logger.Error().Uint("professor_id", professor.ID).Err(err).Msg("failed to aggregate evaluations")
	} else if len(stats) > 0 {
		hasEvaluations = true
		totalEvaluations = stats[0].Count
		if encoded, err := json.Marshal(services.ChartPayload(stats)); err == nil {
			chartJSON = string(encoded)
		}
	}

	Render(c, http.StatusOK, "professor/detail.html", gin.H{
		"Professor":        professor,
		"Reviews":          reviewViews,
		"Questions":        questionViews,
		"ReviewLimit":      reviewLimitInfo,
		"QuestionLimit":    questionLimitInfo,
		"UserEvaluation":   userEvaluation,
		"Criteria":         models.EvaluationCriteria,
		"ChartDataJSON":    template.JS(chartJSON),
		"HasEvaluations":   hasEvaluations,
		"TotalEvaluations": totalEvaluations,
		"Title":            professor.Name,
		"ActiveTab":        c.DefaultQuery("tab", "reviews"),
	})
}

// Submit - POST /professor/:id with form_type selecting the handler
func (h *ProfessorHandler) Submit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	professorID := uint(utils.StringToInt(c.Param("id")))
	var professor models.Professor
	if err := db.DB.First(&professor, professorID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Professor not found.")
		return
	}

	redirectTo := fmt.Sprintf("/professor/%d", professor.ID)

	var message string
	switch c.PostForm("form_type") {
	case "review":
		_, message = h.handleReview(c, user, &professor)
	case "question":
		_, message = h.handleQuestion(c, user, &professor)
	case "answer":
		_, message = h.handleAnswer(c, user, &professor)
	case "evaluation":
		var ok bool
		ok, message = h.handleEvaluation(c, user, &professor)
		if ok {
			redirectTo += "?tab=evaluation"
		}
	default:
		message = "Unknown form type."
	}

	Flash(c, message)
	c.Redirect(http.StatusFound, redirectTo)
}

func (h *ProfessorHandler) handleReview(c *gin.Context, user *models.User, professor *models.Professor) (bool, string) {
	text := strings.TrimSpace(c.PostForm("text"))
	rating := utils.StringToInt(c.PostForm("rating"))

	limit, err := services.GetOrCreateToday(user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("daily limit check failed")
		return false, "Something went wrong. Please contact support."
	}
	if errors.Is(services.CheckReviewQuota(limit), services.ErrLimitReached) {
		return false, fmt.Sprintf("You have posted %d reviews today. Try again tomorrow.", services.DailyReviewLimit)
	}

	if text == "" || len(text) > 2000 {
		return false, "Please write a review of up to 2000 characters."
	}
	if rating < 1 || rating > 5 {
		return false, "Please pick a rating between 1 and 5."
	}

	if err := services.CheckDuplicateReview(user.ID, professor.ID, text, rating); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			return false, "You have already posted this review today."
		}
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("duplicate review check failed")
		return false, "Something went wrong. Please try again."
	}

	review := models.Review{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        text,
		Rating:      rating,
		IsApproved:  false,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("review insert failed")
		return false, "Something went wrong. Please try again."
	}

	if err := services.IncrementReview(limit); err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("review counter increment failed")
	}

	return true, "Your review was submitted and will appear after approval."
}

func (h *ProfessorHandler) handleQuestion(c *gin.Context, user *models.User, professor *models.Professor) (bool, string) {
	text := strings.TrimSpace(c.PostForm("text"))

	limit, err := services.GetOrCreateToday(user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("daily limit check failed")
		return false, "Something went wrong. Please contact support."
	}
	if errors.Is(services.CheckQuestionQuota(limit), services.ErrLimitReached) {
		return false, fmt.Sprintf("You have posted %d questions today. Try again tomorrow.", services.DailyQuestionLimit)
	}

	if text == "" || len(text) > 2000 {
		return false, "Please write a question of up to 2000 characters."
	}

	if err := services.CheckDuplicateQuestion(user.ID, professor.ID, text); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			return false, "You have already posted this question today."
		}
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("duplicate question check failed")
		return false, "Something went wrong. Please try again."
	}

	question := models.Question{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        text,
		IsApproved:  false,
	}
	if err := db.DB.Create(&question).Error; err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("question insert failed")
		return false, "Something went wrong. Please try again."
	}

	if err := services.IncrementQuestion(limit); err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("question counter increment failed")
	}

	return true, "Your question was submitted and will appear after approval."
}

func (h *ProfessorHandler) handleAnswer(c *gin.Context, user *models.User, professor *models.Professor) (bool, string) {
	questionID := uint(utils.StringToInt(c.PostForm("question_id")))
	text := strings.TrimSpace(c.PostForm("text"))

	// Answers may only target approved questions of this professor
	var question models.Question
	err := db.DB.Where("id = ? AND professor_id = ? AND is_approved = ?", questionID, professor.ID, true).
		First(&question).Error
	if err != nil {
		return false, "Question not found."
	}

	if text == "" || len(text) > 2000 {
		return false, "Please write an answer of up to 2000 characters."
	}

	if err := services.CheckDuplicateAnswer(user.ID, question.ID, text); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			return false, "You have already posted this answer today."
		}
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("duplicate answer check failed")
		return false, "Something went wrong. Please try again."
	}

	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     user.ID,
		Text:       text,
		IsApproved: false,
	}
	if err := db.DB.Create(&answer).Error; err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("answer insert failed")
		return false, "Something went wrong. Please try again."
	}

	return true, "Your answer was submitted and will appear after approval."
}

func (h *ProfessorHandler) handleEvaluation(c *gin.Context, user *models.User, professor *models.Professor) (bool, string) {
	values := make(services.CriteriaValues, len(models.EvaluationCriteria))
	for _, criterion := range models.EvaluationCriteria {
		value := utils.StringToInt(c.PostForm(criterion.Key))
		if value < services.EvaluationMin || value > services.EvaluationMax {
			return false, fmt.Sprintf("Please rate %s between 1 and 5.", criterion.Name)
		}
		values[criterion.Key] = value
	}

	existing, err := services.GetUserEvaluation(professor.ID, user.ID)
	if err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("evaluation lookup failed")
		return false, "Something went wrong. Please try again."
	}

	if err := services.UpsertEvaluation(professor.ID, user.ID, values, existing); err != nil {
		logger.Error().Uint("user_id", user.ID).Err(err).Msg("evaluation save failed")
		return false, "Something went wrong. Please try again."
	}

	// Fresh aggregates next time the chart is requested
	utils.GetCache().Delete(fmt.Sprintf("professor:chart:%d", professor.ID))

	if existing != nil {
		return true, "Your evaluation was updated."
	}
	return true, "Your evaluation was recorded."
}
