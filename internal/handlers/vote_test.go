package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteResponse struct {
	Success       bool   `json:"success"`
	LikesCount    int64  `json:"likes_count"`
	DislikesCount int64  `json:"dislikes_count"`
	Error         string `json:"error"`
}

func voteRouter(user *models.User) *gin.Engine {
	r := newTestRouter(user)
	h := NewVoteHandler()
	r.Any("/vote-review", h.VoteReview)
	r.Any("/vote-answer", h.VoteAnswer)
	return r
}

func decodeVote(t *testing.T, w *httptest.ResponseRecorder) voteResponse {
	t.Helper()
	var resp voteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func voteForm(id uint, field string, value int) url.Values {
	return url.Values{
		field:   {fmt.Sprintf("%d", id)},
		"value": {fmt.Sprintf("%d", value)},
	}
}

func TestVoteReviewCreatesVote(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "voter@example.com")
	professor := createProfessor(t)
	review := createApprovedReview(t, professor.ID, user.ID)

	r := voteRouter(user)
	w := postForm(r, "/vote-review", voteForm(review.ID, "review_id", 1))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeVote(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.LikesCount)
	assert.Equal(t, int64(0), resp.DislikesCount)
}

func TestVoteReviewSameValueRetracts(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "retract@example.com")
	professor := createProfessor(t)
	review := createApprovedReview(t, professor.ID, user.ID)

	r := voteRouter(user)
	postForm(r, "/vote-review", voteForm(review.ID, "review_id", 1))
	w := postForm(r, "/vote-review", voteForm(review.ID, "review_id", 1))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeVote(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(0), resp.LikesCount)

	// Net zero: no row remains
	var count int64
	db.DB.Model(&models.Vote{}).Where("review_id = ?", review.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestVoteReviewOppositeValueFlips(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "flip@example.com")
	professor := createProfessor(t)
	review := createApprovedReview(t, professor.ID, user.ID)

	r := voteRouter(user)
	postForm(r, "/vote-review", voteForm(review.ID, "review_id", 1))
	w := postForm(r, "/vote-review", voteForm(review.ID, "review_id", -1))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeVote(t, w)
	assert.Equal(t, int64(0), resp.LikesCount)
	assert.Equal(t, int64(1), resp.DislikesCount)

	// Still exactly one vote row for this user
	var votes []models.Vote
	db.DB.Where("review_id = ?", review.ID).Find(&votes)
	require.Len(t, votes, 1)
	assert.Equal(t, -1, votes[0].Value)
}

func TestVoteReviewUnapprovedTargetIs404(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "unapproved@example.com")
	professor := createProfessor(t)

	review := models.Review{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        "Pending moderation",
		Rating:      3,
		IsApproved:  false,
	}
	require.NoError(t, db.DB.Create(&review).Error)

	r := voteRouter(user)
	w := postForm(r, "/vote-review", voteForm(review.ID, "review_id", 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteReviewBadInput(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "badinput@example.com")
	professor := createProfessor(t)
	review := createApprovedReview(t, professor.ID, user.ID)

	r := voteRouter(user)

	// Value outside {1, -1}
	w := postForm(r, "/vote-review", voteForm(review.ID, "review_id", 2))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing parameters
	w = postForm(r, "/vote-review", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong method
	w = getJSON(r, "/vote-review")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestVoteUniquePerUserAndTarget(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "unique@example.com")
	professor := createProfessor(t)
	review := createApprovedReview(t, professor.ID, user.ID)

	question := models.Question{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        "Open book exams?",
		IsApproved:  true,
	}
	require.NoError(t, db.DB.Create(&question).Error)
	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     user.ID,
		Text:       "Yes, both midterms.",
		IsApproved: true,
	}
	require.NoError(t, db.DB.Create(&answer).Error)

	first := models.Vote{UserID: user.ID, ReviewID: &review.ID, Value: 1}
	require.NoError(t, db.DB.Create(&first).Error)

	// A second row for the same (user, review) is rejected by the schema
	second := models.Vote{UserID: user.ID, ReviewID: &review.ID, Value: 1}
	assert.Error(t, db.DB.Create(&second).Error)

	// The same user may still vote on a different target kind
	answerVote := models.Vote{UserID: user.ID, AnswerID: &answer.ID, Value: -1}
	assert.NoError(t, db.DB.Create(&answerVote).Error)

	var count int64
	db.DB.Model(&models.Vote{}).Where("user_id = ? AND review_id = ?", user.ID, review.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVoteAnswerFlow(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "answer-voter@example.com")
	professor := createProfessor(t)

	question := models.Question{
		ProfessorID: professor.ID,
		UserID:      user.ID,
		Text:        "How are grades curved?",
		IsApproved:  true,
	}
	require.NoError(t, db.DB.Create(&question).Error)

	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     user.ID,
		Text:       "Top 10% get an A.",
		IsApproved: true,
	}
	require.NoError(t, db.DB.Create(&answer).Error)

	r := voteRouter(user)

	w := postForm(r, "/vote-answer", voteForm(answer.ID, "answer_id", -1))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeVote(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.DislikesCount)

	// Retract
	w = postForm(r, "/vote-answer", voteForm(answer.ID, "answer_id", -1))
	resp = decodeVote(t, w)
	assert.Equal(t, int64(0), resp.DislikesCount)
}
