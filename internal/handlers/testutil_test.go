package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/middleware"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global db.DB at a fresh in-memory
// sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Professor{},
		&models.Review{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.DailyLimit{},
		&models.Evaluation{},
	))

	db.DB = gdb
}

// newTestRouter returns a gin engine that injects user as the session
// user, sidestepping the login flow. A throwaway cookie store backs
// the flash messages.
func newTestRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CheckUserKey, user)
		}
		c.Next()
	})
	return r
}

// postForm performs a form-encoded POST against the engine
func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.User{Username: "tester", Email: email, Password: "x"}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createProfessor(t *testing.T) *models.Professor {
	t.Helper()
	professor := models.Professor{Name: "Test Professor", Department: "Testing"}
	require.NoError(t, db.DB.Create(&professor).Error)
	return &professor
}

func createApprovedReview(t *testing.T, professorID, userID uint) *models.Review {
	t.Helper()
	review := models.Review{
		ProfessorID: professorID,
		UserID:      userID,
		Text:        "Clear explanations",
		Rating:      4,
		IsApproved:  true,
	}
	require.NoError(t, db.DB.Create(&review).Error)
	return &review
}
