package handlers

import (
	"net/http"
	"strings"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"
	"github.com/amou-arta/ostadsanj3/internal/services"
	"github.com/amou-arta/ostadsanj3/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		captchaService: services.NewCaptchaService(),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Challenge": question})
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	challengeInput := c.PostForm("challenge")

	session := sessions.Default(c)

	// Helper to re-render with a fresh challenge
	fail := func(message string) {
		question, answer := h.captchaService.GenerateMathProblem()
		session.Set("captcha_answer", answer)
		session.Save()
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{
			"Error":     message,
			"Challenge": question,
			"Username":  username,
			"Email":     email,
		})
	}

	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(challengeInput) != expectedAnswer {
		fail("Wrong answer to the challenge question.")
		return
	}
	session.Delete("captcha_answer")
	session.Save()

	if username == "" || len(username) > 50 {
		fail("Please choose a username (up to 50 characters).")
		return
	}
	if !strings.Contains(email, "@") {
		fail("Please enter a valid email address.")
		return
	}
	if len(password) < 6 {
		fail("Password must be at least 6 characters.")
		return
	}

	var existing models.User
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		fail("An account with this email already exists.")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		fail("Signup failed, please try again.")
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		fail("Signup failed, please try again.")
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	Flash(c, "Welcome! Your account has been created.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Challenge": question})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	challengeInput := c.PostForm("challenge")

	session := sessions.Default(c)

	fail := func(code int, message string) {
		question, answer := h.captchaService.GenerateMathProblem()
		session.Set("captcha_answer", answer)
		session.Save()
		Render(c, code, "auth/login.html", gin.H{
			"Error":     message,
			"Challenge": question,
			"Email":     email,
		})
	}

	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(challengeInput) != expectedAnswer {
		fail(http.StatusBadRequest, "Wrong answer to the challenge question.")
		return
	}
	session.Delete("captcha_answer")
	session.Save()

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		fail(http.StatusUnauthorized, "Wrong email or password.")
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		fail(http.StatusUnauthorized, "Wrong email or password.")
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	Flash(c, "You are now logged in.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
