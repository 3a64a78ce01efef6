package router

import (
	"github.com/amou-arta/ostadsanj3/internal/handlers"
	"github.com/amou-arta/ostadsanj3/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	professorHandler := handlers.NewProfessorHandler()
	voteHandler := handlers.NewVoteHandler()
	evaluationHandler := handlers.NewEvaluationHandler()
	statsHandler := handlers.NewStatsHandler()

	// Public Routes
	r.GET("/", professorHandler.Home)                  // professor listing + ?query= filter
	r.GET("/search", professorHandler.Search)          // standalone search page
	r.GET("/live-search", professorHandler.LiveSearch) // top-10 matches as HTML-in-JSON

	r.GET("/professor/:id/chart-data", evaluationHandler.ChartData) // evaluation chart JSON

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/professor/:id", professorHandler.Detail)  // professor page
		authorized.POST("/professor/:id", professorHandler.Submit) // form_type dispatch
		authorized.Any("/professor/:id/delete-evaluation", evaluationHandler.Delete)

		// Vote endpoints answer 405 on non-POST themselves, matching
		// their JSON error contract
		authorized.Any("/vote-review", voteHandler.VoteReview)
		authorized.Any("/vote-answer", voteHandler.VoteAnswer)

		authorized.GET("/daily-stats", statsHandler.DailyStats)
	}
}
