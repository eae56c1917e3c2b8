package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"quiz-service/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles the use cases the HTTP surface exposes.
type Services struct {
	Quiz        *app.QuizService
	Leaderboard *app.LeaderboardService
	Auth        *app.AuthService
	Admin       *app.AdminService
	Broadcaster *app.Broadcaster
	// Updates is optional; when set, /healthz reports when scores last changed.
	Updates UpdateClock
}

// UpdateClock reports when scores last changed; the zero time means unknown.
type UpdateClock interface {
	LastUpdate(ctx context.Context) (time.Time, error)
}

type HealthResponse struct {
	Status     string     `json:"status"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// NewRouter builds the gin engine with the public quiz API, the admin API and the live channel.
func NewRouter(svc Services, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		resp := HealthResponse{Status: "ok"}
		if svc.Updates != nil {
			last, err := svc.Updates.LastUpdate(c.Request.Context())
			if err != nil {
				log.Printf("healthz: last update: %v", err)
			} else if !last.IsZero() {
				resp.LastUpdate = &last
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	wsHandler := NewWSHandler(svc.Broadcaster)
	r.GET("/ws", wsHandler.Handle)

	quizHandler := NewQuizHandler(svc.Quiz)
	candidateHandler := NewCandidateHandler(svc.Quiz)
	scoresHandler := NewScoresHandler(svc.Leaderboard)
	authHandler := NewAuthHandler(svc.Auth)
	adminHandler := NewAdminHandler(svc.Admin, svc.Quiz)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		quiz := api.Group("/quiz")
		{
			quiz.GET("/questions", quizHandler.Questions)
			quiz.GET("/questions/:id", quizHandler.Question)
			quiz.GET("/settings", quizHandler.Settings)
			quiz.POST("/submit", quizHandler.Submit)
		}

		candidate := api.Group("/candidate")
		{
			candidate.GET("/can-attempt/:id", candidateHandler.CanAttempt)
			candidate.GET("/info/:id", candidateHandler.Info)
		}

		scores := api.Group("/scores")
		{
			scores.GET("/all", scoresHandler.All)
			scores.GET("/:candidateId", scoresHandler.ByCandidate)
		}

		admin := api.Group("/admin")
		admin.Use(AdminAuth(svc.Auth))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.PUT("/users/:id/attempts", adminHandler.UpdateAttempts)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/questions", adminHandler.ListQuestions)
			admin.POST("/questions", adminHandler.AddQuestion)
			admin.PUT("/questions/:id", adminHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", adminHandler.DeleteQuestion)

			admin.GET("/settings", adminHandler.Settings)
			admin.PUT("/settings", adminHandler.UpdateSettings)
		}
	}

	return r
}
