package routes

import (
	"log"
	"net/http"

	"examhub/handlers"
	"examhub/middleware"
	"examhub/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	examHandler *handlers.ExamHandler,
	deliveryHandler *handlers.DeliveryHandler,
	submissionHandler *handlers.SubmissionHandler,
	hub *services.ResultsHub,
	examService *services.ExamService,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Routes for authenticated takers
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Exam-taking flow: published exams only, grading fields stripped
			exams := protected.Group("/exams")
			{
				exams.GET("", deliveryHandler.ListPublishedExams)
				exams.GET("/:id", deliveryHandler.GetExamForTaking)
				exams.POST("/:id/submissions", submissionHandler.SubmitAnswers)
			}

			submissions := protected.Group("/submissions")
			{
				submissions.GET("", submissionHandler.ListMySubmissions)
				submissions.GET("/:id", submissionHandler.GetSubmission)
			}
		}

		// Authoring routes (admin only, full fields including correct answers)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireAdmin())
		{
			exams := admin.Group("/exams")
			{
				exams.GET("", examHandler.ListExams)
				exams.POST("", examHandler.CreateExam)
				exams.POST("/import", examHandler.ImportExam)
				exams.GET("/:id", examHandler.GetExam)
				exams.PUT("/:id", examHandler.UpdateExam)
				exams.DELETE("/:id", examHandler.DeleteExam)
				exams.PUT("/:id/status", examHandler.SetStatus)
				exams.POST("/:id/questions", examHandler.AddQuestion)
			}

			questions := admin.Group("/questions")
			{
				questions.PUT("/:id", examHandler.UpdateQuestion)
				questions.DELETE("/:id", examHandler.DeleteQuestion)
			}
		}
	}

	// WebSocket endpoint: live results feed for an exam's admin dashboard.
	// Admin-only; websocket clients pass the token as a query parameter.
	router.GET("/ws/exams/:id/results", middleware.AuthMiddleware(jwtSecret), middleware.RequireAdmin(), func(c *gin.Context) {
		examID := c.Param("id")

		// The exam must exist before a feed is opened for it
		if err := examService.ExamExists(examID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for exam %s: %v", examID, err)
			return
		}

		hub.RegisterClient(conn, examID)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
