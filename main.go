package main

import (
	"log"

	"examhub/config"
	"examhub/handlers"
	"examhub/middleware"
	"examhub/models"
	"examhub/routes"
	"examhub/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Submission{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis-backed delivery cache
	redisClient := config.InitRedis(cfg)
	cache := services.NewExamCache(redisClient)

	// Initialize live results hub
	hub := services.NewResultsHub()
	go hub.Run()

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	examService := services.NewExamService(db, cache)
	importService := services.NewImportService(db, cache)
	deliveryService := services.NewDeliveryService(db, cache)
	gradingService := services.NewGradingService(db, hub)
	resultService := services.NewResultService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	examHandler := handlers.NewExamHandler(examService, importService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	submissionHandler := handlers.NewSubmissionHandler(gradingService, resultService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, examHandler, deliveryHandler, submissionHandler, hub, examService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
