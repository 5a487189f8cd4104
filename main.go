package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/link-optimizer/backend/analyzer"
	"github.com/link-optimizer/backend/logging"
	"github.com/link-optimizer/backend/middleware"
)

var (
	linkAnalyzer *analyzer.Analyzer
	rateLimiter  *middleware.RateLimiter
	logger       logging.Logger
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			// No .env file found, environment variables are used as-is
			return
		}
	}
}

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	// Load environment configuration
	loadEnv()

	// Set up Gin mode
	setupGinMode()

	var err error
	logger, err = logging.NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("DEV_MODE") == "true")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	// Initialize services
	linkAnalyzer, err = analyzer.New(dataDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analyzer", logging.Err(err))
	}
	defer linkAnalyzer.Shutdown()

	rateLimiter = middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	// Initialize service statistics
	stats := logging.Initialize(dataDir)

	// Initialize Gin router
	r := gin.New()

	// Add middlewares
	r.Use(middleware.ErrorHandler(logger))
	r.Use(rateLimiter.RateLimit())
	r.Use(middleware.StatsMiddleware(stats))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Link opportunity analysis
		api.POST("/analyze", analyzeSite(stats))

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, stats.GetStatistics())
		})
	}

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082" // Default port
	}

	logger.Info("Server starting", logging.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", logging.Err(err))
	}
}

func analyzeSite(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request analyzer.AnalysisRequest

		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid analysis payload: " + err.Error(),
			})
			return
		}

		logger.Info("Analyze request received",
			logging.String("clientIp", c.ClientIP()),
			logging.Int("pages", len(request.Pages)),
		)

		// Record which site is being analyzed
		if len(request.Pages) > 0 {
			stats.TrackSite(request.Pages[0].URL)
		}

		result := linkAnalyzer.Analyze(&request)
		c.JSON(http.StatusOK, result)
	}
}
