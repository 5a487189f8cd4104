package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/link-optimizer/backend/logging"
)

// StatsMiddleware tracks visitors and analysis-run statistics
func StatsMiddleware(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor by real IP
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		// Only track analysis requests
		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			runTime := float64(time.Since(start).Milliseconds())
			stats.TrackRun(runTime, c.Writer.Status() >= 400)
		}

		// Periodically save statistics asynchronously
		if stats.GetStatistics()["totalRuns"].(int)%100 == 0 {
			go stats.Save()
		}
	}
}
