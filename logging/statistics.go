package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

const statisticsFile = "statistics.json"

// Statistics represents the collected service usage statistics
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"` // IP -> Last Visit Time
	AnalysisRuns    int                  `json:"analysisRuns"`   // Total number of analysis runs
	ErrorCount      int                  `json:"errorCount"`     // Number of failed runs
	PopularSites    map[string]int       `json:"popularSites"`   // Analyzed site -> Count
	AverageRunTime  float64              `json:"averageRunTime"` // Average run time in milliseconds
	TotalRunTime    float64              `json:"-"`              // Used to calculate average
	RunCount        int                  `json:"-"`              // Used to calculate average
	LastPersisted   time.Time            `json:"lastPersisted"`  // Last time stats were saved
	filePath        string
	mutex           sync.RWMutex
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics, persisted under dataDir.
func Initialize(dataDir string) *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors: make(map[string]time.Time),
			PopularSites:   make(map[string]int),
			LastPersisted:  time.Now(),
			filePath:       filepath.Join(dataDir, statisticsFile),
		}

		// Try to load existing statistics
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// siteKey reduces an analyzed page URL to its scheme+host for grouping.
// Local and API URLs are filtered out.
func siteKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// TrackRun records one analysis run and its duration
func (s *Statistics) TrackRun(runTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRuns++

	if hasError {
		s.ErrorCount++
	}

	// Update average run time
	s.TotalRunTime += runTime
	s.RunCount++
	s.AverageRunTime = s.TotalRunTime / float64(s.RunCount)
}

// TrackSite records which site a run analyzed
func (s *Statistics) TrackSite(pageURL string) {
	key := siteKey(pageURL)
	if key == "" {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.PopularSites[key]++
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetPopularSites returns the top N most analyzed sites
func (s *Statistics) GetPopularSites(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[string]int)
	count := 0

	// Simple implementation - for production, use a heap or sorted data structure
	for site, freq := range s.PopularSites {
		if count < n {
			result[site] = freq
			count++
		}
	}

	return result
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.AnalysisRuns == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(s.AnalysisRuns)) * 100
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("could not create statistics file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}

	return nil
}

// GetStatistics returns a copy of the current statistics, but only in development mode
func (s *Statistics) GetStatistics() map[string]interface{} {
	// Check if we're in development mode
	if os.Getenv(ENV_DEV_MODE) != "true" {
		// In production, return limited statistics without sensitive data
		visitors := s.GetUniqueVisitorsCount()
		errorRate := s.GetErrorRate()

		s.mutex.RLock()
		defer s.mutex.RUnlock()

		return map[string]interface{}{
			"uniqueVisitors24h": visitors,
			"totalRuns":         s.AnalysisRuns,
			"errorRate":         errorRate,
			"averageRunTime":    s.AverageRunTime,
		}
	}

	// In development mode, return full statistics
	visitors := s.GetUniqueVisitorsCount()
	errorRate := s.GetErrorRate()
	popular := s.GetPopularSites(5)

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return map[string]interface{}{
		"uniqueVisitors24h": visitors,
		"totalRuns":         s.AnalysisRuns,
		"errorRate":         errorRate,
		"averageRunTime":    s.AverageRunTime,
		"popularSites":      popular, // Top 5 sites only shown in dev mode
	}
}
