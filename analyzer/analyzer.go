// Package analyzer orchestrates one internal-link analysis run: it
// builds a per-run corpus from the supplied pages, extracts keyword
// signatures, scores link opportunities and caches the assembled result.
package analyzer

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/link-optimizer/backend/logging"
	"github.com/link-optimizer/backend/scoring"
	"github.com/link-optimizer/backend/stats"
	"github.com/link-optimizer/backend/tfidf"
)

// Cache entry with expiration
type cacheEntry struct {
	result    *AnalysisResult
	timestamp time.Time
}

// CacheStats provides statistics about the analyzer's result cache
type CacheStats struct {
	Entries     int           `json:"entries"`
	CacheHits   int           `json:"cacheHits"`
	CacheMisses int           `json:"cacheMisses"`
	CacheTTL    time.Duration `json:"cacheTTL"`
}

// Analyzer runs analyses and caches their immutable results. Each run
// owns its own corpus; only the cache is shared across runs.
type Analyzer struct {
	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time
	cleanupInterval time.Duration
	stats           *stats.Storage
	logger          logging.Logger
}

// New creates a new Analyzer instance persisting usage counters under dataDir.
func New(dataDir string, logger logging.Logger) (*Analyzer, error) {
	statsStorage, err := stats.NewStorage(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	analyzer := &Analyzer{
		cache:           make(map[string]cacheEntry),
		cacheTTL:        30 * time.Minute, // Cache results for 30 minutes
		maxCacheSize:    1000,             // Maximum number of cached results
		cleanupInterval: 5 * time.Minute,  // Run cleanup every 5 minutes
		lastCleanup:     time.Now(),
		stats:           statsStorage,
		logger:          logger,
	}

	// Start cleanup goroutine
	go analyzer.periodicCleanup()

	return analyzer, nil
}

// periodicCleanup removes expired cache entries periodically
func (a *Analyzer) periodicCleanup() {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		a.cleanup()
	}
}

// cleanup removes expired entries and ensures the cache size limit
func (a *Analyzer) cleanup() {
	now := time.Now()

	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	// If still over size limit, remove oldest entries
	if len(a.cache) > a.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(a.cache))

		for key, entry := range a.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		// Sort by timestamp
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		// Remove oldest entries until under limit
		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}

	a.lastCleanup = now
}

// SetMaxCacheSize sets the maximum number of entries in the result cache
func (a *Analyzer) SetMaxCacheSize(size int) {
	a.cacheMutex.Lock()
	a.maxCacheSize = size
	a.cacheMutex.Unlock()
	a.cleanup() // Run cleanup immediately if new size is smaller
}

// SetCacheTTL sets the cache TTL
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
}

// ClearCache clears the result cache
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// generateCacheKey hashes the canonical JSON form of a request. Map keys
// marshal in sorted order, so identical inputs always hash identically.
func generateCacheKey(req *AnalysisRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	hash := md5.Sum(payload)
	return hex.EncodeToString(hash[:])
}

// GetCacheStats returns statistics about the result cache
func (a *Analyzer) GetCacheStats() CacheStats {
	currentStats := a.stats.GetCurrentStats()

	a.cacheMutex.RLock()
	entries := len(a.cache)
	ttl := a.cacheTTL
	a.cacheMutex.RUnlock()

	return CacheStats{
		Entries:     entries,
		CacheHits:   currentStats.CacheHits,
		CacheMisses: currentStats.CacheMisses,
		CacheTTL:    ttl,
	}
}

// IsCached checks if a request's result is in the cache and not expired
func (a *Analyzer) IsCached(req *AnalysisRequest) bool {
	cacheKey := generateCacheKey(req)

	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[cacheKey]
	return found && time.Since(entry.timestamp) < a.cacheTTL
}

// Analyze returns the ranked link opportunities for a request, serving
// a cached result when the identical input was analyzed recently.
func (a *Analyzer) Analyze(req *AnalysisRequest) *AnalysisResult {
	// Check if cleanup is needed
	if time.Since(a.lastCleanup) > a.cleanupInterval {
		go a.cleanup() // Run cleanup in background
	}

	cacheKey := generateCacheKey(req)

	a.cacheMutex.RLock()
	if entry, found := a.cache[cacheKey]; found {
		if time.Since(entry.timestamp) < a.cacheTTL {
			a.cacheMutex.RUnlock()
			a.stats.RecordCache(1, 0)
			return entry.result
		}
	}
	a.cacheMutex.RUnlock()

	// Not in cache or expired
	a.stats.RecordCache(0, 1)

	result := a.AnalyzeFresh(req)

	if cacheKey != "" {
		a.cacheMutex.Lock()
		a.cache[cacheKey] = cacheEntry{
			result:    result,
			timestamp: time.Now(),
		}
		a.cacheMutex.Unlock()
	}

	return result
}

// AnalyzeFresh always recomputes: it builds a fresh corpus for the run,
// derives keyword signatures and scores every candidate opportunity.
func (a *Analyzer) AnalyzeFresh(req *AnalysisRequest) *AnalysisResult {
	startTime := time.Now()
	runID := uuid.NewString()

	topN := req.TopN
	if topN <= 0 {
		topN = tfidf.DefaultTopN
	}

	// Ingest every page first so document frequencies cover the whole
	// corpus before any signature is calculated. Duplicate URLs replace
	// earlier submissions, mirroring the corpus semantics.
	corpus := tfidf.New()
	pages := make([]scoring.Page, 0, len(req.Pages))
	position := make(map[string]int, len(req.Pages))

	for _, page := range req.Pages {
		corpus.AddDocument(page.URL, ExtractText(page.Content))

		if idx, seen := position[page.URL]; seen {
			pages[idx].Title = page.Title
			continue
		}
		position[page.URL] = len(pages)
		pages = append(pages, scoring.Page{URL: page.URL, Title: page.Title})
	}

	keywordsByPage := make(map[string][]tfidf.TokenScore, len(pages))
	for i := range pages {
		url := pages[i].URL
		pages[i].Tokens = corpus.Tokens(url)
		keywordsByPage[url] = corpus.Calculate(url, topN)
	}

	scored := scoring.FindOpportunities(scoring.Input{
		Pages:          pages,
		KeywordsByPage: keywordsByPage,
		KeywordMetrics: req.KeywordMetrics,
		PageMetrics:    req.PageMetrics,
	})

	summaries := make([]PageSummary, 0, len(pages))
	for _, page := range pages {
		title := page.Title
		if title == "" {
			title = page.URL
		}
		summaries = append(summaries, PageSummary{URL: page.URL, Title: title})
	}

	a.stats.RecordRun(len(pages), scored.Stats.TotalKeywords, scored.Stats.TotalOpportunities)
	a.logger.Info("analysis run complete",
		logging.String("runId", runID),
		logging.Int("pages", len(pages)),
		logging.Int("keywords", scored.Stats.TotalKeywords),
		logging.Int("opportunities", scored.Stats.TotalOpportunities),
		logging.Duration("elapsed", time.Since(startTime)),
	)

	return &AnalysisResult{
		RunID:          runID,
		KeywordsByPage: keywordsByPage,
		Opportunities:  scored.Opportunities,
		Stats:          scored.Stats,
		Pages:          summaries,
	}
}

// GetStats returns the statistics storage instance
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown flushes statistics and drops the cache
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	a.cacheMutex.Lock()
	a.cache = nil
	a.cacheMutex.Unlock()

	return nil
}
