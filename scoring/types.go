package scoring

import "github.com/link-optimizer/backend/tfidf"

// KeywordMetrics holds externally supplied search metrics for one
// keyword: volume and difficulty from the keyword-metrics provider,
// impressions from search-console data aggregated by query.
type KeywordMetrics struct {
	Keyword     string  `json:"keyword"`
	Volume      int     `json:"volume"`
	Difficulty  float64 `json:"difficulty"`
	Impressions int     `json:"impressions"`
}

// PageMetrics holds externally supplied analytics for one page.
type PageMetrics struct {
	URL           string  `json:"url"`
	Impressions   int     `json:"impressions"`
	Clicks        int     `json:"clicks"`
	Position      float64 `json:"position"`
	IncomingLinks int     `json:"incomingLinks"`
}

// Page is one crawled page entering the pipeline: its identity, display
// title and the token sequence produced by the term-weighting engine.
type Page struct {
	URL    string
	Title  string
	Tokens []string
}

// TrafficImpact is the estimated effect of moving a page up in rankings.
type TrafficImpact struct {
	Estimated  int `json:"estimated"`
	Increase   int `json:"increase"`
	Percentage int `json:"percentage"`
}

// LinkOpportunity recommends adding an internal link for a keyword from
// a source page to the best-scoring target page.
type LinkOpportunity struct {
	SourceURL       string        `json:"sourceUrl"`
	SourceTitle     string        `json:"sourceTitle"`
	TargetURL       string        `json:"targetUrl"`
	TargetTitle     string        `json:"targetTitle"`
	Keyword         string        `json:"keyword"`
	AnchorText      string        `json:"anchorText"`
	KeywordScore    float64       `json:"keywordScore"`
	PageScore       float64       `json:"pageScore"`
	Priority        float64       `json:"priority"`
	KeywordTier     string        `json:"keywordTier"`
	PageTier        string        `json:"pageTier"`
	PriorityTier    string        `json:"priorityTier"`
	Volume          int           `json:"volume"`
	Difficulty      float64       `json:"difficulty"`
	CurrentPosition float64       `json:"currentPosition"`
	ExpectedImpact  string        `json:"expectedImpact"`
	Impact          TrafficImpact `json:"impact"`
}

// AnalysisStats aggregates counters over one analysis run.
type AnalysisStats struct {
	TotalPages         int     `json:"totalPages"`
	TotalKeywords      int     `json:"totalKeywords"`
	TotalOpportunities int     `json:"totalOpportunities"`
	AvgPriority        float64 `json:"avgPriority"`
}

// Input carries everything the pipeline consumes: pages in a stable
// enumeration order, their keyword signatures, and the external metrics.
type Input struct {
	Pages          []Page
	KeywordsByPage map[string][]tfidf.TokenScore
	KeywordMetrics map[string]KeywordMetrics
	PageMetrics    map[string]PageMetrics
}

// Result is the ranked opportunity list plus aggregate statistics.
type Result struct {
	Opportunities []LinkOpportunity
	Stats         AnalysisStats
}
