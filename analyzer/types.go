package analyzer

import (
	"github.com/link-optimizer/backend/scoring"
	"github.com/link-optimizer/backend/tfidf"
)

// PageInput is one crawled page as supplied by the orchestrator. Content
// may be raw HTML or already-extracted text; HTML is reduced to body
// text before entering the corpus.
type PageInput struct {
	URL     string `json:"url" binding:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AnalysisRequest carries the fully materialized inputs for one run:
// the crawled pages plus externally retrieved keyword and page metrics.
type AnalysisRequest struct {
	Pages          []PageInput                       `json:"pages" binding:"required"`
	KeywordMetrics map[string]scoring.KeywordMetrics `json:"keywordMetrics"`
	PageMetrics    map[string]scoring.PageMetrics    `json:"pageMetrics"`
	TopN           int                               `json:"topN"`
}

// PageSummary identifies one analyzed page in the result payload.
type PageSummary struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// AnalysisResult is the complete output of one analysis run.
type AnalysisResult struct {
	RunID          string                        `json:"runId"`
	KeywordsByPage map[string][]tfidf.TokenScore `json:"keywordsByPage"`
	Opportunities  []scoring.LinkOpportunity     `json:"opportunities"`
	Stats          scoring.AnalysisStats         `json:"stats"`
	Pages          []PageSummary                 `json:"pages"`
}
