package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/link-optimizer/backend/tfidf"
)

func signature(tokens ...string) []tfidf.TokenScore {
	scores := make([]tfidf.TokenScore, 0, len(tokens))
	for i, token := range tokens {
		scores = append(scores, tfidf.TokenScore{
			Token:     token,
			Score:     float64(len(tokens) - i),
			Frequency: 1,
		})
	}
	return scores
}

func fixtureInput() Input {
	return Input{
		Pages: []Page{
			{URL: "https://site.com/a", Title: "Roasting Guide", Tokens: []string{"coffee", "roasting", "guide"}},
			{URL: "https://site.com/b", Title: "Brewing Guide", Tokens: []string{"coffee", "brewing", "guide"}},
			{URL: "https://site.com/c", Title: "Coffee Shops", Tokens: []string{"coffee", "shops"}},
		},
		KeywordsByPage: map[string][]tfidf.TokenScore{
			"https://site.com/a": signature("coffee"),
		},
		KeywordMetrics: map[string]KeywordMetrics{
			"coffee": {Keyword: "coffee", Volume: 1000, Difficulty: 9, Impressions: 500},
		},
		PageMetrics: map[string]PageMetrics{
			"https://site.com/b": {URL: "https://site.com/b", Impressions: 1000, Clicks: 100, Position: 10, IncomingLinks: 1},
			"https://site.com/c": {URL: "https://site.com/c", Impressions: 500, Clicks: 20, Position: 20, IncomingLinks: 0},
		},
	}
}

func TestFindOpportunities_BestTargetAndScores(t *testing.T) {
	result := FindOpportunities(fixtureInput())
	require.Len(t, result.Opportunities, 1)

	opp := result.Opportunities[0]
	assert.Equal(t, "https://site.com/a", opp.SourceURL)
	assert.Equal(t, "Roasting Guide", opp.SourceTitle)
	// b scores 126 against c's 104 and wins.
	assert.Equal(t, "https://site.com/b", opp.TargetURL)
	assert.Equal(t, "coffee", opp.Keyword)
	assert.Equal(t, "Learn more about coffee", opp.AnchorText)

	// Jaccard(a, b) = 2/4, so relevance = 1 and the base score holds.
	assert.InDelta(t, 50000, opp.KeywordScore, 1e-6)
	assert.InDelta(t, 126, opp.PageScore, 1e-9)
	assert.InDelta(t, 6300000, opp.Priority, 1e-3)

	assert.Equal(t, "High Opportunity", opp.KeywordTier)
	assert.Equal(t, "High Priority", opp.PageTier)
	assert.Equal(t, "Critical", opp.PriorityTier)

	assert.Equal(t, 1000, opp.Volume)
	assert.InDelta(t, 9, opp.Difficulty, 1e-9)
	assert.InDelta(t, 10, opp.CurrentPosition, 1e-9)
	assert.Equal(t, "+150 clicks/month", opp.ExpectedImpact)

	// Target at rank 10 with 100 clicks, projected to rank 7.
	assert.Equal(t, 152, opp.Impact.Estimated)
	assert.Equal(t, 52, opp.Impact.Increase)
	assert.Equal(t, 52, opp.Impact.Percentage)
}

func TestFindOpportunities_Stats(t *testing.T) {
	result := FindOpportunities(fixtureInput())

	assert.Equal(t, 3, result.Stats.TotalPages)
	assert.Equal(t, 1, result.Stats.TotalKeywords)
	assert.Equal(t, 1, result.Stats.TotalOpportunities)
	assert.InDelta(t, 6300000, result.Stats.AvgPriority, 1e-3)
}

func TestFindOpportunities_EmptyInput(t *testing.T) {
	result := FindOpportunities(Input{})

	assert.Empty(t, result.Opportunities)
	assert.Zero(t, result.Stats.TotalPages)
	assert.Zero(t, result.Stats.AvgPriority)
}

func TestFindOpportunities_MissingKeywordMetricsSkipped(t *testing.T) {
	in := fixtureInput()
	in.KeywordMetrics = map[string]KeywordMetrics{}

	result := FindOpportunities(in)
	assert.Empty(t, result.Opportunities)
}

func TestFindOpportunities_AdmissionThreshold(t *testing.T) {
	in := fixtureInput()
	// (1 * 500) / (9 + 1) = 50, below the admission threshold of 100.
	in.KeywordMetrics["coffee"] = KeywordMetrics{Keyword: "coffee", Volume: 1, Difficulty: 9, Impressions: 500}

	result := FindOpportunities(in)
	assert.Empty(t, result.Opportunities)
}

func TestFindOpportunities_ThresholdAppliesAfterRelevance(t *testing.T) {
	in := fixtureInput()
	// Base score 120 passes admission, but source and target share only
	// the keyword itself: relevance 0.7 brings the final score to 84,
	// below the threshold, so nothing is emitted.
	in.Pages[0].Tokens = []string{"coffee", "alpha", "bravo"}
	in.Pages[1].Tokens = []string{"coffee", "charlie", "delta"}
	in.Pages[2].Tokens = []string{"tea", "shops"}
	in.KeywordMetrics["coffee"] = KeywordMetrics{Keyword: "coffee", Volume: 12, Difficulty: 49, Impressions: 500}

	result := FindOpportunities(in)
	assert.Empty(t, result.Opportunities)
}

func TestFindOpportunities_NoTargetWithMetrics(t *testing.T) {
	in := fixtureInput()
	in.PageMetrics = map[string]PageMetrics{}

	result := FindOpportunities(in)
	assert.Empty(t, result.Opportunities)
}

func TestFindOpportunities_SourceNeverTargetsItself(t *testing.T) {
	in := fixtureInput()
	in.Pages = in.Pages[:1]
	in.PageMetrics = map[string]PageMetrics{
		"https://site.com/a": {URL: "https://site.com/a", Impressions: 1000, Clicks: 100, Position: 5, IncomingLinks: 0},
	}

	result := FindOpportunities(in)
	assert.Empty(t, result.Opportunities)
}

func TestFindOpportunities_TieBreakFirstEncountered(t *testing.T) {
	in := fixtureInput()
	// Give c identical metrics to b so their page scores tie exactly.
	in.PageMetrics["https://site.com/c"] = in.PageMetrics["https://site.com/b"]

	result := FindOpportunities(in)
	require.Len(t, result.Opportunities, 1)
	assert.Equal(t, "https://site.com/b", result.Opportunities[0].TargetURL)
}

func TestFindOpportunities_Deterministic(t *testing.T) {
	first := FindOpportunities(fixtureInput())
	second := FindOpportunities(fixtureInput())

	assert.Equal(t, first, second)
}

func TestFindOpportunities_RankedAndTruncated(t *testing.T) {
	in := Input{
		KeywordsByPage: make(map[string][]tfidf.TokenScore),
		KeywordMetrics: map[string]KeywordMetrics{
			"coffee": {Keyword: "coffee", Volume: 1000, Difficulty: 9, Impressions: 500},
		},
		PageMetrics: map[string]PageMetrics{
			"https://site.com/target": {URL: "https://site.com/target", Impressions: 1000, Clicks: 100, Position: 10, IncomingLinks: 1},
		},
	}
	in.Pages = append(in.Pages, Page{
		URL:    "https://site.com/target",
		Tokens: []string{"coffee", "brewing", "guide"},
	})
	for i := 0; i < 60; i++ {
		url := fmt.Sprintf("https://site.com/source-%02d", i)
		in.Pages = append(in.Pages, Page{
			URL:    url,
			Tokens: []string{"coffee", fmt.Sprintf("topic%02d", i)},
		})
		in.KeywordsByPage[url] = signature("coffee")
	}

	result := FindOpportunities(in)

	// 60 sources found the shared target, but only 50 surface.
	assert.Equal(t, 60, result.Stats.TotalOpportunities)
	assert.Len(t, result.Opportunities, MaxOpportunities)

	for i := 1; i < len(result.Opportunities); i++ {
		assert.GreaterOrEqual(t,
			result.Opportunities[i-1].Priority,
			result.Opportunities[i].Priority,
		)
	}
}
