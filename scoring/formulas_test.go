package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordScore(t *testing.T) {
	// (1000 * 500) / (9 + 1) * 1 = 50000
	assert.InDelta(t, 50000, KeywordScore(1000, 500, 9, 1), 1e-9)

	// Relevance scales the score linearly.
	assert.InDelta(t, 25000, KeywordScore(1000, 500, 9, 0.5), 1e-9)

	// Zero difficulty is guarded by the +1 denominator.
	assert.InDelta(t, 500000, KeywordScore(1000, 500, 0, 1), 1e-9)

	// Zero volume or impressions means no opportunity.
	assert.Zero(t, KeywordScore(0, 500, 9, 1))
	assert.Zero(t, KeywordScore(1000, 0, 9, 1))
}

func TestCTRPotential(t *testing.T) {
	assert.InDelta(t, 0.28, CTRPotential(10), 1e-9)
	assert.InDelta(t, 0.298, CTRPotential(1), 1e-9)

	// Decay floors at zero for very deep ranks.
	assert.Zero(t, CTRPotential(150))
	assert.Zero(t, CTRPotential(200))
}

func TestPageScore(t *testing.T) {
	// (1000 * 0.28) / 2 * (1 - 10/100) = 126
	assert.InDelta(t, 126, PageScore(1000, 10, 1), 1e-9)

	// A page at rank 100 or worse cannot improve.
	assert.Zero(t, PageScore(1000, 100, 0))
	assert.Zero(t, PageScore(1000, 250, 0))

	// No impressions, no score.
	assert.Zero(t, PageScore(0, 5, 0))
}

func TestPriority(t *testing.T) {
	assert.InDelta(t, 6300000, Priority(50000, 126), 1e-6)
	assert.Zero(t, Priority(50000, 0))
}

func TestRelevance(t *testing.T) {
	source := []string{"coffee", "roasting", "guide"}
	target := []string{"coffee", "brewing", "guide"}

	// Both mention the keyword; jaccard = 2/4, so 0.5 + 0.5 = 1.
	assert.InDelta(t, 1.0, Relevance(source, target, "coffee"), 1e-9)

	// Keyword lookup is case-insensitive.
	assert.InDelta(t, 1.0, Relevance(source, target, "COFFEE"), 1e-9)

	// Missing on either side collapses to the 0.3 floor.
	assert.InDelta(t, 0.3, Relevance(source, target, "espresso"), 1e-9)
	assert.InDelta(t, 0.3, Relevance([]string{"tea"}, target, "coffee"), 1e-9)
	assert.InDelta(t, 0.3, Relevance(source, []string{"tea"}, "coffee"), 1e-9)

	// Disjoint-but-for-keyword sets: jaccard = 1/5.
	assert.InDelta(t, 0.7, Relevance(
		[]string{"coffee", "alpha", "bravo"},
		[]string{"coffee", "charlie", "delta"},
		"coffee",
	), 1e-9)
}

func TestEstimateTrafficImpact(t *testing.T) {
	// Rank 8 -> target rank 5: CTR 0.033 -> 0.055.
	impact := EstimateTrafficImpact(100, 8)
	assert.Equal(t, 167, impact.Estimated)
	assert.Equal(t, 67, impact.Increase)
	assert.Equal(t, 67, impact.Percentage)

	// Target rank floors at 1.
	top := EstimateTrafficImpact(100, 2)
	assert.Equal(t, 187, top.Estimated) // 100/0.152 * 0.284

	// Beyond rank 10 both sides use the flat 1.5% CTR.
	deep := EstimateTrafficImpact(50, 30)
	assert.Equal(t, 50, deep.Estimated)
	assert.Zero(t, deep.Increase)
	assert.Zero(t, deep.Percentage)

	// Zero current clicks must not divide by zero.
	none := EstimateTrafficImpact(0, 8)
	assert.Zero(t, none.Estimated)
	assert.Zero(t, none.Increase)
	assert.Zero(t, none.Percentage)
}

func TestEstimateTrafficImpactAt(t *testing.T) {
	impact := EstimateTrafficImpactAt(100, 8, 3)
	// 100/0.033 = 3030.3 impressions; * 0.098 = 297.
	assert.Equal(t, 297, impact.Estimated)
	assert.Equal(t, 197, impact.Increase)
	assert.Equal(t, 197, impact.Percentage)
}

func TestGetScoreTier(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		kind  ScoreKind
		tier  Tier
		label string
	}{
		{"keyword excellent", 50000, KindKeyword, TierExcellent, "High Opportunity"},
		{"keyword good", 750, KindKeyword, TierGood, "Good Opportunity"},
		{"keyword fair", 250, KindKeyword, TierFair, "Fair Opportunity"},
		{"keyword low", 100, KindKeyword, TierLow, "Low Opportunity"},
		{"keyword boundary not excellent", 1000, KindKeyword, TierGood, "Good Opportunity"},
		{"page excellent", 126, KindPage, TierExcellent, "High Priority"},
		{"page good", 75, KindPage, TierGood, "Good Target"},
		{"page fair", 30, KindPage, TierFair, "Fair Target"},
		{"page low", 5, KindPage, TierLow, "Low Priority"},
		{"priority excellent", 6300000, KindPriority, TierExcellent, "Critical"},
		{"priority good", 75000, KindPriority, TierGood, "High"},
		{"priority fair", 25000, KindPriority, TierFair, "Medium"},
		{"priority low", 1000, KindPriority, TierLow, "Low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetScoreTier(tt.score, tt.kind)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}
