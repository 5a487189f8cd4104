// Package scoring ranks internal-link opportunities by combining keyword
// metrics, page analytics and content relevance into priority scores.
package scoring

import (
	"math"
	"strings"
)

// ctrByPosition holds industry-average click-through rates for ranks 1-10.
var ctrByPosition = [10]float64{
	0.284, 0.152, 0.098, 0.070, 0.055,
	0.045, 0.038, 0.033, 0.029, 0.025,
}

// beyondTopTenCTR is the flat rate assumed for any rank past 10.
const beyondTopTenCTR = 0.015

// KeywordScore quantifies how much traffic a keyword could bring:
// (volume * impressions) / (difficulty + 1) * relevance.
func KeywordScore(volume, impressions int, difficulty, relevance float64) float64 {
	return float64(volume) * float64(impressions) / (difficulty + 1) * relevance
}

// CTRPotential is a linear approximation of click-through-rate decay by
// search rank, floored at zero.
func CTRPotential(position float64) float64 {
	return math.Max(0, 0.30-position*0.002)
}

// PageScore quantifies how much a page would benefit from another
// incoming link: (impressions * ctrPotential) / (incomingLinks + 1)
// scaled by how far the page sits from rank 100.
func PageScore(impressions int, position float64, incomingLinks int) float64 {
	rankFactor := 1 - math.Min(position, 100)/100
	return float64(impressions) * CTRPotential(position) / float64(incomingLinks+1) * rankFactor
}

// Priority combines a keyword score and a page score into the final
// ranking value.
func Priority(keywordScore, pageScore float64) float64 {
	return keywordScore * pageScore
}

// Relevance scores how well two pages support linking on a keyword. If
// either page never mentions the keyword the link is weak (0.3);
// otherwise the Jaccard similarity of the token sets is added to a 0.5
// base, capped at 1.
func Relevance(sourceTokens, targetTokens []string, keyword string) float64 {
	keyword = strings.ToLower(keyword)

	sourceSet := toSet(sourceTokens)
	targetSet := toSet(targetTokens)

	if _, ok := sourceSet[keyword]; !ok {
		return 0.3
	}
	if _, ok := targetSet[keyword]; !ok {
		return 0.3
	}

	intersection := 0
	for token := range sourceSet {
		if _, ok := targetSet[token]; ok {
			intersection++
		}
	}
	union := len(sourceSet) + len(targetSet) - intersection
	if union == 0 {
		return 0.3
	}

	jaccard := float64(intersection) / float64(union)
	return math.Min(1, 0.5+jaccard)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// ctrForRank looks up the average CTR for a search rank.
func ctrForRank(rank int) float64 {
	if rank >= 1 && rank <= 10 {
		return ctrByPosition[rank-1]
	}
	return beyondTopTenCTR
}

// EstimateTrafficImpact projects clicks if a page moved from its current
// rank to three positions higher (floored at rank 1).
func EstimateTrafficImpact(currentClicks, currentPosition int) TrafficImpact {
	target := currentPosition - 3
	if target < 1 {
		target = 1
	}
	return EstimateTrafficImpactAt(currentClicks, currentPosition, target)
}

// EstimateTrafficImpactAt projects clicks at an explicit target rank.
// Impressions are back-derived from current clicks with the CTR floored
// at 0.001; a page with zero clicks reports a 0% increase.
func EstimateTrafficImpactAt(currentClicks, currentPosition, targetPosition int) TrafficImpact {
	currentCTR := math.Max(ctrForRank(currentPosition), 0.001)
	targetCTR := ctrForRank(targetPosition)

	currentImpressions := float64(currentClicks) / currentCTR
	estimated := int(math.Round(currentImpressions * targetCTR))
	increase := estimated - currentClicks

	percentage := 0
	if currentClicks > 0 {
		percentage = int(math.Round(float64(increase) / float64(currentClicks) * 100))
	}

	return TrafficImpact{
		Estimated:  estimated,
		Increase:   increase,
		Percentage: percentage,
	}
}
