package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MaxOpportunities caps the surfaced opportunity list.
const MaxOpportunities = 50

// admissionThreshold is the minimum keyword score an opportunity must
// reach to be emitted.
const admissionThreshold = 100

// expectedImpactShare is the fraction of a target's impressions quoted
// as the headline clicks-per-month estimate.
const expectedImpactShare = 0.15

// FindOpportunities runs candidate generation over every (source page,
// keyword) pair, selects the single best target per pair, and returns
// the ranked opportunity list with aggregate statistics. The result is
// deterministic for a fixed input: pages are enumerated in slice order
// and tie-breaks keep the first-encountered candidate.
func FindOpportunities(in Input) Result {
	// Precompute per-page normalized text for keyword containment checks.
	pageText := make(map[string]string, len(in.Pages))
	for _, page := range in.Pages {
		pageText[page.URL] = strings.Join(page.Tokens, " ")
	}

	var opportunities []LinkOpportunity

	for _, source := range in.Pages {
		for _, kw := range in.KeywordsByPage[source.URL] {
			keyword := kw.Token

			metrics, ok := in.KeywordMetrics[keyword]
			if !ok {
				continue
			}

			// Admission check with the default relevance of 1. The final
			// score only shrinks from here, so anything below the
			// threshold now can never qualify.
			base := KeywordScore(metrics.Volume, metrics.Impressions, metrics.Difficulty, 1)
			if base < admissionThreshold {
				continue
			}

			target, targetScore := bestTarget(in, source.URL, keyword, pageText)
			if target == nil {
				continue
			}

			relevance := Relevance(source.Tokens, target.Tokens, keyword)
			keywordScore := base * relevance
			if keywordScore < admissionThreshold {
				continue
			}

			targetMetrics := in.PageMetrics[target.URL]
			priority := Priority(keywordScore, targetScore)
			impact := EstimateTrafficImpact(
				targetMetrics.Clicks,
				int(math.Round(targetMetrics.Position)),
			)

			opportunities = append(opportunities, LinkOpportunity{
				SourceURL:       source.URL,
				SourceTitle:     pageTitle(source),
				TargetURL:       target.URL,
				TargetTitle:     pageTitle(*target),
				Keyword:         keyword,
				AnchorText:      fmt.Sprintf("Learn more about %s", keyword),
				KeywordScore:    keywordScore,
				PageScore:       targetScore,
				Priority:        priority,
				KeywordTier:     GetScoreTier(keywordScore, KindKeyword).Label,
				PageTier:        GetScoreTier(targetScore, KindPage).Label,
				PriorityTier:    GetScoreTier(priority, KindPriority).Label,
				Volume:          metrics.Volume,
				Difficulty:      metrics.Difficulty,
				CurrentPosition: targetMetrics.Position,
				ExpectedImpact: fmt.Sprintf("+%d clicks/month",
					int(math.Round(float64(targetMetrics.Impressions)*expectedImpactShare))),
				Impact: impact,
			})
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Priority > opportunities[j].Priority
	})

	stats := buildStats(in, opportunities)

	if len(opportunities) > MaxOpportunities {
		opportunities = opportunities[:MaxOpportunities]
	}

	return Result{Opportunities: opportunities, Stats: stats}
}

// bestTarget scans candidate targets for a keyword and returns the one
// with the highest page score, or nil when no candidate qualifies. A
// candidate must be a different page, mention the keyword, have page
// metrics, and score above zero. Later candidates must strictly beat
// the running maximum, so ties keep the first page in enumeration order.
func bestTarget(in Input, sourceURL, keyword string, pageText map[string]string) (*Page, float64) {
	var best *Page
	maxScore := 0.0

	for i := range in.Pages {
		candidate := &in.Pages[i]
		if candidate.URL == sourceURL {
			continue
		}
		if !strings.Contains(pageText[candidate.URL], keyword) {
			continue
		}

		metrics, ok := in.PageMetrics[candidate.URL]
		if !ok {
			continue
		}

		score := PageScore(metrics.Impressions, metrics.Position, metrics.IncomingLinks)
		if score > maxScore {
			maxScore = score
			best = candidate
		}
	}

	return best, maxScore
}

func buildStats(in Input, all []LinkOpportunity) AnalysisStats {
	totalKeywords := 0
	for _, signature := range in.KeywordsByPage {
		totalKeywords += len(signature)
	}

	avgPriority := 0.0
	if len(all) > 0 {
		sum := 0.0
		for _, opp := range all {
			sum += opp.Priority
		}
		avgPriority = sum / float64(len(all))
	}

	return AnalysisStats{
		TotalPages:         len(in.Pages),
		TotalKeywords:      totalKeywords,
		TotalOpportunities: len(all),
		AvgPriority:        avgPriority,
	}
}

func pageTitle(p Page) string {
	if p.Title != "" {
		return p.Title
	}
	return p.URL
}
