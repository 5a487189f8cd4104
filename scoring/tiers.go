package scoring

// ScoreKind selects which threshold set a tier classification uses.
type ScoreKind string

const (
	KindKeyword  ScoreKind = "keyword"
	KindPage     ScoreKind = "page"
	KindPriority ScoreKind = "priority"
)

// Tier is one of the four ordered opportunity bands.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierLow       Tier = "low"
)

// ScoreTier pairs a tier with its display label.
type ScoreTier struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// GetScoreTier classifies a score into a tier using kind-specific
// thresholds. It is total: any score and kind yields a tier, with
// unknown kinds falling back to the priority thresholds.
func GetScoreTier(score float64, kind ScoreKind) ScoreTier {
	switch kind {
	case KindKeyword:
		switch {
		case score > 1000:
			return ScoreTier{TierExcellent, "High Opportunity"}
		case score > 500:
			return ScoreTier{TierGood, "Good Opportunity"}
		case score > 100:
			return ScoreTier{TierFair, "Fair Opportunity"}
		default:
			return ScoreTier{TierLow, "Low Opportunity"}
		}
	case KindPage:
		switch {
		case score > 100:
			return ScoreTier{TierExcellent, "High Priority"}
		case score > 50:
			return ScoreTier{TierGood, "Good Target"}
		case score > 20:
			return ScoreTier{TierFair, "Fair Target"}
		default:
			return ScoreTier{TierLow, "Low Priority"}
		}
	default:
		switch {
		case score > 100000:
			return ScoreTier{TierExcellent, "Critical"}
		case score > 50000:
			return ScoreTier{TierGood, "High"}
		case score > 10000:
			return ScoreTier{TierFair, "Medium"}
		default:
			return ScoreTier{TierLow, "Low"}
		}
	}
}
