// Package presentation turns a validated analysis result into the renderable sub-states shown by a
// view: an animated overall score, sub-score bars, keyword tags, skill-gap cards and learning cards.
package presentation

import "math"

// Tier buckets a 0-100 score for coloring.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

const (
	highThreshold = 70
	midThreshold  = 50
)

// TierFor classifies a score: >= 70 is high, >= 50 is mid, anything else is low.
func TierFor(score float64) Tier {
	switch {
	case score >= highThreshold:
		return TierHigh
	case score >= midThreshold:
		return TierMid
	default:
		return TierLow
	}
}

// Color is the text color of the tier.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "#10b981"
	case TierMid:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// BarColor is the darker shade used for filled bars.
func (t Tier) BarColor() string {
	switch t {
	case TierHigh:
		return "#059669"
	case TierMid:
		return "#d97706"
	default:
		return "#dc2626"
	}
}

// roundScore rounds half away from zero.
func roundScore(v float64) int {
	return int(math.Round(v))
}
