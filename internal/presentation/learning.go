package presentation

import "github.com/spigell/resume-scorecard/internal/result"

const NoLearningNeeded = "Great! You have all the required skills."

// PriorityTier is the badge tier of a learning recommendation.
type PriorityTier string

const (
	PriorityHigh    PriorityTier = "high"
	PriorityMedium  PriorityTier = "medium"
	PriorityLow     PriorityTier = "low"
	PriorityNeutral PriorityTier = "neutral"
)

var priorityTiers = map[string]PriorityTier{
	"High":   PriorityHigh,
	"Medium": PriorityMedium,
	"Low":    PriorityLow,
}

var priorityColors = map[PriorityTier]string{
	PriorityHigh:   "#ef4444",
	PriorityMedium: "#f59e0b",
	PriorityLow:    "#6b7280",
}

const neutralPriorityColor = "#6b7280"

// PriorityTierFor matches the service priority exactly. Anything unrecognized is neutral.
func PriorityTierFor(priority string) PriorityTier {
	if tier, ok := priorityTiers[priority]; ok {
		return tier
	}
	return PriorityNeutral
}

func (t PriorityTier) Color() string {
	if color, ok := priorityColors[t]; ok {
		return color
	}
	return neutralPriorityColor
}

// LearningCard is one rendered learning recommendation.
type LearningCard struct {
	Skill       string
	Category    string
	Priority    string
	Tier        PriorityTier
	Color       string
	Resources   []string
	Placeholder bool
	Message     string
}

// Rank labels recommendations with their priority tier. Input order is kept.
func Rank(recs []result.LearningRecommendation) []LearningCard {
	if len(recs) == 0 {
		return []LearningCard{{Placeholder: true, Message: NoLearningNeeded, Tier: PriorityNeutral, Color: neutralPriorityColor}}
	}

	cards := make([]LearningCard, 0, len(recs))
	for _, rec := range recs {
		tier := PriorityTierFor(rec.Priority)
		cards = append(cards, LearningCard{
			Skill:     rec.Skill,
			Category:  rec.Category,
			Priority:  rec.Priority,
			Tier:      tier,
			Color:     tier.Color(),
			Resources: cloneStrings(rec.Resources),
		})
	}
	return cards
}
