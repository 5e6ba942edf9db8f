package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/resume-scorecard/internal/result"
)

const (
	NoSkillRequirements = "No specific skill requirements detected in the job description."

	IconTechnical     = "💻"
	IconInterpersonal = "🤝"
)

// CategoryCard is one skill category with its completion ratio.
type CategoryCard struct {
	Key         string
	DisplayName string
	Icon        string
	Type        result.SkillType
	Matched     []string
	Missing     []string
	Badge       string
	Ratio       float64
	// HasRatio is false when the category lists no skills at all.
	HasRatio    bool
	Placeholder bool
	Message     string
}

// Categorize builds one card per category in input order, or a single placeholder card when there
// are no categories.
func Categorize(categories result.SkillCategories) []CategoryCard {
	if len(categories) == 0 {
		return []CategoryCard{{Placeholder: true, Message: NoSkillRequirements}}
	}

	cards := make([]CategoryCard, 0, len(categories))
	for _, entry := range categories {
		matched := len(entry.Category.Matched)
		total := matched + len(entry.Category.Missing)

		card := CategoryCard{
			Key:         entry.Name,
			DisplayName: DisplayName(entry.Name),
			Icon:        IconFor(entry.Category.Type),
			Type:        entry.Category.Type,
			Matched:     cloneStrings(entry.Category.Matched),
			Missing:     cloneStrings(entry.Category.Missing),
			Badge:       fmt.Sprintf("%d/%d", matched, total),
		}
		if total > 0 {
			card.Ratio = float64(matched) / float64(total)
			card.HasRatio = true
		}
		cards = append(cards, card)
	}
	return cards
}

// DisplayName turns a category key like "cloud_infra" into "Cloud Infra". Only the first letter of
// each word changes.
// DisplayName title-cases a category key on Unicode word boundaries, so "node.js" stays one word.
func DisplayName(key string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}

func IconFor(t result.SkillType) string {
	if t == result.SkillTypeTechnical {
		return IconTechnical
	}
	return IconInterpersonal
}

// SkillSummary backs the summary cards above the category list.
type SkillSummary struct {
	MatchPercentage string
	Matched         int
	Missing         int
	Required        *int
}

func Summarize(gap *result.SkillGapAnalysis) SkillSummary {
	summary := SkillSummary{
		MatchPercentage: strconv.FormatFloat(gap.SkillMatchPercentage, 'f', -1, 64) + "%",
		Matched:         gap.SkillsMatched,
		Missing:         gap.SkillsMissing,
	}
	if gap.TotalSkillsRequired != nil {
		required := *gap.TotalSkillsRequired
		summary.Required = &required
	}
	return summary
}

// SkillGapView is the rendered skill-gap section.
type SkillGapView struct {
	Summary    SkillSummary
	Categories []CategoryCard
	Learning   []LearningCard
}

func (v *SkillGapView) clone() *SkillGapView {
	if v == nil {
		return nil
	}
	out := *v
	out.Categories = append([]CategoryCard(nil), v.Categories...)
	out.Learning = append([]LearningCard(nil), v.Learning...)
	return &out
}
