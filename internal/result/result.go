// Package result defines the analysis result returned by the scoring service and validates raw
// responses against it.
package result

import (
	"encoding/json"
	"strings"
)

// AnalysisResult is the scoring output for one resume/job-description pair.
//
// MatchedKeywordsCount and MissingKeywordsCount are reported by the service independently of
// TopMatchedKeywords/TopMissingKeywords, which are a possibly truncated preview.
type AnalysisResult struct {
	OverallScore         float64           `json:"overall_score"`
	KeywordMatchScore    float64           `json:"keyword_match_score"`
	StructureScore       float64           `json:"structure_score"`
	Recommendations      []string          `json:"recommendations"`
	TopMatchedKeywords   []string          `json:"top_matched_keywords"`
	TopMissingKeywords   []string          `json:"top_missing_keywords"`
	MatchedKeywordsCount int               `json:"matched_keywords_count"`
	MissingKeywordsCount int               `json:"missing_keywords_count"`
	SectionsFound        Sections          `json:"sections_found,omitempty"`
	SkillGap             *SkillGapAnalysis `json:"skill_gap_analysis,omitempty"`
}

// SkillGapAnalysis groups required skills by category.
type SkillGapAnalysis struct {
	SkillMatchPercentage    float64                  `json:"skill_match_percentage"`
	SkillsMatched           int                      `json:"skills_matched"`
	SkillsMissing           int                      `json:"skills_missing"`
	TotalSkillsRequired     *int                     `json:"total_skills_required,omitempty"`
	SkillsByCategory        SkillCategories          `json:"skills_by_category"`
	LearningRecommendations []LearningRecommendation `json:"learning_recommendations"`
}

type SkillType string

const (
	SkillTypeTechnical     SkillType = "technical"
	SkillTypeInterpersonal SkillType = "interpersonal"
)

// ParseSkillType maps the service value to a SkillType. An empty value means technical,
// everything that is not technical ("soft" included) is interpersonal.
func ParseSkillType(raw string) SkillType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SkillTypeTechnical):
		return SkillTypeTechnical
	default:
		return SkillTypeInterpersonal
	}
}

type SkillCategory struct {
	Matched []string  `json:"matched"`
	Missing []string  `json:"missing"`
	Type    SkillType `json:"type"`
}

func (c *SkillCategory) UnmarshalJSON(data []byte) error {
	var raw struct {
		Matched []string `json:"matched"`
		Missing []string `json:"missing"`
		Type    *string  `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	skillType := ""
	if raw.Type != nil {
		skillType = *raw.Type
	}

	*c = SkillCategory{
		Matched: raw.Matched,
		Missing: raw.Missing,
		Type:    ParseSkillType(skillType),
	}
	return nil
}

// LearningRecommendation suggests resources for a missing skill. Priority is kept verbatim;
// unknown values are handled by the presentation layer.
type LearningRecommendation struct {
	Skill     string   `json:"skill"`
	Category  string   `json:"category"`
	Priority  string   `json:"priority"`
	Resources []string `json:"resources"`
}

// HasSkillGap reports whether the skill-gap section should be rendered.
func (r *AnalysisResult) HasSkillGap() bool {
	return r != nil && r.SkillGap != nil
}
