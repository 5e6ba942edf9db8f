package presentation

import (
	"fmt"

	"github.com/spigell/resume-scorecard/internal/result"
)

const (
	LabelKeywordMatch = "Keyword Match"
	LabelStructure    = "Structure"
)

// BreakdownEntry is a named sub-score.
type BreakdownEntry struct {
	Label string
	Score float64
}

// Bar is a sub-score rendered as a proportionally filled bar.
type Bar struct {
	Label string
	Score float64
	Fill  float64
	Text  string
	Tier  Tier
}

// BreakdownEntries lists the sub-scores of r in display order.
func BreakdownEntries(r *result.AnalysisResult) []BreakdownEntry {
	return []BreakdownEntry{
		{Label: LabelKeywordMatch, Score: r.KeywordMatchScore},
		{Label: LabelStructure, Score: r.StructureScore},
	}
}

func RenderBreakdown(entries []BreakdownEntry) []Bar {
	bars := make([]Bar, 0, len(entries))
	for _, entry := range entries {
		bars = append(bars, Bar{
			Label: entry.Label,
			Score: entry.Score,
			Fill:  entry.Score / 100,
			Text:  fmt.Sprintf("%d%%", roundScore(entry.Score)),
			Tier:  TierFor(entry.Score),
		})
	}
	return bars
}
