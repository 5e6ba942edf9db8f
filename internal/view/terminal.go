// Package view renders presentation snapshots to a terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/resume-scorecard/internal/presentation"
)

const (
	barWidth   = 30
	labelWidth = 16

	colorSubtext = "#6b7280"
	colorEmpty   = "#3d3d3d"
	colorMatched = "#10b981"
	colorMissing = "#ef4444"
	colorError   = "#ef4444"
)

// Terminal is a presentation.Observer that writes to out. In live mode the score animation is
// redrawn in place; otherwise only the final report is written.
type Terminal struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	live     bool

	mu       sync.Mutex
	reported string
}

func NewTerminal(out io.Writer, live bool) *Terminal {
	return &Terminal{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		live:     live,
	}
}

func (t *Terminal) Observe(change presentation.Change, snap presentation.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch change {
	case presentation.ChangePhase:
		if snap.Phase == presentation.PhaseSubmitting {
			t.write(t.style(colorSubtext).Render("Analyzing resume...") + "\n")
		}
	case presentation.ChangeFailure:
		if snap.Failure != nil {
			t.write(t.Failure(*snap.Failure) + "\n")
		}
		return
	case presentation.ChangeReset:
		t.reported = ""
		return
	case presentation.ChangeScore:
		if t.live && snap.Score != nil && !snap.Score.Final {
			t.write("\r" + t.scoreLine(*snap.Score))
		}
	}

	if snap.Phase != presentation.PhaseRendering || !snap.Settled() || t.reported == snap.SubmissionID {
		return
	}
	t.reported = snap.SubmissionID
	if t.live {
		t.write("\r\033[K")
	}
	t.write(t.Report(snap) + "\n")
}

func (t *Terminal) write(s string) {
	_, _ = io.WriteString(t.out, s)
}

func (t *Terminal) style(color string) lipgloss.Style {
	return t.renderer.NewStyle().Foreground(lipgloss.Color(color))
}

func (t *Terminal) heading(title string) string {
	return t.renderer.NewStyle().Bold(true).Underline(true).Render(title)
}

// Failure renders a failed submission.
func (t *Terminal) Failure(f presentation.Failure) string {
	box := t.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorError)).
		Padding(0, 1)
	return box.Render(t.style(colorError).Bold(true).Render("✗ Analysis failed") + "\n" + f.Message)
}

// Report renders every sub-state present in snap.
func (t *Terminal) Report(snap presentation.Snapshot) string {
	blocks := []string{t.renderer.NewStyle().Bold(true).Render("Resume Analysis Results")}

	if snap.Score != nil {
		blocks = append(blocks, t.scoreLine(*snap.Score))
	}
	if len(snap.Breakdown) > 0 {
		blocks = append(blocks, t.breakdown(snap.Breakdown))
	}
	if len(snap.Sections) > 0 {
		blocks = append(blocks, t.sections(snap))
	}
	if snap.Keywords != nil {
		blocks = append(blocks, t.keywords(*snap.Keywords))
	}
	if snap.SkillGap != nil {
		blocks = append(blocks, t.skillGap(*snap.SkillGap))
		if len(snap.SkillGap.Learning) > 0 {
			blocks = append(blocks, t.learning(snap.SkillGap.Learning))
		}
	}
	if len(snap.Tips) > 0 {
		blocks = append(blocks, t.tips(snap.Tips))
	}

	return strings.Join(blocks, "\n\n")
}

func (t *Terminal) scoreLine(frame presentation.ScoreFrame) string {
	label := t.renderer.NewStyle().Width(labelWidth).Bold(true).Render("Overall Score")
	value := t.style(frame.Tier.Color()).Bold(true).Render(fmt.Sprintf("%3d/100", frame.Display))
	return label + t.bar(frame.Fill, frame.Tier.BarColor()) + " " + value
}

func (t *Terminal) breakdown(bars []presentation.Bar) string {
	lines := []string{t.heading("Score Breakdown")}
	for _, b := range bars {
		label := t.style(colorSubtext).Width(labelWidth).Render(b.Label)
		text := t.style(b.Tier.Color()).Render(b.Text)
		lines = append(lines, label+t.bar(b.Fill, b.Tier.BarColor())+" "+text)
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) bar(fill float64, color string) string {
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	filled := int(float64(barWidth) * fill)

	return t.style(color).Render(strings.Repeat("█", filled)) +
		t.style(colorEmpty).Render(strings.Repeat("░", barWidth-filled))
}

func (t *Terminal) sections(snap presentation.Snapshot) string {
	lines := []string{t.heading("Resume Sections")}
	for _, section := range snap.Sections {
		name := presentation.DisplayName(section.Name)
		if section.Found {
			lines = append(lines, t.style(colorMatched).Render("✓ ")+name)
			continue
		}
		lines = append(lines, t.style(colorMissing).Render("✗ ")+t.style(colorSubtext).Render(name))
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) keywords(set presentation.KeywordSet) string {
	return strings.Join([]string{
		t.heading(fmt.Sprintf("Matched Keywords (%d)", set.Matched.Count)),
		t.tags(set.Matched, colorMatched),
		"",
		t.heading(fmt.Sprintf("Missing Keywords (%d)", set.Missing.Count)),
		t.tags(set.Missing, colorMissing),
	}, "\n")
}

func (t *Terminal) tags(group presentation.TagGroup, color string) string {
	if group.Empty() {
		return t.style(colorSubtext).Italic(true).Render(group.Placeholder)
	}

	tag := t.style(color).Padding(0, 1)
	rendered := make([]string, 0, len(group.Tags))
	for _, name := range group.Tags {
		rendered = append(rendered, tag.Render(name))
	}
	return strings.Join(rendered, " ")
}

func (t *Terminal) skillGap(gap presentation.SkillGapView) string {
	summary := []string{
		"Skill match " + t.renderer.NewStyle().Bold(true).Render(gap.Summary.MatchPercentage),
		fmt.Sprintf("Matched %d", gap.Summary.Matched),
		fmt.Sprintf("Missing %d", gap.Summary.Missing),
	}
	if gap.Summary.Required != nil {
		summary = append(summary, fmt.Sprintf("Required %d", *gap.Summary.Required))
	}

	lines := []string{t.heading("Skill Gap Analysis"), strings.Join(summary, " · ")}
	for _, card := range gap.Categories {
		lines = append(lines, "", t.category(card))
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) category(card presentation.CategoryCard) string {
	if card.Placeholder {
		return t.style(colorSubtext).Italic(true).Render(card.Message)
	}

	lines := []string{
		card.Icon + " " + t.renderer.NewStyle().Bold(true).Render(card.DisplayName) + "  " + t.style(colorSubtext).Render(card.Badge),
	}
	if len(card.Matched) > 0 {
		lines = append(lines, "  "+t.style(colorMatched).Render("✓ "+strings.Join(card.Matched, ", ")))
	}
	if len(card.Missing) > 0 {
		lines = append(lines, "  "+t.style(colorMissing).Render("✗ "+strings.Join(card.Missing, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) learning(cards []presentation.LearningCard) string {
	lines := []string{t.heading("Learning Recommendations")}
	for _, card := range cards {
		if card.Placeholder {
			lines = append(lines, t.style(colorMatched).Render(card.Message))
			continue
		}

		header := t.renderer.NewStyle().Bold(true).Render(card.Skill)
		if card.Category != "" {
			header += t.style(colorSubtext).Render(" (" + card.Category + ")")
		}
		if card.Priority != "" {
			header += " " + t.style(card.Color).Render("["+card.Priority+"]")
		}
		lines = append(lines, header)
		for _, resource := range card.Resources {
			lines = append(lines, "  • "+resource)
		}
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) tips(tips []string) string {
	lines := []string{t.heading("Recommendations")}
	for _, tip := range tips {
		lines = append(lines, "• "+tip)
	}
	return strings.Join(lines, "\n")
}
