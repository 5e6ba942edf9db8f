package presentation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/result"
	"github.com/spigell/resume-scorecard/internal/scheduler"
)

// Stage renders one part of a result.
type Stage interface {
	Name() string
	Apply(c *Cycle) (Outcome, error)
}

// Outcome describes what a stage did.
type Outcome struct {
	// Skipped stages had nothing to render. Reason says why.
	Skipped bool
	Reason  string
	// Deferred stages scheduled part of their work for later.
	Deferred bool
	// Superseded means the cycle was reset before the stage could commit.
	Superseded bool
}

// Cycle is one render of one result under one generation.
type Cycle struct {
	Result     *result.AnalysisResult
	Generation scheduler.Generation

	presenter *Presenter
}

// Commit applies mutate to the presenter state unless the cycle was superseded.
func (c *Cycle) Commit(change Change, mutate func(*Snapshot)) bool {
	return c.presenter.commit(c.Generation, change, mutate)
}

func superseded() (Outcome, error) {
	return Outcome{Superseded: true}, nil
}

// DefaultStages returns the render stages in display order.
func DefaultStages() []Stage {
	return []Stage{
		scoreStage{},
		breakdownStage{},
		tipsStage{},
		sectionsStage{},
		keywordsStage{},
		skillGapStage{},
		learningStage{},
	}
}

// Describe returns stage names in execution order.
func Describe(stages []Stage) []string {
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, stage.Name())
	}
	return names
}

func runStages(log *zap.Logger, stages []Stage, c *Cycle) error {
	for _, stage := range stages {
		stageLog := log.With(zap.String(logger.FieldStage, stage.Name()))

		outcome, err := stage.Apply(c)
		if err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		switch {
		case outcome.Superseded:
			stageLog.Debug("render cycle superseded")
			return nil
		case outcome.Skipped:
			stageLog.Debug("render stage skipped", zap.String("reason", outcome.Reason))
		default:
			stageLog.Debug("render stage", zap.Bool("deferred", outcome.Deferred))
		}
	}

	return nil
}

type scoreStage struct{}

func (scoreStage) Name() string { return "score" }

func (scoreStage) Apply(c *Cycle) (Outcome, error) {
	target := c.Result.OverallScore
	if !c.Commit(ChangeScore, func(s *Snapshot) { s.Animating = true }) {
		return superseded()
	}

	c.presenter.animator.Play(c.Generation, target, func(_ scheduler.Generation, frame ScoreFrame) {
		c.Commit(ChangeScore, func(s *Snapshot) {
			s.Score = &frame
			s.Animating = !frame.Final
		})
	})

	return Outcome{Deferred: target != 0}, nil
}

type breakdownStage struct{}

func (breakdownStage) Name() string { return "breakdown" }

func (breakdownStage) Apply(c *Cycle) (Outcome, error) {
	bars := RenderBreakdown(BreakdownEntries(c.Result))
	if !c.Commit(ChangeBreakdown, func(s *Snapshot) { s.BreakdownPending = true }) {
		return superseded()
	}

	p := c.presenter
	token := p.sched.ScheduleStep(c.Generation, p.timing.BreakdownDelay, func() {
		c.Commit(ChangeBreakdown, func(s *Snapshot) {
			s.Breakdown = bars
			s.BreakdownPending = false
		})
	})
	p.holdBreakdown(c.Generation, token)

	return Outcome{Deferred: true}, nil
}

type tipsStage struct{}

func (tipsStage) Name() string { return "tips" }

func (tipsStage) Apply(c *Cycle) (Outcome, error) {
	if len(c.Result.Recommendations) == 0 {
		return Outcome{Skipped: true, Reason: "no recommendations"}, nil
	}
	tips := cloneStrings(c.Result.Recommendations)
	if !c.Commit(ChangeTips, func(s *Snapshot) { s.Tips = tips }) {
		return superseded()
	}
	return Outcome{}, nil
}

type sectionsStage struct{}

func (sectionsStage) Name() string { return "sections" }

func (sectionsStage) Apply(c *Cycle) (Outcome, error) {
	if len(c.Result.SectionsFound) == 0 {
		return Outcome{Skipped: true, Reason: "no sections reported"}, nil
	}
	sections := append(result.Sections(nil), c.Result.SectionsFound...)
	if !c.Commit(ChangeSections, func(s *Snapshot) { s.Sections = sections }) {
		return superseded()
	}
	return Outcome{}, nil
}

type keywordsStage struct{}

func (keywordsStage) Name() string { return "keywords" }

func (keywordsStage) Apply(c *Cycle) (Outcome, error) {
	r := c.Result
	set := Partition(r.TopMatchedKeywords, r.TopMissingKeywords, r.MatchedKeywordsCount, r.MissingKeywordsCount)
	if !c.Commit(ChangeKeywords, func(s *Snapshot) { s.Keywords = &set }) {
		return superseded()
	}
	return Outcome{}, nil
}

const noSkillGapReason = "no skill gap analysis"

type skillGapStage struct{}

func (skillGapStage) Name() string { return "skill_gap" }

func (skillGapStage) Apply(c *Cycle) (Outcome, error) {
	if !c.Result.HasSkillGap() {
		return Outcome{Skipped: true, Reason: noSkillGapReason}, nil
	}

	gap := c.Result.SkillGap
	view := &SkillGapView{
		Summary:    Summarize(gap),
		Categories: Categorize(gap.SkillsByCategory),
	}
	if !c.Commit(ChangeSkillGap, func(s *Snapshot) { s.SkillGap = view }) {
		return superseded()
	}
	return Outcome{}, nil
}

type learningStage struct{}

func (learningStage) Name() string { return "learning" }

func (learningStage) Apply(c *Cycle) (Outcome, error) {
	if !c.Result.HasSkillGap() {
		return Outcome{Skipped: true, Reason: noSkillGapReason}, nil
	}

	cards := Rank(c.Result.SkillGap.LearningRecommendations)
	committed := c.Commit(ChangeLearning, func(s *Snapshot) {
		if s.SkillGap == nil {
			s.SkillGap = &SkillGapView{}
		}
		s.SkillGap.Learning = cards
	})
	if !committed {
		return superseded()
	}
	return Outcome{}, nil
}
