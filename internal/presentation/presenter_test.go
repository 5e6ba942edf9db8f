package presentation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-scorecard/internal/analyzer"
	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/result"
	"github.com/spigell/resume-scorecard/internal/scheduler"
	"github.com/spigell/resume-scorecard/internal/upload"
)

type fakeAnalyzer struct {
	res       *result.AnalysisResult
	err       error
	calls     int
	requestID string
	during    func()
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, _ upload.Submission) (*result.AnalysisResult, error) {
	f.calls++
	f.requestID = analyzer.RequestID(ctx)
	if f.during != nil {
		f.during()
	}
	return f.res, f.err
}

type recorder struct {
	changes []Change
	scores  []ScoreFrame
	settled []bool
	last    Snapshot
}

func (r *recorder) Observe(change Change, snapshot Snapshot) {
	r.changes = append(r.changes, change)
	r.settled = append(r.settled, snapshot.Settled())
	if change == ChangeScore && snapshot.Score != nil {
		r.scores = append(r.scores, *snapshot.Score)
	}
	r.last = snapshot
}

type harness struct {
	presenter *Presenter
	manual    *scheduler.Manual
	analyzer  *fakeAnalyzer
	recorder  *recorder
	logs      *observer.ObservedLogs
}

func newHarness(t *testing.T, an *fakeAnalyzer, stages ...Stage) *harness {
	t.Helper()

	var counter scheduler.Counter
	manual := scheduler.NewManual(&counter)
	rec := &recorder{}
	core, logs := observer.New(zapcore.DebugLevel)

	p, err := New(Deps{
		Analyzer:   an,
		Scheduler:  manual,
		Generation: &counter,
		Observer:   rec,
		Logger:     zap.New(core),
		Stages:     stages,
	})
	require.NoError(t, err)

	return &harness{presenter: p, manual: manual, analyzer: an, recorder: rec, logs: logs}
}

func load(t *testing.T, name string) *result.AnalysisResult {
	t.Helper()
	res, err := result.ReadFile(filepath.Join("..", "result", "testdata", name))
	require.NoError(t, err)
	return res
}

func TestScenarioA(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "scenario_a.json")})
	p := h.presenter

	require.NoError(t, p.Submit(context.Background(), upload.Submission{FileName: "resume.pdf"}))

	snap := p.Snapshot()
	assert.Equal(t, PhaseRendering, snap.Phase)
	require.NotNil(t, snap.Score)
	assert.Equal(t, 0, snap.Score.Display, "frame 0 is applied immediately")
	assert.True(t, snap.Animating)
	assert.True(t, snap.BreakdownPending)
	assert.Empty(t, snap.Breakdown)
	assert.False(t, snap.Settled())
	assert.Equal(t, []string{"Add metrics"}, snap.Tips)
	assert.Nil(t, snap.SkillGap)

	require.NotNil(t, snap.Keywords)
	assert.Equal(t, TagGroup{Tags: []string{"Python"}, Count: 5}, snap.Keywords.Matched)
	assert.Equal(t, TagGroup{Tags: []string{"Kubernetes"}, Count: 2}, snap.Keywords.Missing)

	h.manual.Advance(299 * time.Millisecond)
	assert.Empty(t, p.Snapshot().Breakdown)

	h.manual.Advance(time.Millisecond)
	snap = p.Snapshot()
	assert.False(t, snap.BreakdownPending)
	assert.Equal(t, []Bar{
		{Label: "Keyword Match", Score: 75, Fill: 0.75, Text: "75%", Tier: TierHigh},
		{Label: "Structure", Score: 90, Fill: 0.9, Text: "90%", Tier: TierHigh},
	}, snap.Breakdown)
	assert.True(t, snap.Animating)

	h.manual.RunAll()
	snap = p.Snapshot()
	require.NotNil(t, snap.Score)
	assert.Equal(t, 82, snap.Score.Display)
	assert.Equal(t, TierHigh, snap.Score.Tier)
	assert.False(t, snap.Animating)
	assert.True(t, snap.Settled())
	assert.InDelta(t, float64(2*time.Second), float64(h.manual.Now()), float64(time.Millisecond))

	scores := h.recorder.scores
	require.Len(t, scores, 61)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i].Value, scores[i-1].Value)
	}
	assert.Equal(t, 82.0, scores[len(scores)-1].Value)

	assert.Equal(t, snap.SubmissionID, h.analyzer.requestID)
	assert.NotEmpty(t, snap.SubmissionID)
}

func TestScenarioB(t *testing.T) {
	res, err := result.Validate([]byte(`{
		"overall_score": 64, "keyword_match_score": 60, "structure_score": 70,
		"skill_gap_analysis": {
			"skill_match_percentage": 100, "skills_matched": 1, "skills_missing": 0,
			"skills_by_category": {"cloud_infra": {"matched": ["AWS"], "missing": [], "type": "technical"}},
			"learning_recommendations": []
		}
	}`))
	require.NoError(t, err)

	h := newHarness(t, &fakeAnalyzer{res: res})
	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))
	h.manual.RunAll()

	gap := h.presenter.Snapshot().SkillGap
	require.NotNil(t, gap)
	require.Len(t, gap.Categories, 1)

	card := gap.Categories[0]
	assert.Equal(t, "Cloud Infra", card.DisplayName)
	assert.Equal(t, "1/1", card.Badge)
	assert.Equal(t, []string{"AWS"}, card.Matched)
	assert.Empty(t, card.Missing)
	assert.Equal(t, "💻", card.Icon)

	assert.Equal(t, "100%", gap.Summary.MatchPercentage)
	require.Len(t, gap.Learning, 1)
	assert.Equal(t, NoLearningNeeded, gap.Learning[0].Message)
}

func TestSettledOnlyAfterAllStagesCommit(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "scenario_a.json")}, tipsStage{}, keywordsStage{})

	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))

	assert.Equal(t, []Change{ChangePhase, ChangePhase, ChangeTips, ChangeKeywords, ChangeRendered}, h.recorder.changes)
	assert.Equal(t, []bool{false, false, false, false, true}, h.recorder.settled)
	assert.Zero(t, h.manual.Pending())

	snap := h.presenter.Snapshot()
	assert.True(t, snap.Rendered)
	assert.Equal(t, []string{"Add metrics"}, snap.Tips)
	require.NotNil(t, snap.Keywords)

	require.NoError(t, h.presenter.Reset())
	assert.False(t, h.presenter.Snapshot().Rendered)
}

func TestScenarioC(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{err: &analyzer.ServiceError{StatusCode: 404, Detail: "Unsupported file"}})
	p := h.presenter

	require.NoError(t, p.Submit(context.Background(), upload.Submission{}))

	snap := p.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	assert.True(t, snap.Phase.ShowsUpload())
	require.NotNil(t, snap.Failure)
	assert.Equal(t, Failure{Kind: FailureService, Message: "Unsupported file", StatusCode: 404}, *snap.Failure)
	assert.Nil(t, snap.Score)
	assert.Nil(t, snap.Keywords)
	assert.Zero(t, h.manual.Pending(), "no animation steps are scheduled")
	assert.Equal(t, []Change{ChangePhase, ChangeFailure}, h.recorder.changes)

	entries := h.logs.FilterMessage("analysis failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, snap.SubmissionID, entries[0].ContextMap()[logger.FieldSubmission])

	require.NoError(t, p.Acknowledge())
	assert.Equal(t, PhaseIdle, p.Snapshot().Phase)
	assert.Nil(t, p.Snapshot().Failure)
}

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		an   *fakeAnalyzer
		want FailureKind
		msg  string
	}{
		{
			name: "transport",
			an:   &fakeAnalyzer{err: &analyzer.TransportError{URL: "http://localhost:8000", Err: errors.New("connection refused")}},
			want: FailureTransport,
		},
		{
			name: "validation",
			an:   &fakeAnalyzer{err: &result.ValidationError{Errors: []result.FieldError{{Field: "overall_score", Message: "overall_score is required"}}}},
			want: FailureValidation,
			msg:  "invalid analysis result: overall_score: overall_score is required",
		},
		{
			name: "nil result",
			an:   &fakeAnalyzer{},
			want: FailureInternal,
			msg:  "Failed to analyze resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.an)
			require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))

			failure := h.presenter.Snapshot().Failure
			require.NotNil(t, failure)
			assert.Equal(t, tt.want, failure.Kind)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, failure.Message)
			}
		})
	}
}

func TestResetMidAnimation(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "full.json")})
	p := h.presenter

	require.NoError(t, p.Submit(context.Background(), upload.Submission{}))
	h.manual.Advance(100 * time.Millisecond)
	require.True(t, p.Snapshot().Animating)

	require.NoError(t, p.Reset())
	changes := len(h.recorder.changes)

	snap := p.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Score)
	assert.Nil(t, snap.Keywords)
	assert.Nil(t, snap.SkillGap)
	assert.Empty(t, snap.Breakdown)
	assert.Zero(t, h.manual.Pending())

	h.manual.RunAll()
	assert.Len(t, h.recorder.changes, changes, "no stale step applies after reset")
	assert.Equal(t, ChangeReset, h.recorder.changes[changes-1])

	require.NoError(t, p.Reset(), "reset in idle is a no-op")

	h.analyzer.res = load(t, "scenario_a.json")
	require.NoError(t, p.Submit(context.Background(), upload.Submission{}))
	h.manual.RunAll()
	assert.Equal(t, 82, p.Snapshot().Score.Display)
	assert.NotEqual(t, snap.SubmissionID, p.Snapshot().SubmissionID)
}

func TestFullResultRendersEverything(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "full.json")})
	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))
	h.manual.RunAll()

	snap := h.presenter.Snapshot()
	assert.Equal(t, 64, snap.Score.Display)
	assert.Equal(t, TierMid, snap.Score.Tier)
	require.Len(t, snap.Sections, 8)
	assert.Equal(t, "experience", snap.Sections[0].Name)

	require.NotNil(t, snap.SkillGap)
	names := make([]string, 0, len(snap.SkillGap.Categories))
	for _, card := range snap.SkillGap.Categories {
		names = append(names, card.DisplayName)
	}
	assert.Equal(t, []string{"Programming Languages", "Cloud Devops", "Communication", "Databases"}, names)
	assert.Equal(t, "🤝", snap.SkillGap.Categories[2].Icon)

	require.Len(t, snap.SkillGap.Learning, 2)
	assert.Equal(t, PriorityHigh, snap.SkillGap.Learning[0].Tier)
	assert.Equal(t, PriorityMedium, snap.SkillGap.Learning[1].Tier)

	assert.Len(t, h.logs.FilterField(zap.String(logger.FieldStage, "learning")).All(), 1)
}

func TestSkippedStagesAreLogged(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "scenario_a.json")})
	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))

	skipped := h.logs.FilterMessage("render stage skipped").All()
	stages := make([]string, 0, len(skipped))
	for _, entry := range skipped {
		stages = append(stages, entry.ContextMap()[logger.FieldStage].(string))
	}
	assert.Equal(t, []string{"sections", "skill_gap", "learning"}, stages)
}

func TestInvalidTransitions(t *testing.T) {
	an := &fakeAnalyzer{res: load(t, "scenario_a.json")}
	h := newHarness(t, an)
	p := h.presenter

	var nested error
	an.during = func() {
		nested = p.Submit(context.Background(), upload.Submission{})
		assert.ErrorIs(t, p.Reset(), ErrInvalidTransition)
	}

	assert.ErrorIs(t, p.Acknowledge(), ErrInvalidTransition)

	require.NoError(t, p.Submit(context.Background(), upload.Submission{}))
	assert.ErrorIs(t, nested, ErrInvalidTransition)
	assert.Equal(t, 1, an.calls)

	an.during = nil
	assert.ErrorIs(t, p.Submit(context.Background(), upload.Submission{}), ErrInvalidTransition, "rendering must be reset first")
	assert.ErrorIs(t, p.Acknowledge(), ErrInvalidTransition)
}

type failingStage struct{}

func (failingStage) Name() string { return "broken" }

func (failingStage) Apply(*Cycle) (Outcome, error) {
	return Outcome{}, errors.New("boom")
}

func TestStageErrorMovesToError(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "scenario_a.json")}, scoreStage{}, failingStage{})

	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))

	snap := h.presenter.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	require.NotNil(t, snap.Failure)
	assert.Equal(t, FailureInternal, snap.Failure.Kind)
	assert.Equal(t, "rendering result: broken: boom", snap.Failure.Message)
	assert.Nil(t, snap.Score)

	h.manual.RunAll()
	assert.Nil(t, h.presenter.Snapshot().Score, "animation of the failed cycle is cancelled")
	assert.Equal(t, []string{"score", "broken"}, h.presenter.Stages())
}

func TestNewRequiresDeps(t *testing.T) {
	var counter scheduler.Counter
	manual := scheduler.NewManual(&counter)

	_, err := New(Deps{Scheduler: manual, Generation: &counter})
	assert.Error(t, err)
	_, err = New(Deps{Analyzer: &fakeAnalyzer{}, Generation: &counter})
	assert.Error(t, err)
	_, err = New(Deps{Analyzer: &fakeAnalyzer{}, Scheduler: manual})
	assert.Error(t, err)

	p, err := New(Deps{Analyzer: &fakeAnalyzer{}, Scheduler: manual, Generation: &counter})
	require.NoError(t, err)
	assert.Equal(t, Describe(DefaultStages()), p.Stages())
	assert.Equal(t, PhaseIdle, p.Snapshot().Phase)
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t, &fakeAnalyzer{res: load(t, "full.json")})
	require.NoError(t, h.presenter.Submit(context.Background(), upload.Submission{}))
	h.manual.RunAll()

	snap := h.presenter.Snapshot()
	snap.Tips[0] = "changed"
	snap.SkillGap.Categories[0].DisplayName = "changed"
	snap.Score.Display = -1

	again := h.presenter.Snapshot()
	assert.NotEqual(t, "changed", again.Tips[0])
	assert.NotEqual(t, "changed", again.SkillGap.Categories[0].DisplayName)
	assert.Equal(t, 64, again.Score.Display)
}
