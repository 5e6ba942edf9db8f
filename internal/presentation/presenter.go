package presentation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/analyzer"
	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/result"
	"github.com/spigell/resume-scorecard/internal/scheduler"
	"github.com/spigell/resume-scorecard/internal/upload"
)

// ErrInvalidTransition is returned when an operation is not allowed in the current phase.
var ErrInvalidTransition = errors.New("invalid presenter transition")

// Analyzer produces an analysis result for a submission.
type Analyzer interface {
	Analyze(ctx context.Context, submission upload.Submission) (*result.AnalysisResult, error)
}

// Deps aggregates presenter collaborators. Observer, Logger, Timing and Stages are optional.
type Deps struct {
	Analyzer   Analyzer
	Scheduler  scheduler.Scheduler
	Generation *scheduler.Counter
	Observer   Observer
	Logger     *zap.Logger
	Timing     Timing
	Stages     []Stage
}

// Presenter owns the presentation state of one session and moves it through
// Idle -> Submitting -> Rendering|Error -> Idle.
type Presenter struct {
	analyzer   Analyzer
	sched      scheduler.Scheduler
	generation *scheduler.Counter
	observer   Observer
	logger     *zap.Logger
	timing     Timing
	stages     []Stage
	animator   *ScoreAnimator

	mu        sync.Mutex
	state     Snapshot
	cycleGen  scheduler.Generation
	breakdown scheduler.CancelToken
}

func New(deps Deps) (*Presenter, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if deps.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if deps.Generation == nil {
		return nil, fmt.Errorf("generation counter is required")
	}

	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	stages := deps.Stages
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	timing := deps.Timing.withDefaults()

	return &Presenter{
		analyzer:   deps.Analyzer,
		sched:      deps.Scheduler,
		generation: deps.Generation,
		observer:   observer,
		logger:     logger.WithFields(deps.Logger),
		timing:     timing,
		stages:     stages,
		animator:   NewScoreAnimator(deps.Scheduler, deps.Generation, timing),
		state:      Snapshot{Phase: PhaseIdle},
	}, nil
}

// Submit analyzes submission and renders the result. It is only allowed from Idle. Analysis
// failures move the presenter to Error and are reported through the snapshot, not the returned
// error.
func (p *Presenter) Submit(ctx context.Context, submission upload.Submission) error {
	id := uuid.NewString()

	p.mu.Lock()
	if p.state.Phase != PhaseIdle {
		phase := p.state.Phase
		p.mu.Unlock()
		return fmt.Errorf("submit while %s: %w", phase, ErrInvalidTransition)
	}
	p.state = Snapshot{Phase: PhaseSubmitting, SubmissionID: id}
	p.notify(ChangePhase)
	p.mu.Unlock()

	log := p.logger.With(zap.String(logger.FieldSubmission, id))
	log.Info("analyzing resume",
		zap.String("file", submission.FileName),
		zap.Int("size", len(submission.Data)),
	)

	res, err := p.analyzer.Analyze(analyzer.WithRequestID(ctx, id), submission)
	if err == nil && res == nil {
		err = errors.New(defaultFailureMessage)
	}
	if err != nil {
		p.fail(log, id, err)
		return nil
	}

	p.mu.Lock()
	if p.state.Phase != PhaseSubmitting || p.state.SubmissionID != id {
		p.mu.Unlock()
		return nil
	}
	gen := p.generation.Advance()
	p.cycleGen = gen
	p.state.Phase = PhaseRendering
	p.notify(ChangePhase)
	p.mu.Unlock()

	log.Info("rendering analysis result",
		zap.Float64("overall_score", res.OverallScore),
		zap.Bool("skill_gap", res.HasSkillGap()),
	)

	cycle := &Cycle{Result: res, Generation: gen, presenter: p}
	if err := runStages(log, p.stages, cycle); err != nil {
		p.mu.Lock()
		current := p.generation.IsCurrent(gen) && p.state.Phase == PhaseRendering
		if current {
			p.stopLocked()
			p.state = Snapshot{Phase: PhaseSubmitting, SubmissionID: id}
		}
		p.mu.Unlock()
		if current {
			p.fail(log, id, fmt.Errorf("rendering result: %w", err))
		}
		return nil
	}

	p.commit(gen, ChangeRendered, func(s *Snapshot) { s.Rendered = true })
	return nil
}

func (p *Presenter) fail(log *zap.Logger, id string, err error) {
	failure := classify(err)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Phase != PhaseSubmitting || p.state.SubmissionID != id {
		return
	}

	p.state.Phase = PhaseError
	p.state.Failure = &failure
	p.notify(ChangeFailure)

	log.Error("analysis failed",
		zap.String(logger.FieldPhase, p.state.Phase.String()),
		zap.String("kind", string(failure.Kind)),
		zap.Int("status_code", failure.StatusCode),
		zap.Error(err),
	)
}

// Reset discards the rendered result and returns to Idle. Pending animation frames and the
// breakdown batch never apply afterwards. Reset in Idle is a no-op.
func (p *Presenter) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state.Phase {
	case PhaseIdle:
		return nil
	case PhaseRendering:
	default:
		return fmt.Errorf("reset while %s: %w", p.state.Phase, ErrInvalidTransition)
	}

	p.stopLocked()
	p.state = Snapshot{Phase: PhaseIdle}
	p.notify(ChangeReset)
	p.logger.Debug("presentation reset", zap.String(logger.FieldPhase, p.state.Phase.String()))
	return nil
}

// Acknowledge dismisses a failure and returns to Idle.
func (p *Presenter) Acknowledge() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Phase != PhaseError {
		return fmt.Errorf("acknowledge while %s: %w", p.state.Phase, ErrInvalidTransition)
	}

	p.state = Snapshot{Phase: PhaseIdle}
	p.notify(ChangePhase)
	return nil
}

func (p *Presenter) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Stages lists the render stages in execution order.
func (p *Presenter) Stages() []string {
	return Describe(p.stages)
}

// stopLocked invalidates the current cycle. p.mu must be held.
func (p *Presenter) stopLocked() {
	p.generation.Advance()
	p.animator.Cancel()
	p.breakdown.Cancel()
	p.breakdown = scheduler.CancelToken{}
	p.cycleGen = 0
}

func (p *Presenter) holdBreakdown(gen scheduler.Generation, token scheduler.CancelToken) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cycleGen != gen {
		token.Cancel()
		return
	}
	p.breakdown = token
}

// commit applies mutate when gen is still the rendering cycle. Observers are notified before the
// lock is released so no one sees a half-applied update.
func (p *Presenter) commit(gen scheduler.Generation, change Change, mutate func(*Snapshot)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Phase != PhaseRendering || p.cycleGen != gen || !p.generation.IsCurrent(gen) {
		return false
	}

	mutate(&p.state)
	p.notify(change)
	return true
}

func (p *Presenter) notify(change Change) {
	p.observer.Observe(change, p.state.clone())
}
