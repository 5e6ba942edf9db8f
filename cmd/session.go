package cmd

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/presentation"
	"github.com/spigell/resume-scorecard/internal/scheduler"
	"github.com/spigell/resume-scorecard/internal/upload"
	"github.com/spigell/resume-scorecard/internal/view"
)

// session drives one presenter either on wall-clock timers or, in instant mode, on a virtual
// clock that is drained right after each submission.
type session struct {
	presenter *presentation.Presenter
	manual    *scheduler.Manual
	loop      *scheduler.Loop
	settled   chan struct{}
	cancel    context.CancelFunc
}

func newSession(ctx context.Context, logger *zap.Logger, an presentation.Analyzer, timing presentation.Timing, out io.Writer, instant bool) (*session, error) {
	var counter scheduler.Counter
	s := &session{settled: make(chan struct{}, 1)}

	var sched scheduler.Scheduler
	if instant {
		s.manual = scheduler.NewManual(&counter)
		sched = s.manual
	} else {
		loopCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.loop = scheduler.NewLoop(0)
		go func() {
			if err := s.loop.Run(loopCtx); err != nil {
				logger.Debug("event loop stopped", zap.Error(err))
			}
		}()
		sched = scheduler.NewTimer(s.loop, &counter)
	}

	terminal := view.NewTerminal(out, !instant)
	observer := presentation.ObserverFunc(func(change presentation.Change, snap presentation.Snapshot) {
		terminal.Observe(change, snap)
		if snap.Phase == presentation.PhaseError || (snap.Phase == presentation.PhaseRendering && snap.Settled()) {
			select {
			case s.settled <- struct{}{}:
			default:
			}
		}
	})

	presenter, err := presentation.New(presentation.Deps{
		Analyzer:   an,
		Scheduler:  sched,
		Generation: &counter,
		Observer:   observer,
		Logger:     logger,
		Timing:     timing,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.presenter = presenter

	logger.Debug("render stages", zap.Strings("stages", presenter.Stages()), zap.Bool("instant", instant))
	return s, nil
}

// run submits sub and blocks until the result is fully rendered or the submission failed.
func (s *session) run(ctx context.Context, sub upload.Submission) (presentation.Snapshot, error) {
	if err := s.presenter.Submit(ctx, sub); err != nil {
		return s.presenter.Snapshot(), err
	}

	if s.manual != nil {
		s.manual.RunAll()
		return s.presenter.Snapshot(), nil
	}

	for {
		snap := s.presenter.Snapshot()
		if snap.Phase != presentation.PhaseRendering || snap.Settled() {
			return snap, nil
		}

		select {
		case <-s.settled:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// next returns the presenter to Idle so another submission can start.
func (s *session) next() error {
	if s.presenter.Snapshot().Phase == presentation.PhaseError {
		return s.presenter.Acknowledge()
	}
	return s.presenter.Reset()
}

func (s *session) Close() {
	if s.loop != nil {
		s.loop.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
}
