package presentation

import (
	"sync"
	"time"

	"github.com/spigell/resume-scorecard/internal/scheduler"
)

const (
	defaultDuration       = 2 * time.Second
	defaultSteps          = 60
	defaultBreakdownDelay = 300 * time.Millisecond
)

// Timing controls how long the score animation runs and when the breakdown bars appear.
type Timing struct {
	Duration       time.Duration
	Steps          int
	BreakdownDelay time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Duration:       defaultDuration,
		Steps:          defaultSteps,
		BreakdownDelay: defaultBreakdownDelay,
	}
}

// withDefaults fills zero or negative values from DefaultTiming.
func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.Duration <= 0 {
		t.Duration = def.Duration
	}
	if t.Steps <= 0 {
		t.Steps = def.Steps
	}
	if t.BreakdownDelay <= 0 {
		t.BreakdownDelay = def.BreakdownDelay
	}
	return t
}

// StepInterval is the delay between two consecutive score frames.
func (t Timing) StepInterval() time.Duration {
	t = t.withDefaults()
	return t.Duration / time.Duration(t.Steps)
}

// ScoreFrame is one rendered state of the animated overall score.
type ScoreFrame struct {
	Step    int
	Value   float64
	Display int
	Fill    float64
	Tier    Tier
	Final   bool
}

func newFrame(step int, value float64, final bool) ScoreFrame {
	return ScoreFrame{
		Step:    step,
		Value:   value,
		Display: roundScore(value),
		Fill:    value / 100,
		Tier:    TierFor(value),
		Final:   final,
	}
}

// Frames returns every frame of an animation toward target. Frame 0 has value 0, frame k has value
// target*k/steps and the last frame is exactly target. A zero target produces frame 0 only.
func Frames(target float64, steps int) []ScoreFrame {
	if steps <= 0 {
		steps = defaultSteps
	}
	if target == 0 {
		return []ScoreFrame{newFrame(0, 0, true)}
	}

	frames := make([]ScoreFrame, 0, steps+1)
	frames = append(frames, newFrame(0, 0, false))
	for k := 1; k <= steps; k++ {
		value := target * float64(k) / float64(steps)
		if k == steps {
			value = target
		}
		frames = append(frames, newFrame(k, value, k == steps))
	}
	return frames
}

// ScoreAnimator plays frame sequences through a scheduler. Starting a new sequence cancels the
// one in flight.
type ScoreAnimator struct {
	sched      scheduler.Scheduler
	generation *scheduler.Counter
	timing     Timing

	mu      sync.Mutex
	current scheduler.Generation
	pending scheduler.CancelToken
}

func NewScoreAnimator(sched scheduler.Scheduler, generation *scheduler.Counter, timing Timing) *ScoreAnimator {
	return &ScoreAnimator{
		sched:      sched,
		generation: generation,
		timing:     timing.withDefaults(),
	}
}

// Animate starts a new generation and plays target under it.
func (a *ScoreAnimator) Animate(target float64, apply func(scheduler.Generation, ScoreFrame)) scheduler.Generation {
	gen := a.generation.Advance()
	a.Play(gen, target, apply)
	return gen
}

// Play emits frame 0 synchronously and schedules the rest one step interval apart under gen.
func (a *ScoreAnimator) Play(gen scheduler.Generation, target float64, apply func(scheduler.Generation, ScoreFrame)) {
	frames := Frames(target, a.timing.Steps)
	interval := a.timing.StepInterval()

	a.mu.Lock()
	a.pending.Cancel()
	a.pending = scheduler.CancelToken{}
	a.current = gen
	a.mu.Unlock()

	var emit func(i int)
	emit = func(i int) {
		if !a.isCurrent(gen) {
			return
		}

		apply(gen, frames[i])
		if i+1 >= len(frames) {
			return
		}

		token := a.sched.ScheduleStep(gen, interval, func() { emit(i + 1) })

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.current != gen {
			token.Cancel()
			return
		}
		a.pending = token
	}
	emit(0)
}

// Cancel stops the sequence in flight. Frames already applied stay applied.
func (a *ScoreAnimator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending.Cancel()
	a.pending = scheduler.CancelToken{}
	a.current = 0
}

func (a *ScoreAnimator) isCurrent(gen scheduler.Generation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current == gen
}
