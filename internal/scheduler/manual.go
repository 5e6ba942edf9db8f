package scheduler

import (
	"sync"
	"time"
)

// Manual is a virtual-clock scheduler. Nothing runs until Advance or RunAll is called.
type Manual struct {
	generation *Counter

	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualStep
}

type manualStep struct {
	due       time.Duration
	seq       uint64
	gen       Generation
	step      func()
	cancelled bool
}

func NewManual(generation *Counter) *Manual {
	return &Manual{generation: generation}
}

func (m *Manual) ScheduleStep(gen Generation, delay time.Duration, step func()) CancelToken {
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	s := &manualStep{due: m.now + delay, seq: m.seq, gen: gen, step: step}
	m.pending = append(m.pending, s)

	return CancelToken{cancel: func() {
		m.mu.Lock()
		s.cancelled = true
		m.mu.Unlock()
	}}
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of steps that would still run: not yet run, not cancelled and
// scheduled under the current generation.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.pending {
		if !s.cancelled && m.generation.IsCurrent(s.gen) {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every step that becomes due, including steps
// scheduled by the steps themselves.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		s, ok := m.next(target, true)
		if !ok {
			break
		}
		m.run(s)
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
}

// RunAll runs steps until none are left. Sequences scheduled here must be finite.
func (m *Manual) RunAll() {
	for {
		s, ok := m.next(0, false)
		if !ok {
			return
		}
		m.run(s)
	}
}

func (m *Manual) next(limit time.Duration, bounded bool) (*manualStep, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, s := range m.pending {
		if bounded && s.due > limit {
			continue
		}
		if idx == -1 || s.due < m.pending[idx].due || (s.due == m.pending[idx].due && s.seq < m.pending[idx].seq) {
			idx = i
		}
	}
	if idx == -1 {
		return nil, false
	}

	s := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	if s.due > m.now {
		m.now = s.due
	}
	return s, true
}

func (m *Manual) run(s *manualStep) {
	m.mu.Lock()
	cancelled := s.cancelled
	m.mu.Unlock()

	if cancelled || !m.generation.IsCurrent(s.gen) {
		return
	}
	s.step()
}
