package presentation

import "github.com/spigell/resume-scorecard/internal/result"

// Phase is the presenter state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseRendering
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRendering:
		return "rendering"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ShowsUpload reports whether the upload form is visible. After a failure the form is shown again
// together with the error.
func (p Phase) ShowsUpload() bool {
	return p == PhaseIdle || p == PhaseError
}

// Change names the part of the snapshot that was just updated.
type Change string

const (
	ChangePhase     Change = "phase"
	ChangeScore     Change = "score"
	ChangeBreakdown Change = "breakdown"
	ChangeTips      Change = "tips"
	ChangeSections  Change = "sections"
	ChangeKeywords  Change = "keywords"
	ChangeSkillGap  Change = "skill_gap"
	ChangeLearning  Change = "learning"
	ChangeRendered  Change = "rendered"
	ChangeFailure   Change = "failure"
	ChangeReset     Change = "reset"
)

// Snapshot is a copy of the aggregate presentation state. Nil pointers mean the sub-state has not
// been rendered.
type Snapshot struct {
	Phase        Phase
	SubmissionID string
	// Rendered is set once every stage of the cycle has committed its immediate state.
	Rendered bool

	Score     *ScoreFrame
	Animating bool

	Breakdown        []Bar
	BreakdownPending bool

	Tips     []string
	Sections result.Sections
	Keywords *KeywordSet
	SkillGap *SkillGapView

	Failure *Failure
}

// Settled reports whether nothing is left to render for the current cycle. A rendering cycle is
// settled only after all stages ran and their deferred work applied.
func (s Snapshot) Settled() bool {
	switch s.Phase {
	case PhaseSubmitting:
		return false
	case PhaseRendering:
		return s.Rendered && !s.Animating && !s.BreakdownPending
	default:
		return !s.Animating && !s.BreakdownPending
	}
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Score != nil {
		score := *s.Score
		out.Score = &score
	}
	out.Breakdown = append([]Bar(nil), s.Breakdown...)
	out.Tips = cloneStrings(s.Tips)
	out.Sections = append(result.Sections(nil), s.Sections...)
	if s.Keywords != nil {
		keywords := *s.Keywords
		out.Keywords = &keywords
	}
	out.SkillGap = s.SkillGap.clone()
	if s.Failure != nil {
		failure := *s.Failure
		out.Failure = &failure
	}
	return out
}

// Observer receives every state change. It is called with the presenter lock held and must not
// call back into the presenter.
type Observer interface {
	Observe(change Change, snapshot Snapshot)
}

type ObserverFunc func(change Change, snapshot Snapshot)

func (f ObserverFunc) Observe(change Change, snapshot Snapshot) {
	f(change, snapshot)
}

type nopObserver struct{}

func (nopObserver) Observe(Change, Snapshot) {}
