package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/presentation"
	"github.com/spigell/resume-scorecard/internal/upload"
)

func scenarioFile() string {
	return filepath.Join("..", "internal", "result", "testdata", "scenario_a.json")
}

func TestSessionInstant(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(context.Background(), zap.NewNop(), fileAnalyzer{path: scenarioFile()}, presentation.DefaultTiming(), &out, true)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.run(context.Background(), upload.Submission{})
	require.NoError(t, err)
	assert.Equal(t, presentation.PhaseRendering, snap.Phase)
	assert.True(t, snap.Settled())
	assert.Equal(t, 82, snap.Score.Display)
	assert.Contains(t, out.String(), " 82/100")
	assert.Contains(t, out.String(), "Matched Keywords (5)")
	assert.Equal(t, 1, strings.Count(out.String(), "Resume Analysis Results"))

	require.NoError(t, s.next())
	assert.Equal(t, presentation.PhaseIdle, s.presenter.Snapshot().Phase)
}

func TestSessionLive(t *testing.T) {
	var out bytes.Buffer
	timing := presentation.Timing{Duration: 20 * time.Millisecond, Steps: 4, BreakdownDelay: 5 * time.Millisecond}

	s, err := newSession(context.Background(), zap.NewNop(), fileAnalyzer{path: scenarioFile()}, timing, &out, false)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := s.run(ctx, upload.Submission{})
	require.NoError(t, err)
	assert.True(t, snap.Settled())
	assert.Equal(t, 82, snap.Score.Display)
	require.Len(t, snap.Breakdown, 2)
	assert.Contains(t, out.String(), "Resume Analysis Results")
}

func TestSessionFailure(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(context.Background(), zap.NewNop(), fileAnalyzer{path: filepath.Join(t.TempDir(), "missing.json")}, presentation.DefaultTiming(), &out, true)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.run(context.Background(), upload.Submission{})
	require.NoError(t, err)
	assert.Equal(t, presentation.PhaseError, snap.Phase)
	assert.Contains(t, out.String(), "Analysis failed")

	require.NoError(t, s.next())
	assert.Equal(t, presentation.PhaseIdle, s.presenter.Snapshot().Phase)
}

func TestReadInputs(t *testing.T) {
	jd := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(jd, []byte("Go engineer with Kubernetes"), 0o600))

	require.NoError(t, analyzeCmd.Flags().Set("resume", "cv.pdf"))
	require.NoError(t, analyzeCmd.Flags().Set("job-description", "ignored"))
	require.NoError(t, analyzeCmd.Flags().Set("job-description-file", jd))
	t.Cleanup(func() {
		_ = analyzeCmd.Flags().Set("resume", "")
		_ = analyzeCmd.Flags().Set("job-description", "")
		_ = analyzeCmd.Flags().Set("job-description-file", "")
	})

	in, err := readInputs(analyzeCmd)
	require.NoError(t, err)
	assert.Equal(t, inputs{resume: "cv.pdf", jobDescription: "Go engineer with Kubernetes"}, in)
}

func TestCollectSubmissionNonInteractive(t *testing.T) {
	_, err := collectSubmission(upload.DefaultConstraints(), inputs{resume: "cv.docx", jobDescription: "long enough text"}, false)
	assert.ErrorIs(t, err, upload.ErrNotPDF)
}

func TestPromptValidationShowsUserMessage(t *testing.T) {
	c := upload.DefaultConstraints()

	err := userFacing(c.CheckFile)("cv.docx")
	require.Error(t, err)
	assert.Equal(t, "Only PDF files are supported", err.Error())

	err = userFacing(c.CheckJobDescription)("short")
	require.Error(t, err)
	assert.Equal(t, "Please enter a detailed job description (at least 10 characters)", err.Error())

	assert.NoError(t, userFacing(c.CheckJobDescription)("Go engineer with Kubernetes"))
}
