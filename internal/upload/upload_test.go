package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobDescription = "Senior Go engineer with Kubernetes experience"

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "Resume.PDF", 128)

	sub, err := DefaultConstraints().Load(path, "  "+jobDescription+"\n")
	require.NoError(t, err)
	assert.Equal(t, "Resume.PDF", sub.FileName)
	assert.Len(t, sub.Data, 128)
	assert.Equal(t, jobDescription, sub.JobDescription)
}

func TestLoadRejects(t *testing.T) {
	small := Constraints{MaxSize: 16}

	tests := []struct {
		name string
		path func(t *testing.T) string
		jd   string
		c    Constraints
		want error
	}{
		{
			name: "no file",
			path: func(*testing.T) string { return "  " },
			jd:   jobDescription,
			want: ErrNoFile,
		},
		{
			name: "not a pdf",
			path: func(t *testing.T) string { return writeFile(t, "resume.docx", 10) },
			jd:   jobDescription,
			want: ErrNotPDF,
		},
		{
			name: "too large",
			path: func(t *testing.T) string { return writeFile(t, "resume.pdf", 17) },
			jd:   jobDescription,
			c:    small,
			want: ErrTooLarge,
		},
		{
			name: "short job description",
			path: func(t *testing.T) string { return writeFile(t, "resume.pdf", 10) },
			jd:   "  too short ",
			want: ErrShortJobDescription,
		},
		{
			name: "directory",
			path: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "dir.pdf")
				require.NoError(t, os.Mkdir(dir, 0o700))
				return dir
			},
			jd:   jobDescription,
			want: ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Load(tt.path(t), tt.jd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLimitBoundary(t *testing.T) {
	c := Constraints{MaxSize: 32}
	_, err := c.Load(writeFile(t, "exact.pdf", 32), jobDescription)
	assert.NoError(t, err)
}

func TestMissingFile(t *testing.T) {
	err := DefaultConstraints().CheckFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestJobDescriptionCountsCharacters(t *testing.T) {
	c := DefaultConstraints()
	assert.NoError(t, c.CheckJobDescription("Разработчик"))
	assert.ErrorIs(t, c.CheckJobDescription("123456789"), ErrShortJobDescription)
	assert.NoError(t, c.CheckJobDescription("1234567890"))
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err     error
		reason  string
		message string
	}{
		{ErrNoFile, "no resume file selected", "Please select a resume file"},
		{ErrNotPDF, "resume is not a pdf file", "Only PDF files are supported"},
		{ErrTooLarge, "resume exceeds size limit", "File size must be less than 10MB"},
		{ErrShortJobDescription, "job description too short", "Please enter a detailed job description (at least 10 characters)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.reason, tt.err.Error())
		assert.Equal(t, tt.message, UserMessage(tt.err))
		assert.Equal(t, tt.message, UserMessage(fmt.Errorf("checking input: %w", tt.err)))
	}

	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "disk on fire", UserMessage(errors.New("disk on fire")))
}
