// Package upload checks a resume file and job description locally before they are sent for
// analysis.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultMaxSize is the largest resume accepted by default.
	DefaultMaxSize int64 = 10 << 20
	// MinJobDescriptionLength is the minimum trimmed length of a job description in characters.
	MinJobDescriptionLength = 10

	pdfExtension = ".pdf"
)

var (
	ErrNoFile = &ConstraintError{
		reason:  "no resume file selected",
		message: "Please select a resume file",
	}
	ErrNotPDF = &ConstraintError{
		reason:  "resume is not a pdf file",
		message: "Only PDF files are supported",
	}
	ErrTooLarge = &ConstraintError{
		reason:  "resume exceeds size limit",
		message: "File size must be less than 10MB",
	}
	ErrShortJobDescription = &ConstraintError{
		reason:  "job description too short",
		message: "Please enter a detailed job description (at least 10 characters)",
	}
)

// ConstraintError is a failed local check. Error returns the log form; UserMessage returns the
// text shown next to the input.
type ConstraintError struct {
	reason  string
	message string
}

func (e *ConstraintError) Error() string { return e.reason }

func (e *ConstraintError) UserMessage() string { return e.message }

// UserMessage returns the user-facing text for err, falling back to err.Error() for failures
// that are not constraint violations.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.UserMessage()
	}
	return err.Error()
}

// Submission is one resume and job description ready to be analyzed.
type Submission struct {
	FileName       string
	Data           []byte
	JobDescription string
}

// Constraints are the local checks applied before submitting.
type Constraints struct {
	MaxSize int64
}

func DefaultConstraints() Constraints {
	return Constraints{MaxSize: DefaultMaxSize}
}

// CheckFile validates the resume path without reading it.
func (c Constraints) CheckFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(path), pdfExtension) {
		return ErrNotPDF
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading resume %q: %w", path, err)
	}
	if info.IsDir() {
		return ErrNoFile
	}
	if info.Size() > c.maxSize() {
		return ErrTooLarge
	}
	return nil
}

// CheckJobDescription validates the trimmed job description length.
func (c Constraints) CheckJobDescription(jd string) error {
	if len([]rune(strings.TrimSpace(jd))) < MinJobDescriptionLength {
		return ErrShortJobDescription
	}
	return nil
}

// Load checks both inputs and reads the resume into a Submission.
func (c Constraints) Load(path, jobDescription string) (Submission, error) {
	if err := c.CheckFile(path); err != nil {
		return Submission{}, err
	}
	if err := c.CheckJobDescription(jobDescription); err != nil {
		return Submission{}, err
	}

	path = strings.TrimSpace(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Submission{}, fmt.Errorf("reading resume %q: %w", path, err)
	}
	if int64(len(data)) > c.maxSize() {
		return Submission{}, ErrTooLarge
	}

	return Submission{
		FileName:       filepath.Base(path),
		Data:           data,
		JobDescription: strings.TrimSpace(jobDescription),
	}, nil
}

func (c Constraints) maxSize() int64 {
	if c.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return c.MaxSize
}
