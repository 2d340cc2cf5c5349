package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the review state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Reviewed reports whether s is a terminal review decision.
func (s SubmissionStatus) Reviewed() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

// Submission is a student's uploaded project. (Title, StudentEmail) is the
// lookup key students use, but it is not unique; ID is the storage identity.
type Submission struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	StudentName        string           `json:"studentName"`
	StudentEmail       string           `json:"studentEmail"`
	AssignedAdminEmail string           `json:"assignedAdmin"`
	FileName           string           `json:"fileName"`
	FileURL            string           `json:"fileURL"`
	Status             SubmissionStatus `json:"status"`
	Feedback           string           `json:"feedback"`
	Marks              *int             `json:"marks"`
	Progress           int              `json:"progress"`
	Version            int              `json:"version"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// WithProgress fills the derived progress field.
func (s *Submission) WithProgress() *Submission {
	s.Progress = ProgressPercent(s.Marks)
	return s
}

// ProgressPercent maps marks to the progress bar percentage shown to students.
func ProgressPercent(marks *int) int {
	if marks == nil {
		return 20
	}
	switch m := *marks; {
	case m >= 90:
		return 100
	case m >= 75:
		return 80
	case m >= 60:
		return 60
	case m >= 40:
		return 40
	default:
		return 20
	}
}

// GradeRequest is the payload an admin sends to review a submission.
// Marks are stored verbatim; only the UI constrains them to 0-100.
type GradeRequest struct {
	Title        string           `json:"title" binding:"required"`
	StudentEmail string           `json:"studentEmail" binding:"required,email"`
	Status       SubmissionStatus `json:"status" binding:"required,oneof=approved rejected"`
	Marks        *int             `json:"marks"`
	Feedback     string           `json:"feedback"`
	Version      int              `json:"version" binding:"omitempty,min=1"`
}
