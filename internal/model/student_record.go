package model

import "time"

// StudentRecord is a standalone student profile entry. It is not linked to
// accounts or submissions.
type StudentRecord struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	ProjectTitle string    `json:"projectTitle"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StudentRecordStatusPending is assigned when no status is supplied.
const StudentRecordStatusPending = "pending"

// CreateStudentRecordRequest is the payload for POST /api/students.
// Required fields are checked by the service so the legacy {error} shape is kept.
type CreateStudentRecordRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	ProjectTitle string `json:"projectTitle"`
	Status       string `json:"status"`
}
