package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/portfolio-backend/internal/model"
)

// AccountStore is the persistence contract of AccountService.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.Account, error)
}

// StudentRecordStore is the persistence contract of StudentRecordService.
type StudentRecordStore interface {
	Create(ctx context.Context, s *model.StudentRecord) error
	ListNewestFirst(ctx context.Context) ([]model.StudentRecord, error)
}

// SubmissionStore is the persistence contract of SubmissionService.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
	ListByStudent(ctx context.Context, studentEmail string) ([]model.Submission, error)
	ListByAdmin(ctx context.Context, adminEmail string) ([]model.Submission, error)
	FindByKey(ctx context.Context, title, studentEmail string) (*model.Submission, error)
	UpdateReview(ctx context.Context, id uuid.UUID, expectedVersion int, status model.SubmissionStatus, marks *int, feedback string) (*model.Submission, error)
	UpdateFile(ctx context.Context, id uuid.UUID, expectedVersion int, fileName, fileURL string) (*model.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
