package service

import (
	"context"
	"strings"

	"github.com/stemsi/portfolio-backend/internal/model"
)

// StudentRecordService manages standalone student profile records.
// The submission workflow never consults it.
type StudentRecordService struct {
	records StudentRecordStore
}

// NewStudentRecordService creates a new StudentRecordService.
func NewStudentRecordService(records StudentRecordStore) *StudentRecordService {
	return &StudentRecordService{records: records}
}

// Create inserts a record. fullName, email and projectTitle are required;
// status defaults to pending.
func (s *StudentRecordService) Create(ctx context.Context, req model.CreateStudentRecordRequest) (*model.StudentRecord, error) {
	record := &model.StudentRecord{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		ProjectTitle: strings.TrimSpace(req.ProjectTitle),
		Status:       strings.TrimSpace(req.Status),
	}

	var missing []string
	if record.FullName == "" {
		missing = append(missing, "fullName")
	}
	if record.Email == "" {
		missing = append(missing, "email")
	}
	if record.ProjectTitle == "" {
		missing = append(missing, "projectTitle")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	if record.Status == "" {
		record.Status = model.StudentRecordStatusPending
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every record, newest first.
func (s *StudentRecordService) List(ctx context.Context) ([]model.StudentRecord, error) {
	records, err := s.records.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.StudentRecord{}
	}
	return records, nil
}
