package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/portfolio-backend/internal/model"
)

// StudentRecordRepository handles student profile records.
type StudentRecordRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRecordRepository creates a new StudentRecordRepository.
func NewStudentRecordRepository(pool *pgxpool.Pool) *StudentRecordRepository {
	return &StudentRecordRepository{pool: pool}
}

// Create inserts a new student record.
func (r *StudentRecordRepository) Create(ctx context.Context, s *model.StudentRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO student_records (full_name, email, project_title, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.FullName, s.Email, s.ProjectTitle, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListNewestFirst returns every record ordered by descending creation time.
func (r *StudentRecordRepository) ListNewestFirst(ctx context.Context) ([]model.StudentRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name, email, project_title, status, created_at, updated_at
		 FROM student_records ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.StudentRecord
	for rows.Next() {
		var s model.StudentRecord
		if err := rows.Scan(&s.ID, &s.FullName, &s.Email, &s.ProjectTitle, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, s)
	}
	return records, rows.Err()
}
