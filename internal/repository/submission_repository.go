package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/portfolio-backend/internal/model"
)

const submissionColumns = `id, title, description, student_name, student_email, assigned_admin_email,
	file_name, file_url, status, feedback, marks, version, created_at, updated_at`

// SubmissionRepository handles project submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.StudentName, &s.StudentEmail, &s.AssignedAdminEmail,
		&s.FileName, &s.FileURL, &s.Status, &s.Feedback, &s.Marks, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new submission. The caller assigns the ID.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, title, description, student_name, student_email, assigned_admin_email,
		                          file_name, file_url, status, feedback, marks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING version, created_at, updated_at`,
		s.ID, s.Title, s.Description, s.StudentName, s.StudentEmail, s.AssignedAdminEmail,
		s.FileName, s.FileURL, s.Status, s.Feedback, s.Marks,
	).Scan(&s.Version, &s.CreatedAt, &s.UpdatedAt)
}

// ListByStudent returns every submission made by studentEmail, oldest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentEmail string) ([]model.Submission, error) {
	return r.list(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE student_email = $1 ORDER BY created_at, id`,
		studentEmail)
}

// ListByAdmin returns every submission assigned to adminEmail, oldest first.
func (r *SubmissionRepository) ListByAdmin(ctx context.Context, adminEmail string) ([]model.Submission, error) {
	return r.list(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE assigned_admin_email = $1 ORDER BY created_at, id`,
		adminEmail)
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// FindByKey resolves the natural key (title, studentEmail). When several
// submissions share the key, the oldest one wins.
func (r *SubmissionRepository) FindByKey(ctx context.Context, title, studentEmail string) (*model.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE title = $1 AND student_email = $2
		 ORDER BY created_at, id LIMIT 1`,
		title, studentEmail,
	))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// UpdateReview stores an admin decision. expectedVersion 0 writes unconditionally.
func (r *SubmissionRepository) UpdateReview(ctx context.Context, id uuid.UUID, expectedVersion int,
	status model.SubmissionStatus, marks *int, feedback string) (*model.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx,
		`UPDATE submissions
		 SET status = $3, marks = $4, feedback = $5, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND ($2::int = 0 OR version = $2::int)
		 RETURNING `+submissionColumns,
		id, expectedVersion, status, marks, feedback,
	))
	if err != nil {
		return nil, r.versioned(ctx, id, expectedVersion, err)
	}
	return s, nil
}

// UpdateFile replaces the stored file of a submission. expectedVersion 0 writes unconditionally.
func (r *SubmissionRepository) UpdateFile(ctx context.Context, id uuid.UUID, expectedVersion int,
	fileName, fileURL string) (*model.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx,
		`UPDATE submissions
		 SET file_name = $3, file_url = $4, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND ($2::int = 0 OR version = $2::int)
		 RETURNING `+submissionColumns,
		id, expectedVersion, fileName, fileURL,
	))
	if err != nil {
		return nil, r.versioned(ctx, id, expectedVersion, err)
	}
	return s, nil
}

// Delete removes a submission by ID.
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// versioned maps a missing row after a conditional update. Without an expected
// version the row must have been deleted; with one, the row is looked up again
// to tell a deletion from a stale version.
func (r *SubmissionRepository) versioned(ctx context.Context, id uuid.UUID, expectedVersion int, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if expectedVersion == 0 {
		return ErrNotFound
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}
