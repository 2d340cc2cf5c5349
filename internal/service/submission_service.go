package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/events"
	"github.com/stemsi/portfolio-backend/internal/model"
)

// SubmitInput carries the fields of a new submission.
type SubmitInput struct {
	Title              string
	Description        string
	AssignedAdminEmail string
	File               *Upload
}

// SubmissionService implements the submit, review, and progress workflow.
//
// Writes without an expected version are last-writer-wins. Supplying the
// version read by the client turns a concurrent overwrite into ErrVersionConflict.
type SubmissionService struct {
	store SubmissionStore
	media *MediaService
	bus   events.Publisher
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(store SubmissionStore, media *MediaService, bus events.Publisher, rdb *redis.Client, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		store: store,
		media: media,
		bus:   bus,
		rdb:   rdb,
		log:   log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit stores the file and creates a pending submission for the student.
func (s *SubmissionService) Submit(ctx context.Context, student model.SessionInfo, in SubmitInput) (*model.Submission, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	adminEmail := normalizeEmail(in.AssignedAdminEmail)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if in.File == nil || in.File.Name == "" {
		missing = append(missing, "file")
	}
	if adminEmail == "" {
		missing = append(missing, "assignedAdmin")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	stored, err := s.media.Save(in.File)
	if err != nil {
		return nil, err
	}

	sub := &model.Submission{
		ID:                 uuid.New(),
		Title:              title,
		Description:        description,
		StudentName:        student.Username,
		StudentEmail:       normalizeEmail(student.Email),
		AssignedAdminEmail: adminEmail,
		FileName:           stored.Name,
		FileURL:            stored.URL,
		Status:             model.SubmissionPending,
		Feedback:           "",
		Marks:              nil,
	}

	if err := s.store.Create(ctx, sub); err != nil {
		s.discard(stored.URL)
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("student", sub.StudentEmail).
		Str("admin", sub.AssignedAdminEmail).
		Msg("Project submitted")

	s.notify(ctx, events.SubmissionCreated, sub.WithProgress())
	return sub, nil
}

// ListMine returns the submissions of studentEmail.
func (s *SubmissionService) ListMine(ctx context.Context, studentEmail string) ([]model.Submission, error) {
	subs, err := s.store.ListByStudent(ctx, normalizeEmail(studentEmail))
	if err != nil {
		return nil, err
	}
	return withProgress(subs), nil
}

// ListAssigned returns the submissions assigned to adminEmail.
func (s *SubmissionService) ListAssigned(ctx context.Context, adminEmail string) ([]model.Submission, error) {
	subs, err := s.store.ListByAdmin(ctx, normalizeEmail(adminEmail))
	if err != nil {
		return nil, err
	}
	return withProgress(subs), nil
}

// Grade records an admin's decision on the submission keyed by (title, studentEmail).
// Submissions assigned to another admin are reported as not found.
func (s *SubmissionService) Grade(ctx context.Context, adminEmail string, req model.GradeRequest) (*model.Submission, error) {
	if !req.Status.Reviewed() {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}

	current, err := s.store.FindByKey(ctx, strings.TrimSpace(req.Title), normalizeEmail(req.StudentEmail))
	if err != nil {
		return nil, translate(err)
	}
	if current.AssignedAdminEmail != normalizeEmail(adminEmail) {
		return nil, ErrNotFound
	}

	updated, err := s.store.UpdateReview(ctx, current.ID, req.Version, req.Status, req.Marks, req.Feedback)
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info().
		Str("submission_id", updated.ID.String()).
		Str("status", string(updated.Status)).
		Int("version", updated.Version).
		Msg("Submission graded")

	s.notify(ctx, events.SubmissionGraded, updated.WithProgress())
	return updated, nil
}

// UpdateFile replaces the file of the student's submission keyed by title.
func (s *SubmissionService) UpdateFile(ctx context.Context, studentEmail, title string, file *Upload, expectedVersion int) (*model.Submission, error) {
	if file == nil || file.Name == "" {
		return nil, missingFields("file")
	}

	current, err := s.store.FindByKey(ctx, strings.TrimSpace(title), normalizeEmail(studentEmail))
	if err != nil {
		return nil, translate(err)
	}

	stored, err := s.media.Save(file)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFile(ctx, current.ID, expectedVersion, stored.Name, stored.URL)
	if err != nil {
		s.discard(stored.URL)
		return nil, translate(err)
	}

	s.discard(current.FileURL)
	s.notify(ctx, events.SubmissionFileReplaced, updated.WithProgress())
	return updated, nil
}

// Delete removes the student's submission keyed by title.
func (s *SubmissionService) Delete(ctx context.Context, studentEmail, title string) error {
	current, err := s.store.FindByKey(ctx, strings.TrimSpace(title), normalizeEmail(studentEmail))
	if err != nil {
		return translate(err)
	}

	if err := s.store.Delete(ctx, current.ID); err != nil {
		return translate(err)
	}

	s.discard(current.FileURL)
	s.notify(ctx, events.SubmissionDeleted, current.WithProgress())
	return nil
}

// discard queues a stored file for removal by the upload janitor.
func (s *SubmissionService) discard(url string) {
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.RPush(ctx, config.CacheKey.OrphanedUploadQueue(), url).Err(); err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("Failed to queue orphaned upload")
	}
}

// notify publishes ev to the student and the assigned admin. Delivery is best effort.
func (s *SubmissionService) notify(ctx context.Context, typ events.Type, sub *model.Submission) {
	ev := events.Event{Type: typ, Submission: sub, At: time.Now().UTC()}
	for _, email := range []string{sub.StudentEmail, sub.AssignedAdminEmail} {
		if err := s.bus.Publish(ctx, config.CacheKey.SubmissionChannel(email), ev); err != nil {
			s.log.Warn().Err(err).Str("type", string(typ)).Msg("Event publish failed")
		}
	}
}

func withProgress(subs []model.Submission) []model.Submission {
	if subs == nil {
		return []model.Submission{}
	}
	for i := range subs {
		subs[i].WithProgress()
	}
	return subs
}
