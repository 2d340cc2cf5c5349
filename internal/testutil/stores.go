package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/repository"
)

// AccountStore is an in-memory account table with a unique email index.
type AccountStore struct {
	mu       sync.Mutex
	nextID   int
	accounts []model.Account
}

// NewAccountStore creates an empty AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{nextID: 1}
}

func (s *AccountStore) Create(_ context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	a.ID = s.nextID
	a.CreatedAt = time.Now().UTC()
	s.nextID++
	s.accounts = append(s.accounts, *a)
	return nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *AccountStore) ListByRole(_ context.Context, role model.Role) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.accounts {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

// CountingAccountStore wraps AccountStore and counts ListByRole calls.
type CountingAccountStore struct {
	*AccountStore
	mu        sync.Mutex
	listCalls int
}

// NewCountingAccountStore creates an empty CountingAccountStore.
func NewCountingAccountStore() *CountingAccountStore {
	return &CountingAccountStore{AccountStore: NewAccountStore()}
}

func (s *CountingAccountStore) ListByRole(ctx context.Context, role model.Role) ([]model.Account, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()
	return s.AccountStore.ListByRole(ctx, role)
}

// ListCalls reports how many times ListByRole reached the store.
func (s *CountingAccountStore) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// StudentRecordStore is an in-memory student record table.
type StudentRecordStore struct {
	mu      sync.Mutex
	nextID  int
	records []model.StudentRecord
	clock   time.Time
}

// NewStudentRecordStore creates an empty StudentRecordStore.
func NewStudentRecordStore() *StudentRecordStore {
	return &StudentRecordStore{nextID: 1, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *StudentRecordStore) Create(_ context.Context, r *model.StudentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Each insert gets a strictly later timestamp so ordering is deterministic.
	s.clock = s.clock.Add(time.Second)
	r.ID = s.nextID
	r.CreatedAt = s.clock
	r.UpdatedAt = s.clock
	s.nextID++
	s.records = append(s.records, *r)
	return nil
}

func (s *StudentRecordStore) ListNewestFirst(_ context.Context) ([]model.StudentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StudentRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SubmissionStore is an in-memory submission table with the same version
// semantics as the Postgres repository.
type SubmissionStore struct {
	mu    sync.Mutex
	subs  []model.Submission
	clock time.Time
}

// NewSubmissionStore creates an empty SubmissionStore.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *SubmissionStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *SubmissionStore) Create(_ context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	sub.Version = 1
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.subs = append(s.subs, *sub)
	return nil
}

func (s *SubmissionStore) ListByStudent(_ context.Context, studentEmail string) ([]model.Submission, error) {
	return s.filter(func(sub *model.Submission) bool { return sub.StudentEmail == studentEmail }), nil
}

func (s *SubmissionStore) ListByAdmin(_ context.Context, adminEmail string) ([]model.Submission, error) {
	return s.filter(func(sub *model.Submission) bool { return sub.AssignedAdminEmail == adminEmail }), nil
}

func (s *SubmissionStore) FindByKey(_ context.Context, title, studentEmail string) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Insertion order is creation order, so the first match is the oldest.
	for _, sub := range s.subs {
		if sub.Title == title && sub.StudentEmail == studentEmail {
			out := sub
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *SubmissionStore) UpdateReview(_ context.Context, id uuid.UUID, expectedVersion int, status model.SubmissionStatus, marks *int, feedback string) (*model.Submission, error) {
	return s.update(id, expectedVersion, func(sub *model.Submission) {
		sub.Status = status
		sub.Marks = marks
		sub.Feedback = feedback
	})
}

func (s *SubmissionStore) UpdateFile(_ context.Context, id uuid.UUID, expectedVersion int, fileName, fileURL string) (*model.Submission, error) {
	return s.update(id, expectedVersion, func(sub *model.Submission) {
		sub.FileName = fileName
		sub.FileURL = fileURL
	})
}

func (s *SubmissionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subs {
		if s.subs[i].ID == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// All returns a copy of every stored submission.
func (s *SubmissionStore) All() []model.Submission {
	return s.filter(func(*model.Submission) bool { return true })
}

func (s *SubmissionStore) update(id uuid.UUID, expectedVersion int, apply func(*model.Submission)) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subs {
		sub := &s.subs[i]
		if sub.ID != id {
			continue
		}
		if expectedVersion != 0 && sub.Version != expectedVersion {
			return nil, repository.ErrVersionConflict
		}
		apply(sub)
		sub.Version++
		sub.UpdatedAt = s.tick()
		out := *sub
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (s *SubmissionStore) filter(keep func(*model.Submission) bool) []model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Submission
	for i := range s.subs {
		if keep(&s.subs[i]) {
			out = append(out, s.subs[i])
		}
	}
	return out
}
