package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/model"
)

// AccountService handles signup, credential checks, and the admin directory.
type AccountService struct {
	accounts AccountStore
	auth     *AuthService
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountStore, auth *AuthService, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		auth:     auth,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "account_service").Logger(),
	}
}

// Register creates a new account. Role defaults to student. The password is
// stored as a bcrypt hash.
func (s *AccountService) Register(ctx context.Context, req model.SignupRequest) (*model.Account, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(translate(err), ErrNotFound) {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, translate(err)
	}

	if role == model.RoleAdmin {
		s.invalidateAdminCache(ctx)
	}

	s.log.Info().Int("account_id", account.ID).Str("role", string(role)).Msg("Account registered")
	return account, nil
}

// Authenticate returns the account whose email and password both match.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.auth.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// ListAdmins returns every admin projected to username and email.
// Results are cached in Redis; a cache failure falls through to the store.
func (s *AccountService) ListAdmins(ctx context.Context) ([]model.AdminSummary, error) {
	key := config.CacheKey.AdminListKey()

	if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var admins []model.AdminSummary
		if err := json.Unmarshal(cached, &admins); err == nil {
			return admins, nil
		}
		s.log.Warn().Msg("Discarding corrupt admin cache")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Admin cache read failed")
	}

	accounts, err := s.accounts.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	admins := make([]model.AdminSummary, 0, len(accounts))
	for _, a := range accounts {
		admins = append(admins, model.AdminSummary{Username: a.Username, Email: a.Email})
	}

	if s.cacheTTL > 0 {
		if payload, err := json.Marshal(admins); err == nil {
			if err := s.rdb.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Admin cache write failed")
			}
		}
	}

	return admins, nil
}

func (s *AccountService) invalidateAdminCache(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.AdminListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Admin cache invalidation failed")
	}
}
