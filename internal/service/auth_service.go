package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Session errors.
var (
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with the account identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int        `json:"account_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
}

// Info converts claims to the identity exposed to clients.
func (c *Claims) Info() model.SessionInfo {
	info := model.SessionInfo{
		AccountID: c.AccountID,
		Username:  c.Username,
		Email:     c.Email,
		Role:      c.Role,
	}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info
}

// AuthService handles password hashing, JWT issuance, and session bookkeeping.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, now: time.Now}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueSession creates a JWT for the account and registers its token ID in Redis
// with the same lifetime. Several sessions per account may be live at once.
func (s *AuthService) IssueSession(ctx context.Context, a *model.Account) (string, time.Time, error) {
	jti := uuid.New().String()
	now := s.now()
	expiresAt := now.Add(s.cfg.SessionTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.SessionKey(a.ID, jti), string(a.Role), s.cfg.SessionTTL).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}

	return signed, expiresAt.Truncate(time.Second), nil
}

// ValidateToken parses and validates a JWT, returning the claims.
// An expired but correctly signed token yields its claims together with ErrSessionExpired.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.AccountID != 0 {
			return claims, ErrSessionExpired
		}
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// CheckSession verifies the token ID is still registered in Redis.
func (s *AuthService) CheckSession(ctx context.Context, claims *Claims) error {
	n, err := s.rdb.Exists(ctx, config.CacheKey.SessionKey(claims.AccountID, claims.ID)).Result()
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if n == 0 {
		return ErrSessionInvalidated
	}
	return nil
}

// EndSession removes a session from Redis. Ending an unknown session is not an error.
func (s *AuthService) EndSession(ctx context.Context, claims *Claims) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(claims.AccountID, claims.ID)).Err()
}
