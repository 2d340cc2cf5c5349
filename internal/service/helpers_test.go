package service

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/portfolio-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		BcryptCost:     bcrypt.MinCost,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
		AdminCacheTTL:  time.Minute,
	}
}

func newTestAuth(t *testing.T, rdb *redis.Client) *AuthService {
	t.Helper()
	return NewAuthService(newTestConfig(t), rdb)
}

func intPtr(v int) *int { return &v }
