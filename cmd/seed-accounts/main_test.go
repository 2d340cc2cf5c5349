package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/service"
	"github.com/stemsi/portfolio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedIsIdempotent(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	cfg := &config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost, AdminCacheTTL: time.Minute}

	accounts := service.NewAccountService(testutil.NewAccountStore(), service.NewAuthService(cfg, rdb), rdb, cfg.AdminCacheTTL, zerolog.Nop())
	records := service.NewStudentRecordService(testutil.NewStudentRecordStore())
	ctx := context.Background()

	first := seed(ctx, accounts, records, "school.test", "portfolio")
	assert.Equal(t, seedResult{accounts: len(seedAdmins) + len(seedStudents), records: len(seedStudents)}, first)

	second := seed(ctx, accounts, records, "school.test", "portfolio")
	assert.Equal(t, seedResult{}, second)

	stored, err := records.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(seedStudents))
}

func TestEmailFor(t *testing.T) {
	assert.Equal(t, "madam.tan@school.test", emailFor("Madam Tan", "school.test"))
	assert.Equal(t, "nur.izzah@x.test", emailFor("  Nur   Izzah ", "x.test"))
}
