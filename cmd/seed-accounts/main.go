package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/database"
	"github.com/stemsi/portfolio-backend/internal/logger"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/repository"
	"github.com/stemsi/portfolio-backend/internal/service"
)

func main() {
	var password string
	var domain string
	flag.StringVar(&password, "password", "portfolio", "Password given to every seeded account")
	flag.StringVar(&domain, "domain", "school.test", "Email domain for seeded accounts")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	authService := service.NewAuthService(cfg, rdb)
	accountService := service.NewAccountService(repository.NewAccountRepository(pool), authService, rdb, cfg.AdminCacheTTL, log)
	recordService := service.NewStudentRecordService(repository.NewStudentRecordRepository(pool))

	fmt.Println("=== Seeding Accounts ===")

	res := seed(ctx, accountService, recordService, domain, password)

	fmt.Printf("\nSeed completed! Created %d/%d accounts and %d student records.\n",
		res.accounts, len(seedAdmins)+len(seedStudents), res.records)
}

var seedAdmins = []string{"Madam Aishah", "Madam Tan"}

var seedStudents = []struct {
	name    string
	project string
}{
	{"Ali Hassan", "Solar Powered Car"},
	{"Mei Ling", "Water Quality Sensor"},
	{"Ravi Kumar", "Smart Greenhouse"},
	{"Nur Izzah", "Recycling Robot"},
	{"Daniel Lee", "Wind Turbine Model"},
	{"Siti Sarah", "Plant Growth Tracker"},
}

type seedResult struct {
	accounts int
	records  int
}

// seed registers the demo accounts. A student's record is only created
// together with their account, so re-running the seed adds nothing.
func seed(ctx context.Context, accounts *service.AccountService, records *service.StudentRecordService, domain, password string) seedResult {
	var res seedResult
	for _, name := range seedAdmins {
		if seedAccount(ctx, accounts, name, domain, password, model.RoleAdmin) {
			res.accounts++
		}
	}
	for _, s := range seedStudents {
		if !seedAccount(ctx, accounts, s.name, domain, password, model.RoleStudent) {
			continue
		}
		res.accounts++

		_, err := records.Create(ctx, model.CreateStudentRecordRequest{
			FullName:     s.name,
			Email:        emailFor(s.name, domain),
			ProjectTitle: s.project,
		})
		if err != nil {
			fmt.Printf("Error creating record for %s: %v\n", s.name, err)
			continue
		}
		res.records++
	}
	return res
}

func seedAccount(ctx context.Context, accounts *service.AccountService, name, domain, password string, role model.Role) bool {
	_, err := accounts.Register(ctx, model.SignupRequest{
		Username: name,
		Email:    emailFor(name, domain),
		Password: password,
		Role:     role,
	})
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		fmt.Printf("Skipping %s: already registered\n", name)
		return false
	case err != nil:
		fmt.Printf("Error creating %s %s: %v\n", role, name, err)
		return false
	}
	fmt.Printf("Created %s %s\n", role, name)
	return true
}

// emailFor turns "Madam Tan" into "madam.tan@<domain>".
func emailFor(name, domain string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ".")) + "@" + domain
}
