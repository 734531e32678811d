// Seeds the baseline data the platform needs before first login: the
// per-role daily limits, the platform config row, the law catalog and an
// initial admin account.
package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"legalai/internal/config"
	"legalai/internal/db"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// Default daily message limits per role. Admin-editable afterwards.
var defaultRoleLimits = map[model.Role]int{
	model.RoleFree:  10,
	model.RolePlus:  100,
	model.RoleAdmin: 1000,
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.RoleLimit{},
		&model.APIConfig{},
		&model.Law{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	quotaRepo := repository.NewQuotaRepository(gormDB)
	configRepo := repository.NewConfigRepository(gormDB)
	lawRepo := repository.NewLawRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)

	for role, limit := range defaultRoleLimits {
		if _, err := quotaRepo.GetRoleLimit(ctx, role); err == nil {
			continue // keep admin-edited values
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check role limit %s: %v", role, err)
		}
		if err := quotaRepo.UpsertRoleLimit(ctx, role, limit); err != nil {
			log.Fatalf("Failed to seed role limit %s: %v", role, err)
		}
		log.Printf("Seeded role limit: %s = %d messages/day", role, limit)
	}

	// Get lazily creates the default config row.
	apiCfg, err := configRepo.Get(ctx)
	if err != nil {
		log.Fatalf("Failed to seed platform config: %v", err)
	}
	log.Printf("Platform config: subscriptions_enabled=%t plus_price=%s",
		apiCfg.SubscriptionsEnabled, apiCfg.PlusPriceMonthly)

	if err := lawRepo.UpsertBatch(ctx, lawCatalog()); err != nil {
		log.Fatalf("Failed to seed law catalog: %v", err)
	}
	log.Printf("Seeded law catalog: %d entries", len(lawCatalog()))

	if err := seedAdmin(ctx, profileRepo); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedAdmin creates the initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD, skipping silently when unset or already present.
func seedAdmin(ctx context.Context, profiles repository.ProfileRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	if _, err := profiles.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin %s already exists, skipping", email)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	admin := &model.Profile{
		FullName:           "Platform Admin",
		Email:              email,
		PasswordHash:       string(hash),
		Role:               model.RoleAdmin,
		EmailNotifications: true,
	}
	if err := profiles.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded admin account: %s", email)
	return nil
}

// lawCatalog is the static legal reference content shown in the app.
func lawCatalog() []model.Law {
	return []model.Law{
		{Code: "civil-code", Title: "Civil Code", Category: "civil", ArticleCount: 1448, Summary: "General rules of private law: persons, property, obligations and contracts.", SourceURL: "https://example.org/laws/civil-code"},
		{Code: "penal-code", Title: "Penal Code", Category: "criminal", ArticleCount: 410, Summary: "Defines criminal offences and their penalties.", SourceURL: "https://example.org/laws/penal-code"},
		{Code: "labor-law", Title: "Labor Law", Category: "labor", ArticleCount: 266, Summary: "Employment relations, contracts, working time, leave and termination.", SourceURL: "https://example.org/laws/labor-law"},
		{Code: "commercial-code", Title: "Commercial Code", Category: "commercial", ArticleCount: 772, Summary: "Traders, commercial companies, negotiable instruments and bankruptcy.", SourceURL: "https://example.org/laws/commercial-code"},
		{Code: "family-code", Title: "Family Code", Category: "family", ArticleCount: 398, Summary: "Marriage, divorce, custody and family property.", SourceURL: "https://example.org/laws/family-code"},
		{Code: "consumer-protection", Title: "Consumer Protection Law", Category: "commercial", ArticleCount: 78, Summary: "Consumer rights, warranties and unfair commercial practices.", SourceURL: "https://example.org/laws/consumer-protection"},
		{Code: "data-protection", Title: "Personal Data Protection Law", Category: "administrative", ArticleCount: 95, Summary: "Processing of personal data, data subject rights and supervisory authority.", SourceURL: "https://example.org/laws/data-protection"},
		{Code: "tax-code", Title: "Tax Code", Category: "fiscal", ArticleCount: 520, Summary: "Income tax, VAT and tax procedure.", SourceURL: "https://example.org/laws/tax-code"},
	}
}
