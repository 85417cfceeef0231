package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"ecomstore/internal/auth"
	"ecomstore/internal/config"
	"ecomstore/internal/db"
	"ecomstore/internal/logger"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

// SeedProductData represents one catalog entry in the seed file.
type SeedProductData struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Color       string          `json:"color"`
	Image       string          `json:"image"`
}

// adminAccount is the bootstrap administrator read from ADMIN_* variables.
type adminAccount struct {
	Username string
	Email    string
	Password string
}

func main() {
	productsFile := flag.String("products", "", "optional JSON file with an array of products to load")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, true, os.Stdout)
	log.Info().Msg("starting seed script")

	gormDB, err := db.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := repository.NewStore(gormDB)
	ctx := context.Background()

	admin, err := loadAdmin()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid admin settings")
	}
	adminUser, created, err := seedAdmin(ctx, store, auth.NewBcryptHasher(), admin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	log.Info().Str("email", adminUser.Email).Bool("created", created).Msg("admin account ready")

	if *productsFile == "" {
		log.Info().Msg("seed completed, no product file given")
		return
	}

	products, err := readProducts(*productsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read products")
	}
	seeded, skipped := seedProducts(ctx, store, adminUser.ID, products, log)
	log.Info().Int("created", seeded).Int("skipped", skipped).Msg("seed completed")
}

func loadAdmin() (adminAccount, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADMIN_USERNAME", "admin")

	admin := adminAccount{
		Username: v.GetString("ADMIN_USERNAME"),
		Email:    v.GetString("ADMIN_EMAIL"),
		Password: v.GetString("ADMIN_PASSWORD"),
	}
	if admin.Email == "" || admin.Password == "" {
		return admin, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	return admin, nil
}

// seedAdmin creates the admin account, or promotes an existing account with the same email.
func seedAdmin(ctx context.Context, store repository.Store, hasher auth.PasswordHasher, admin adminAccount) (*model.User, bool, error) {
	existing, err := store.Users().FindByEmail(ctx, admin.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("error checking admin %s: %w", admin.Email, err)
	}

	if existing != nil {
		if existing.IsAdmin() {
			return existing, false, nil
		}
		promoted, err := store.Users().UpdateRole(ctx, existing.ID, model.RoleAdmin)
		if err != nil {
			return nil, false, fmt.Errorf("error promoting %s: %w", admin.Email, err)
		}
		return promoted, false, nil
	}

	hashed, err := hasher.Hash(admin.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := store.Users().Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("error creating admin %s: %w", admin.Email, err)
	}
	return user, true, nil
}

func readProducts(path string) ([]SeedProductData, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var products []SeedProductData
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return products, nil
}

// seedProducts inserts every valid entry authored by the admin.
func seedProducts(ctx context.Context, store repository.Store, authorID uuid.UUID, products []SeedProductData, log zerolog.Logger) (seeded, skipped int) {
	for _, item := range products {
		if item.Name == "" || item.Price.IsNegative() {
			log.Warn().Str("name", item.Name).Msg("skipping invalid product")
			skipped++
			continue
		}
		product := &model.Product{
			Name:        item.Name,
			Category:    item.Category,
			Description: item.Description,
			Price:       item.Price,
			Color:       item.Color,
			Image:       item.Image,
			AuthorID:    authorID,
		}
		if err := store.Products().Create(ctx, product); err != nil {
			log.Warn().Err(err).Str("name", item.Name).Msg("skipping product")
			skipped++
			continue
		}
		seeded++
	}
	return seeded, skipped
}
