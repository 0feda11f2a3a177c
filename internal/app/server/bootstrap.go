package server

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"labourhub/internal/domain/auth"
	"labourhub/internal/platform/config"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/objectid"
	"labourhub/migrations"
)

const devAdminPassword = "ChangeMe123!"

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return db.Migrate(ctx, pool, migrations.FS)
}

// Seed creates the bootstrap admin from configuration. Outside production a
// development password is used when none is configured.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	admin, err := seedAdmin(cfg)
	if err != nil {
		return err
	}
	created, err := db.Seed(ctx, pool, admin)
	if err != nil {
		return err
	}
	log := logging.WithComponent("seed")
	if created {
		log.Info().Str("username", admin.Username).Msg("seeded admin account")
		if strings.TrimSpace(cfg.SeedAdminPassword) == "" {
			log.Warn().Msg("admin account uses the development password; change it")
		}
	}
	return nil
}

func seedAdmin(cfg config.Config) (db.SeedAdmin, error) {
	password := cfg.SeedAdminPassword
	if strings.TrimSpace(password) == "" {
		password = devAdminPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return db.SeedAdmin{}, err
	}
	username := strings.ToLower(strings.TrimSpace(cfg.SeedAdminUsername))
	mail := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if mail == "" {
		mail = username + "@labourhub.local"
	}
	return db.SeedAdmin{
		ID:           objectid.New(),
		Name:         "Administrator",
		Username:     username,
		Email:        mail,
		PasswordHash: hash,
	}, nil
}
