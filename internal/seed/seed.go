package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/auth"
)

// Development fallbacks used when no admin credentials are configured.
const (
	defaultAdminEmail    = "admin@placement.local"
	defaultAdminPassword = "admin123"
)

// CreateDefaultAdmin creates the initial admin account if no account with the
// configured email exists. The account is created verified so the instance is
// usable before SMTP is configured.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, email, password string, lgr zerolog.Logger) error {
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
		lgr.Warn().Str("email", email).Msg("No admin password configured, using the development default")
	}

	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Str("email", email).Msg("Admin account already exists, skipping seed")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:      email,
		Password:   hashed,
		RoleType:   models.RoleAdmin,
		IsVerified: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", email).Msg("Default admin account created")
	return nil
}
