// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/mepad/internal/app/store/users"
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/app/system/timeouts"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("request timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium))

	if appCfg.AdminEmail == "" {
		return nil
	}
	return ensureAdmin(ctx, userstore.New(deps.MongoDatabase), appCfg.AdminEmail, appCfg.AdminPassword, logger)
}

// adminStore is the part of *userstore.Store the admin bootstrap needs.
type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) error
}

// ensureAdmin makes sure email belongs to an admin. An existing account is
// promoted; otherwise one is created with password.
func ensureAdmin(ctx context.Context, users adminStore, email, password string, logger *zap.Logger) error {
	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin {
			logger.Info("admin user present", zap.String("email", u.Email))
			return nil
		}
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted existing user to admin", zap.String("email", u.Email))
		return nil
	case !errors.Is(err, apperr.ErrNotFound):
		return fmt.Errorf("look up admin: %w", err)
	}

	if password == "" {
		return fmt.Errorf("admin_password is required to create admin %s", email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := users.Create(ctx, models.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("created admin user", zap.String("email", created.Email))
	return nil
}
