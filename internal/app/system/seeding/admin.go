package seeding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminAccount is the bootstrap administrator configured at startup.
type AdminAccount struct {
	Email    string
	Name     string
	Password string
}

// SeedAdmin creates the bootstrap administrator unless a user with that email
// already exists. A blank email disables it. Reports whether a user was created.
func SeedAdmin(ctx context.Context, db *mongo.Database, acct AdminAccount, logger *zap.Logger) (bool, error) {
	email := strings.TrimSpace(acct.Email)
	if email == "" {
		return false, nil
	}

	store := userstore.New(db)
	_, err := store.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}

	if err := authutil.ValidatePassword(acct.Password); err != nil {
		return false, fmt.Errorf("seed admin password: %w", err)
	}
	hash, err := authutil.HashPassword(acct.Password)
	if err != nil {
		return false, err
	}

	name := strings.TrimSpace(acct.Name)
	if name == "" {
		name = "Administrator"
	}
	u, err := store.Create(ctx, models.User{
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	})
	if err != nil {
		return false, err
	}
	logger.Info("seeded admin user",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))
	return true, nil
}
