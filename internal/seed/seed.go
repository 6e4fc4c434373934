// Package seed creates the initial admin account.
package seed

import (
	"context"

	"github.com/super-gamer/apiserver/config"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Admin ensures the configured admin account exists, hashing its
// password with bcrypt. It does nothing when an admin is already
// present.
func Admin(ctx context.Context, userService *services.UserService, cfg config.AdminConfig) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return userService.EnsureAdmin(ctx, types.User{
		Email:        cfg.Email,
		Name:         cfg.Name,
		PasswordHash: string(hashed),
	})
}
