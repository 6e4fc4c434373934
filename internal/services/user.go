package services

import (
	"context"
	"errors"

	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	CountAdmins(ctx context.Context) (int, error)
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	if user.Role == "" {
		user.Role = types.RoleUser
	}
	return s.repo.Create(ctx, user)
}

// EnsureAdmin creates the seed admin account unless one already
// exists. It is idempotent across restarts.
func (s *UserService) EnsureAdmin(ctx context.Context, admin types.User) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin.Role = types.RoleAdmin
	if _, err := s.repo.Create(ctx, admin); err != nil {
		// A concurrent seed may have won the race.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	return nil
}
