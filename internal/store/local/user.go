package local

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/super-gamer/apiserver/internal/kv"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

// UserRepository handles persistence for users in the local store.
type UserRepository struct {
	store kv.Store
}

func NewUserRepository(kvStore kv.Store) *UserRepository {
	return &UserRepository{store: kvStore}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	users, err := readList[types.User](r.store, usersCollection)
	if err != nil {
		return types.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	users, err := readList[types.User](r.store, usersCollection)
	if err != nil {
		return types.User{}, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()

	err := r.store.Update(usersCollection, func(current []byte) ([]byte, error) {
		users, err := decodeList[types.User](current)
		if err != nil {
			return nil, err
		}
		for _, existing := range users {
			if existing.Email == user.Email {
				return nil, store.ErrDuplicateEmail
			}
		}
		return encodeList(append(users, user))
	})
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

// CountAdmins returns the number of users holding the admin role.
func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	users, err := readList[types.User](r.store, usersCollection)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, user := range users {
		if user.Role == types.RoleAdmin {
			count++
		}
	}
	return count, nil
}
