// Package local implements the identity backend backed by the gateway's
// own user store and password hasher.
package local

import (
	"context"

	"github.com/google/uuid"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

type Backend struct {
	users  auth.UserRepo
	hasher auth.PasswordHasher
}

func NewBackend(users auth.UserRepo, hasher auth.PasswordHasher) *Backend {
	return &Backend{users: users, hasher: hasher}
}

func (b *Backend) CreateUser(ctx context.Context, nu auth.NewUser) (domain.User, error) {
	hash, err := b.hasher.Hash(nu.Password)
	if err != nil {
		return domain.User{}, err
	}

	return b.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        nu.Email,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		PasswordHash: hash,
		Role:         nu.Role,
	})
}

func (b *Backend) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return b.users.GetByEmail(ctx, email)
}

func (b *Backend) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return b.users.GetByID(ctx, id)
}

func (b *Backend) UpdateUser(ctx context.Context, userID, firstName, lastName string) (domain.User, error) {
	return b.users.UpdateName(ctx, userID, firstName, lastName)
}

func (b *Backend) DeleteUser(ctx context.Context, userID string) error {
	return b.users.Delete(ctx, userID)
}

func (b *Backend) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	u, err := b.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if err := b.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	return u, nil
}
