package keycloak

import (
	"context"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

const roleAttribute = "role"

// Backend implements auth.IdentityBackend on top of the Keycloak admin
// API. Passwords never touch the gateway's own storage.
type Backend struct {
	client *Client
}

func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

func toDomainUser(u kcUser) domain.User {
	role := string(domain.RoleUser)
	if vals := u.Attributes[roleAttribute]; len(vals) > 0 && vals[0] != "" {
		role = vals[0]
	}

	var createdAt time.Time
	if u.CreatedTimestamp > 0 {
		createdAt = time.UnixMilli(u.CreatedTimestamp).UTC()
	}

	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      role,
		CreatedAt: createdAt,
	}
}

func (b *Backend) CreateUser(ctx context.Context, nu auth.NewUser) (domain.User, error) {
	role := nu.Role
	if role == "" {
		role = string(domain.RoleUser)
	}

	id, err := b.client.CreateUser(ctx, kcUser{
		Username:  nu.Email,
		Email:     nu.Email,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Enabled:   true,
		Attributes: map[string][]string{
			roleAttribute: {role},
		},
		Credentials: []kcCredential{{
			Type:      "password",
			Value:     nu.Password,
			Temporary: false,
		}},
	})
	if err != nil {
		return domain.User{}, err
	}

	u, err := b.client.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

func (b *Backend) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := b.client.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

func (b *Backend) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := b.client.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

// UpdateUser fetches the current representation, merges the new names,
// and writes the whole record back.
func (b *Backend) UpdateUser(ctx context.Context, userID, firstName, lastName string) (domain.User, error) {
	u, err := b.client.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	u.FirstName = firstName
	u.LastName = lastName
	if err := b.client.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

func (b *Backend) DeleteUser(ctx context.Context, userID string) error {
	return b.client.DeleteUser(ctx, userID)
}

func (b *Backend) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	if err := b.client.DirectGrant(ctx, email, password); err != nil {
		return domain.User{}, err
	}
	return b.GetUserByEmail(ctx, email)
}
