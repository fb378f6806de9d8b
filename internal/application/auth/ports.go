package auth

import (
	"context"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

/*
IdentityBackend
---------------
Capability port for the identity system of record. The orchestrator is
polymorphic over this interface: the local backend stores users in
Postgres and verifies bcrypt hashes, the keycloak backend forwards every
operation to the provider's admin API. Selected once at startup.
*/
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type IdentityBackend interface {
	CreateUser(ctx context.Context, nu NewUser) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	UpdateUser(ctx context.Context, userID, firstName, lastName string) (domain.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// VerifyCredentials returns the user when email/password match.
	// Implementations may distinguish unknown-user from bad-password in the
	// returned error; the orchestrator collapses both before they reach a client.
	VerifyCredentials(ctx context.Context, email, password string) (domain.User, error)
}

/*
UserRepo
--------
Persistence port for the local backend.
Only describes WHAT the gateway needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	UpdateName(ctx context.Context, userID, firstName, lastName string) (domain.User, error)
	Delete(ctx context.Context, userID string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies bearer tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	Subject string // email
	Role    string
	Exp     time.Time
}

type TokenSigner interface {
	Sign(subject string, role string, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes account lifecycle events to the message broker.
Downstream services (email, analytics) consume these.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishUserDeleted(ctx context.Context, evt UserDeletedEvent) error
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type UserDeletedEvent struct {
	UserID string `json:"user_id"`
}
