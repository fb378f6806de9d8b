package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeBackend struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User
	// plaintext passwords, keyed by email (test-only)
	passwords map[string]string

	// injected errors (if set, method returns error)
	createErr error
	getErr    error
	updateErr error
	deleteErr error
	verifyErr error

	deletedIDs []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		byID:      map[string]domain.User{},
		byEmail:   map[string]domain.User{},
		passwords: map[string]string{},
	}
}

func (f *fakeBackend) CreateUser(ctx context.Context, nu NewUser) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[nu.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	u := domain.User{
		ID:        fmt.Sprintf("u-%d", len(f.byID)+1),
		Email:     nu.Email,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Role:      nu.Role,
		CreatedAt: time.Now(),
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.passwords[u.Email] = nu.Password
	return u, nil
}

func (f *fakeBackend) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeBackend) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeBackend) UpdateUser(ctx context.Context, userID, firstName, lastName string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.FirstName = firstName
	u.LastName = lastName
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeBackend) DeleteUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, userID)
	delete(f.byEmail, u.Email)
	delete(f.passwords, u.Email)
	f.deletedIDs = append(f.deletedIDs, userID)
	return nil
}

func (f *fakeBackend) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.verifyErr != nil {
		return domain.User{}, f.verifyErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if f.passwords[email] != password {
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	return u, nil
}

type fakeSigner struct {
	signFn   func(subject, role string, ttl time.Duration) (string, error)
	verifyFn func(token string) (TokenClaims, error)
}

func (f *fakeSigner) Sign(subject, role string, ttl time.Duration) (string, error) {
	if f.signFn != nil {
		return f.signFn(subject, role, ttl)
	}
	return "tok:" + subject + ":" + role, nil
}

func (f *fakeSigner) Verify(token string) (TokenClaims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "tok" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{Subject: parts[1], Role: parts[2], Exp: time.Now().Add(time.Hour)}, nil
}

type fakePublisher struct {
	mu sync.Mutex

	registered []UserRegisteredEvent
	deleted    []UserDeletedEvent

	registeredErr error
	deletedErr    error
}

func (f *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registeredErr != nil {
		return f.registeredErr
	}
	f.registered = append(f.registered, evt)
	return nil
}

func (f *fakePublisher) PublishUserDeleted(ctx context.Context, evt UserDeletedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deletedErr != nil {
		return f.deletedErr
	}
	f.deleted = append(f.deleted, evt)
	return nil
}

/*
Service factory for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeBackend, *fakeSigner, *fakePublisher, *[]auditEntry) {
	t.Helper()

	backend := newFakeBackend()
	signer := &fakeSigner{}
	pub := &fakePublisher{}

	svc := NewService(backend, signer, pub, Config{AccessTTL: 15 * time.Minute})

	var audits []auditEntry
	svc = svc.WithAudit(func(action string, fields map[string]string) {
		audits = append(audits, auditEntry{action: action, fields: fields})
	})

	return svc, backend, signer, pub, &audits
}
