package memory

import (
	"context"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
)

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishUserRegistered(ctx context.Context, ev auth.UserRegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishUserDeleted(ctx context.Context, ev auth.UserDeletedEvent) error {
	return nil
}
