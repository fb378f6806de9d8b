package auth

import (
	"context"
	"strings"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("userId")
	}
	return s.backend.GetUserByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("userId")
	}

	u, err := s.backend.UpdateUser(ctx, userID, firstName, lastName)
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user.profile_updated", map[string]string{"user_id": userID})
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("userId")
	}

	if err := s.backend.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if err := s.pub.PublishUserDeleted(ctx, UserDeletedEvent{UserID: userID}); err != nil {
		s.audit("user.deleted.publish_failed", map[string]string{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	s.audit("user.deleted", map[string]string{"user_id": userID})
	return nil
}
