package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/policy"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// UserService implements account queries and permission administration.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Me returns the hydrated caller, or nil for anonymous callers and for
// sessions whose account no longer exists.
func (s *UserService) Me(_ context.Context, caller *domain.Identity) (*domain.User, error) {
	if !caller.Authenticated() {
		return nil, nil
	}
	return caller.User, nil
}

func (s *UserService) Users(ctx context.Context, caller *domain.Identity) ([]*domain.User, error) {
	if err := policy.Require(caller, domain.PermissionAdmin, domain.PermissionPermissionUpdate); err != nil {
		logDenied(s.logger, caller, "users", "", err)
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserService) UpdatePermissions(ctx context.Context, caller *domain.Identity, userID string, perms []domain.Permission) (*domain.User, error) {
	if err := policy.Require(caller, domain.PermissionAdmin, domain.PermissionPermissionUpdate); err != nil {
		logDenied(s.logger, caller, "update_permissions", userID, err)
		return nil, err
	}

	normalized, ok := domain.NormalizePermissions(perms)
	if !ok {
		return nil, domain.ValidationError("unknown permission")
	}
	if len(normalized) == 0 {
		return nil, domain.ValidationError("at least one permission is required")
	}

	user, err := s.users.UpdatePermissions(ctx, userID, normalized)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor_id", caller.UserID).
		Str("user_id", userID).
		Strs("permissions", domain.PermissionStrings(normalized)).
		Msg("permissions updated")
	return user, nil
}
