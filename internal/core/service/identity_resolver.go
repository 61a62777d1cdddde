package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

type identityResolver struct {
	creds *Credentials
	users ports.UserRepository
	log   zerolog.Logger
}

// NewIdentityResolver returns the session-to-identity resolver used by the
// HTTP middleware.
func NewIdentityResolver(creds *Credentials, users ports.UserRepository, log zerolog.Logger) ports.IdentityResolver {
	return &identityResolver{creds: creds, users: users, log: log}
}

func (r *identityResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	userID, err := r.creds.ParseSession(token)
	if err != nil {
		metrics.SecurityEventsTotal.WithLabelValues("invalid_session").Inc()
		r.log.Warn().Err(err).Str("event", "security.invalid_session").Msg("rejected session token")
		return nil, err
	}

	id := &domain.Identity{UserID: userID}
	user, err := r.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		r.log.Debug().Str("user_id", userID).Msg("session for missing user")
		return id, nil
	case err != nil:
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	id.User = user
	return id, nil
}
