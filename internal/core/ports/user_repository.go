package ports

import (
	"context"
	"time"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a user. Returns domain.ErrUserExists on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdatePermissions(ctx context.Context, id string, perms []domain.Permission) (*domain.User, error)

	// SetResetToken stores the token digest and expiry, replacing any earlier token.
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	// FindByResetToken matches (id, tokenHash, expiry >= now). Any miss is
	// domain.ErrInvalidOrExpiredToken.
	FindByResetToken(ctx context.Context, id, tokenHash string, now time.Time) (*domain.User, error)
	// ConsumeResetToken sets the new password and clears both token fields in
	// one conditional write on the same match as FindByResetToken.
	ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) (*domain.User, error)
}
