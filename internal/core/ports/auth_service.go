package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// SignUpInput carries the data needed to create an account.
type SignUpInput struct {
	Email    string
	Name     string
	Password string
}

// ResetPasswordInput carries a reset-token redemption.
type ResetPasswordInput struct {
	UserID          string
	Token           string
	Password        string
	ConfirmPassword string
}

// Session is an authenticated user plus a freshly minted session credential.
type Session struct {
	Token string
	User  *domain.User
}

// AuthService covers the credential lifecycle.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Signout(ctx context.Context, caller *domain.Identity) error
	// RequestReset issues a reset token and returns the reset link.
	RequestReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) (*Session, error)
}

// IdentityResolver turns a raw session credential into a caller identity.
type IdentityResolver interface {
	// Resolve returns domain.ErrUnauthorized for a forged, malformed or expired
	// credential. A valid credential for a deleted user yields an identity
	// with a nil User.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// UserService covers account queries and permission administration.
type UserService interface {
	Me(ctx context.Context, caller *domain.Identity) (*domain.User, error)
	Users(ctx context.Context, caller *domain.Identity) ([]*domain.User, error)
	UpdatePermissions(ctx context.Context, caller *domain.Identity, userID string, perms []domain.Permission) (*domain.User, error)
}
