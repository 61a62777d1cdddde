package domain

import "context"

// Identity is the caller resolved for a single request. User is nil until the
// record is hydrated, and stays nil if the account no longer exists.
type Identity struct {
	UserID string
	User   *User
}

// Authenticated reports whether the identity is backed by an existing user.
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID != "" && i.User != nil
}

// Permissions returns the hydrated user's permissions, or nil.
func (i *Identity) Permissions() []Permission {
	if !i.Authenticated() {
		return nil
	}
	return i.User.Permissions
}

type identityKey struct{}

// WithIdentity attaches the caller to a request context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller attached to ctx, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
