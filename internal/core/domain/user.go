package domain

import "time"

// User models a storefront account.
//
// ResetTokenHash and ResetTokenExpiry are either both set or both zero; the
// repository clears them together when a reset is consumed.
type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	PasswordHash     string       `json:"-"`
	Permissions      []Permission `json:"permissions"`
	ResetTokenHash   string       `json:"-"`
	ResetTokenExpiry time.Time    `json:"-"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// HasResetToken reports whether a reset token is currently issued for the user.
func (u *User) HasResetToken() bool {
	return u.ResetTokenHash != "" && !u.ResetTokenExpiry.IsZero()
}
