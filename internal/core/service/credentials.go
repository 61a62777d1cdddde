package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

const (
	passwordCost     = 10
	resetTokenBytes  = 30
	defaultSessionTT = 7 * 24 * time.Hour
)

// Credentials hashes passwords, mints and verifies session tokens, and
// generates reset tokens. The signing secret is fixed at construction.
type Credentials struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// sessionClaims is the payload of a session token: the user id and the
// registered iat/exp pair.
type sessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func NewCredentials(secret string, sessionTTL time.Duration) (*Credentials, error) {
	if secret == "" {
		return nil, errors.New("credentials: signing secret must be provided")
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTT
	}
	return &Credentials{secret: []byte(secret), sessionTTL: sessionTTL, now: time.Now}, nil
}

// SessionTTL is how long a minted session stays valid.
func (c *Credentials) SessionTTL() time.Duration {
	return c.sessionTTL
}

// HashPassword returns a salted bcrypt hash of plain.
func (c *Credentials) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ValidationError("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares plain against hash in constant time.
func (c *Credentials) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// MintSession signs a session token for userID.
func (c *Credentials) MintSession(userID string) (string, error) {
	now := c.now()
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// ParseSession verifies signature, algorithm and expiry and returns the user
// id. Every failure wraps domain.ErrUnauthorized.
func (c *Credentials) ParseSession(token string) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", fmt.Errorf("%w: session token carries no user", domain.ErrUnauthorized)
	}
	return claims.UserID, nil
}

// NewResetToken returns a random hex token and the digest that is persisted.
func NewResetToken() (token, digest string, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token = hex.EncodeToString(b)
	return token, ResetTokenDigest(token), nil
}

// ResetTokenDigest is the stored form of a reset token.
func ResetTokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
