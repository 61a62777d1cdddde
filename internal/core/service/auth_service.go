package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

// AuthConfig holds the tunables of the credential lifecycle.
type AuthConfig struct {
	FrontendURL   string
	ResetTokenTTL time.Duration
}

// AuthService implements signup, login, signout and the password reset flow.
type AuthService struct {
	users  ports.UserRepository
	creds  *Credentials
	mail   ports.MailQueue
	cfg    AuthConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, creds *Credentials, mail ports.MailQueue, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &AuthService{users: users, creds: creds, mail: mail, cfg: cfg, logger: logger, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.Session, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, domain.ValidationError("email, name and password are required")
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Permissions:  domain.DefaultPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	return s.session(user)
}

// Signout only checks that the caller is signed in; clearing the cookie is
// the transport's job.
func (s *AuthService) Signout(_ context.Context, caller *domain.Identity) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthorized
	}
	s.logger.Debug().Str("user_id", caller.UserID).Msg("user signed out")
	return nil
}

// RequestReset issues a fresh reset token, replacing any earlier one, and
// queues the reset email. The returned link carries the plaintext token.
func (s *AuthService) RequestReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", domain.ValidationError("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, digest, err := NewResetToken()
	if err != nil {
		return "", err
	}
	expiry := s.now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expiry); err != nil {
		return "", fmt.Errorf("request reset: %w", err)
	}
	metrics.ResetTokensIssuedTotal.Inc()

	link := s.resetLink(user.ID, token)
	body, err := renderResetMail(user.Name, link)
	if err != nil {
		return "", err
	}
	s.mail.Enqueue(ports.Mail{To: user.Email, Subject: "Your password reset link", HTML: body})

	s.logger.Info().Str("user_id", user.ID).Time("expires_at", expiry).Msg("reset token issued")
	return link, nil
}

func (s *AuthService) resetLink(userID, token string) string {
	return fmt.Sprintf("%s/reset?id=%s&resetToken=%s", s.cfg.FrontendURL, url.QueryEscape(userID), url.QueryEscape(token))
}

// ResetPassword redeems a reset token. The token is single-use: the password
// change and the token removal are one conditional write.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) (*ports.Session, error) {
	if in.Password == "" {
		return nil, domain.ValidationError("password is required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.ValidationError("passwords do not match")
	}
	if in.UserID == "" || in.Token == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	digest := ResetTokenDigest(in.Token)
	now := s.now().UTC()
	if _, err := s.users.FindByResetToken(ctx, in.UserID, digest, now); err != nil {
		return nil, err
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ConsumeResetToken(ctx, in.UserID, digest, hash, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return s.session(user)
}

func (s *AuthService) session(user *domain.User) (*ports.Session, error) {
	token, err := s.creds.MintSession(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, User: user}, nil
}
