package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const tokenTypeBearer = "bearer"

// AuthService implements login, token refresh and logout.
type AuthService struct {
	users    ports.UserService
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(users ports.UserService, tokens ports.TokenIssuer, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{users: users, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AccessToken, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, nil
}

// Refresh issues a new token for subject with the user's current roles.
// It returns domain.ErrNotFound when the user no longer exists.
func (s *AuthService) Refresh(ctx context.Context, subject string) (*ports.AccessToken, error) {
	user, err := s.users.Get(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout clears the server-side cache for subject.
func (s *AuthService) Logout(ctx context.Context, subject string) error {
	if err := s.users.Logout(ctx, subject); err != nil {
		return err
	}
	s.log.Info().Str("user_id", subject).Msg("user logged out")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AccessToken, error) {
	signed, expiresAt, err := s.tokens.Issue(domain.TokenClaims{
		Subject: user.ID,
		Active:  user.Active,
		Roles:   user.Roles,
	}, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &ports.AccessToken{Token: signed, Type: tokenTypeBearer, ExpiresAt: expiresAt}, nil
}
