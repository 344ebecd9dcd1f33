package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
	"github.com/userhub/user-service/internal/pkg/metrics"
)

// UserService implements ports.UserService on top of the generic CRUD use
// cases. It never returns a password hash.
type UserService struct {
	*CRUD[domain.UserRecord, domain.User, domain.UserProfile, domain.UserPatch]
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time

	// dummyHash is verified against when the username is unknown so both
	// failure paths cost one hash comparison.
	dummyHash string
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	mapper := NewUserMapper()
	dummy, _ := hasher.Hash(uuid.NewString())
	return &UserService{
		CRUD:      NewCRUD[domain.UserRecord, domain.User, domain.UserProfile, domain.UserPatch](repo, mapper),
		repo:      repo,
		hasher:    hasher,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Authenticate verifies the credentials and, on success, refreshes the user's
// cache entry. An unknown username and a wrong password both return
// domain.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	rec, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, rec.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.CacheEntity(ctx, rec.ID); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("refresh").Inc()
		s.log.Warn().Err(err).Str("user_id", rec.ID).Msg("cache refresh after login failed")
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	user := s.mapper.ToDTO(*rec)
	return &user, nil
}

// Register hashes the password and inserts a new user. A taken username
// surfaces as domain.ErrDuplicateKey from the store's unique index.
func (s *UserService) Register(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}
	if !in.Gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", domain.ErrInvalidInput, in.Gender)
	}
	if !validRoles(in.Roles) {
		return nil, fmt.Errorf("%w: unknown role", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now().UTC()
	rec := &domain.UserRecord{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Gender:       in.Gender,
		Active:       active,
		Roles:        normalizeRoles(in.Roles),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err := s.CRUD.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			s.log.Info().Str("username", in.Username).Msg("registration rejected: username taken")
			return nil, err
		}
		s.log.Error().Err(err).Msg("failed to register user")
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Update replaces the profile fields of a user.
func (s *UserService) Update(ctx context.Context, id string, profile domain.UserProfile) (bool, error) {
	if !profile.Gender.Valid() {
		return false, fmt.Errorf("%w: unknown gender %q", domain.ErrInvalidInput, profile.Gender)
	}
	if !validRoles(profile.Roles) {
		return false, fmt.Errorf("%w: unknown role", domain.ErrInvalidInput)
	}
	return s.CRUD.Update(ctx, id, profile)
}

// ChangePassword replaces only the password hash.
func (s *UserService) ChangePassword(ctx context.Context, id, password string) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if err := checkPasswordLength(password); err != nil {
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Update(ctx, id, domain.UserPatch{
		PasswordHash: hash,
		UpdatedAt:    s.now().UTC(),
	})
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	rec, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user := s.mapper.ToDTO(*rec)
	return &user, nil
}

// Logout evicts the cached user. Issued tokens stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, id string) error {
	return s.repo.CacheClearEntity(ctx, id)
}

// maxPasswordBytes is bcrypt's input limit. It counts bytes, so multibyte
// characters reach it before the character count does.
const maxPasswordBytes = 72

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}
