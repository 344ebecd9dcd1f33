package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/user-service/internal/core/domain"
)

// Claims is the JWT payload: {sub, active, roles, exp}.
type Claims struct {
	Active bool          `json:"active"`
	Roles  []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed access tokens.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenManager builds a manager for the named HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenManager(secret, algorithm string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenManager{secret: []byte(secret), method: method, now: time.Now}, nil
}

// Issue signs claims with an absolute expiry of now+ttl.
func (tm *TokenManager) Issue(claims domain.TokenClaims, ttl time.Duration) (string, time.Time, error) {
	expiresAt := tm.now().Add(ttl)
	payload := Claims{
		Active: claims.Active,
		Roles:  claims.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(tm.method, payload).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. It returns
// domain.ErrTokenExpired for an expired token and domain.ErrInvalidToken for
// anything else that is wrong with it, including a missing subject.
func (tm *TokenManager) Verify(token string) (*domain.TokenClaims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	return &domain.TokenClaims{
		Subject:   claims.Subject,
		Active:    claims.Active,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
