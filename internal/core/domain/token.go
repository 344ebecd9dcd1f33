package domain

import "time"

// TokenClaims is the identity carried by an access token. Roles are a
// snapshot taken when the token was issued.
type TokenClaims struct {
	Subject   string
	Active    bool
	Roles     []Role
	ExpiresAt time.Time
}
