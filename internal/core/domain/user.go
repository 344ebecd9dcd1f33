package domain

import "time"

// Role is a closed enumeration; comparisons are exact and case-sensitive.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// DefaultRoles is applied whenever a user is created or updated without roles.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// UserRecord is the persisted shape of a user, including the password hash.
// It is also the snapshot stored in the cache. It must never be rendered to
// a client; use User instead.
type UserRecord struct {
	ID           string    `json:"id"            bson:"id"`
	Username     string    `json:"username"      bson:"username"`
	Gender       Gender    `json:"gender"        bson:"gender"`
	Active       bool      `json:"active"        bson:"active"`
	Roles        []Role    `json:"roles"         bson:"roles"`
	PasswordHash string    `json:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    bson:"updated_at"`
}

// EntityID satisfies ports.Entity.
func (u UserRecord) EntityID() string { return u.ID }

// User is the sanitized view of a user record.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Gender    Gender    `json:"gender"`
	Active    bool      `json:"active"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCreate carries registration input.
type UserCreate struct {
	Username string
	Password string
	Gender   Gender
	Active   *bool
	Roles    []Role
}

// UserProfile carries the mutable profile fields of a user. Username, id and
// password are deliberately absent.
type UserProfile struct {
	Gender Gender
	Active bool
	Roles  []Role
}

// UserPatch is a partial update document: only non-empty fields are written.
type UserPatch struct {
	Gender       Gender    `bson:"gender,omitempty"`
	Active       *bool     `bson:"active,omitempty"`
	Roles        []Role    `bson:"roles,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at"`
}
