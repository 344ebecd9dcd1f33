package service

import (
	"slices"
	"time"

	"github.com/userhub/user-service/internal/core/domain"
)

// UserMapper converts user records into sanitized users and profiles into
// store patches.
type UserMapper struct {
	now func() time.Time
}

func NewUserMapper() *UserMapper {
	return &UserMapper{now: time.Now}
}

// ToDTO drops the password hash.
func (m *UserMapper) ToDTO(u domain.UserRecord) domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Gender:    u.Gender,
		Active:    u.Active,
		Roles:     slices.Clone(u.Roles),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToPatch replaces gender, active and roles and stamps updated_at.
func (m *UserMapper) ToPatch(p domain.UserProfile) domain.UserPatch {
	active := p.Active
	return domain.UserPatch{
		Gender:    p.Gender,
		Active:    &active,
		Roles:     normalizeRoles(p.Roles),
		UpdatedAt: m.now().UTC(),
	}
}

// normalizeRoles removes duplicates and falls back to the default role set.
func normalizeRoles(roles []domain.Role) []domain.Role {
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return domain.DefaultRoles()
	}
	return out
}

func validRoles(roles []domain.Role) bool {
	for _, r := range roles {
		if !r.Valid() {
			return false
		}
	}
	return true
}
