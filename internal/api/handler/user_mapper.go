package handler

import (
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Gender:    string(u.Gender),
		Active:    u.Active,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

func toTokenResponse(t *ports.AccessToken) tokenResponse {
	return tokenResponse{
		AccessToken: t.Token,
		TokenType:   t.Type,
		ExpiresAt:   t.ExpiresAt,
	}
}

func (r createUserRequest) toDomain() domain.UserCreate {
	return domain.UserCreate{
		Username: r.Username,
		Password: r.Password,
		Gender:   domain.Gender(r.Gender),
		Active:   r.Active,
	}
}

func (r updateUserRequest) toDomain() domain.UserProfile {
	roles := make([]domain.Role, len(r.Roles))
	for i, role := range r.Roles {
		roles[i] = domain.Role(role)
	}
	return domain.UserProfile{
		Gender: domain.Gender(r.Gender),
		Active: r.Active,
		Roles:  roles,
	}
}
